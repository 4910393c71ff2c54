// ABOUTME: Accessory CRUD operations shared by the facade and transactions.
// ABOUTME: Accessories are definition-only records with no derived state.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/pillars/internal/models"
)

// ListAccessories returns every accessory ordered by name.
func (t *Tx) ListAccessories() ([]*models.Accessory, error) {
	return listAccessories(t.tx)
}

// GetAccessory retrieves an accessory by ID.
func (t *Tx) GetAccessory(id string) (*models.Accessory, error) {
	return getAccessory(t.tx, id)
}

// CreateAccessory inserts a new accessory, rejecting duplicate IDs or
// names before any write happens.
func (t *Tx) CreateAccessory(a *models.Accessory) error {
	var count int
	err := t.tx.QueryRow(
		"SELECT COUNT(*) FROM accessories WHERE id = ? OR LOWER(name) = LOWER(?)",
		a.ID, a.Name,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check duplicate accessory: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("accessory already exists: %s", a.Name)
	}
	return insertAccessory(t.tx, a)
}

// ReplaceAccessory overwrites a whole accessory row.
func (t *Tx) ReplaceAccessory(a *models.Accessory) error {
	_, err := t.tx.Exec(
		"INSERT OR REPLACE INTO accessories (id, name, tags) VALUES (?, ?, ?)",
		a.ID, a.Name, encodeList(a.Tags),
	)
	if err != nil {
		return fmt.Errorf("replace accessory %s: %w", a.ID, err)
	}
	return nil
}

// ClearAccessories removes every accessory row.
func (t *Tx) ClearAccessories() error {
	if _, err := t.tx.Exec("DELETE FROM accessories"); err != nil {
		return fmt.Errorf("clear accessories: %w", err)
	}
	return nil
}

// BulkReplaceAccessories clears the table and inserts the given rows.
func (t *Tx) BulkReplaceAccessories(accessories []*models.Accessory) error {
	if err := t.ClearAccessories(); err != nil {
		return err
	}
	for _, a := range accessories {
		if err := insertAccessory(t.tx, a); err != nil {
			return err
		}
	}
	return nil
}

func insertAccessory(q dbtx, a *models.Accessory) error {
	_, err := q.Exec(
		"INSERT INTO accessories (id, name, tags) VALUES (?, ?, ?)",
		a.ID, a.Name, encodeList(a.Tags),
	)
	if err != nil {
		return fmt.Errorf("insert accessory %s: %w", a.ID, err)
	}
	return nil
}

func getAccessory(q dbtx, id string) (*models.Accessory, error) {
	var a models.Accessory
	var tags string
	err := q.QueryRow("SELECT id, name, tags FROM accessories WHERE id = ?", id).
		Scan(&a.ID, &a.Name, &tags)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("accessory %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get accessory %s: %w", id, err)
	}
	a.Tags = decodeList(tags)
	return &a, nil
}

func listAccessories(q dbtx) ([]*models.Accessory, error) {
	rows, err := q.Query("SELECT id, name, tags FROM accessories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	defer rows.Close()

	var accessories []*models.Accessory
	for rows.Next() {
		var a models.Accessory
		var tags string
		if err := rows.Scan(&a.ID, &a.Name, &tags); err != nil {
			return nil, fmt.Errorf("scan accessory: %w", err)
		}
		a.Tags = decodeList(tags)
		accessories = append(accessories, &a)
	}
	return accessories, rows.Err()
}
