// ABOUTME: Full-state push/pull of the pillars store to Charm Cloud.
// ABOUTME: One backup document per account, replaced wholesale on push.
package charm

import (
	"fmt"

	"github.com/harperreed/pillars/internal/storage"
)

const backupKeyPrefix = "backup:"

// Push serializes all four tables into a single backup document and
// replaces the account's remote copy wholesale. Last write wins across
// devices.
func (c *Client) Push(repo storage.Repository) error {
	userID, err := c.UserID()
	if err != nil {
		return fmt.Errorf("resolve account: %w", err)
	}

	data, err := repo.ExportJSON()
	if err != nil {
		return fmt.Errorf("serialize backup: %w", err)
	}

	if err := c.set(backupKeyPrefix+userID, data); err != nil {
		return fmt.Errorf("push backup: %w", err)
	}
	// Deliberately no local bookkeeping write here: Push is also the
	// change-listener target, and a write from inside it would schedule
	// another notification forever.
	return nil
}

// Pull fetches the account's backup document and replaces the local
// tables with it inside one transaction. List fields the remote store
// coerced to absent come back as empty lists, and the config row's key
// is forced back regardless of what the remote copy carried.
func (c *Client) Pull(repo storage.Repository) error {
	userID, err := c.UserID()
	if err != nil {
		return fmt.Errorf("resolve account: %w", err)
	}

	data, err := c.get(backupKeyPrefix + userID)
	if err != nil {
		return fmt.Errorf("fetch backup: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no backup found for this account")
	}

	if err := repo.ImportJSON(data); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}
