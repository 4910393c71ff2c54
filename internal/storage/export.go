// ABOUTME: Export and import of the full dataset.
// ABOUTME: Version-tagged JSON for backup/restore, plus YAML and Markdown views.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/pillars/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion tags the export file format.
const ExportVersion = 1

// ExportData is the full backup document: a format version tag and the
// four table contents.
type ExportData struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Tool       string    `json:"tool" yaml:"tool"`
	Data       TableData `json:"data" yaml:"data"`
}

// TableData holds the contents of all four tables.
type TableData struct {
	Pillars     []*models.Pillar    `json:"pillars" yaml:"pillars"`
	Accessories []*models.Accessory `json:"accessories" yaml:"accessories"`
	Sessions    []*models.Session   `json:"sessions" yaml:"sessions"`
	Config      *models.Config      `json:"config" yaml:"config"`
}

// GetAllData retrieves the full dataset for export or sync push.
func (d *DB) GetAllData() (*ExportData, error) {
	var data TableData
	err := d.snapshotTransaction(func(tx *Tx) error {
		var err error
		if data.Pillars, err = tx.ListPillars(); err != nil {
			return err
		}
		if data.Accessories, err = tx.ListAccessories(); err != nil {
			return err
		}
		if data.Sessions, err = tx.ListSessions(); err != nil {
			return err
		}
		data.Config, err = tx.GetConfig()
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "pillars",
		Data:       data,
	}, nil
}

// RestoreTables replaces the contents of all four tables with the given
// data inside the current transaction. Sessions with list fields coerced
// to absent by a remote store come back as empty lists, and the config
// key is forced back to the fixed value. Pillar statistics are
// re-derived from the restored history.
func (t *Tx) RestoreTables(data *TableData) error {
	if err := t.BulkReplacePillars(data.Pillars); err != nil {
		return err
	}
	if err := t.BulkReplaceAccessories(data.Accessories); err != nil {
		return err
	}
	if err := t.BulkReplaceSessions(data.Sessions); err != nil {
		return err
	}
	if data.Config != nil {
		return t.PutConfig(data.Config)
	}
	return nil
}

// ExportJSON exports the full dataset as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports the full dataset as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON validates and imports a backup document, overwriting all
// four tables inside one transaction. Malformed payloads are rejected
// before any write begins.
func (d *DB) ImportJSON(raw []byte) error {
	// Probe the envelope first: a missing version tag or data object is
	// a structural error, not a zero-valued import.
	var probe struct {
		Version *int             `json:"version"`
		Data    *json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("parse import payload: %w", err)
	}
	if probe.Version == nil {
		return fmt.Errorf("invalid import payload: missing version tag")
	}
	if *probe.Version > ExportVersion || *probe.Version < 1 {
		return fmt.Errorf("unsupported export version: %d", *probe.Version)
	}
	if probe.Data == nil {
		return fmt.Errorf("invalid import payload: missing data object")
	}

	var data TableData
	if err := json.Unmarshal(*probe.Data, &data); err != nil {
		return fmt.Errorf("parse import data: %w", err)
	}

	return d.RunTransaction(func(tx *Tx) error {
		return tx.RestoreTables(&data)
	})
}

// ExportMarkdown renders a training report: pillar standings and recent
// session history.
func (d *DB) ExportMarkdown(limit int) (string, error) {
	data, err := d.GetAllData()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Training Report - %s\n\n", now.Format("2006-01-02")))

	sb.WriteString("## Pillars\n\n")
	sb.WriteString("| Pillar | Category | PR | Last Qualified | Workouts |\n")
	sb.WriteString("|--------|----------|----|----------------|----------|\n")
	for _, p := range data.Data.Pillars {
		if !p.Active {
			continue
		}
		lastQualified := "never"
		if p.LastQualifiedAt != nil {
			lastQualified = p.LastQualifiedAt.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f kg | %s | %d |\n",
			p.Name, p.Category, p.PRWeight, lastQualified, p.TotalWorkouts))
	}

	sessions := data.Data.Sessions
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	if len(sessions) > 0 {
		sb.WriteString("\n## Recent Sessions\n\n")
		sb.WriteString("| Date | Lifts | Notes |\n")
		sb.WriteString("|------|-------|-------|\n")
		for _, s := range sessions {
			var lifts []string
			for _, e := range s.Entries {
				mark := ""
				if e.IsPR {
					mark = " PR"
				}
				lifts = append(lifts, fmt.Sprintf("%s %.1f%s", e.Name, e.Weight, mark))
			}
			notes := ""
			if s.Notes != nil {
				notes = *s.Notes
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				s.Date.Format("2006-01-02"), strings.Join(lifts, ", "), notes))
		}
	}

	return sb.String(), nil
}
