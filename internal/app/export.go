package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/workflow"
)

// Export renders the full local state as a single JSON backup document
// with the shape {users, orders, settings}.
func (a *App) Export() ([]byte, error) {
	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return data, nil
}

// ExportFileName returns the date-stamped backup file name.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("backup_mantemos_%s.json", now.Format("02_01_2006"))
}

// importDoc distinguishes absent keys from present-but-empty ones: only the
// keys present in the document overwrite the matching store.
type importDoc struct {
	Technicians *[]model.Technician   `json:"users"`
	Orders      *[]model.ServiceOrder `json:"orders"`
	Settings    *model.AppSettings    `json:"settings"`
}

// Import overwrites stores from a backup document.
//
// Each top-level key present in the document replaces the corresponding
// store wholesale; no merging, and no validation beyond a successful parse.
// A document that fails to
// parse leaves every store untouched and reports an IMPORT_PARSE_FAILURE.
func (a *App) Import(data []byte) error {
	var doc importDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return workflow.NewImportParseError(err)
	}

	if doc.Technicians != nil {
		a.Identity.ReplaceAll(*doc.Technicians)
	}
	if doc.Orders != nil {
		a.Ledger.ReplaceAll(*doc.Orders)
	}
	if doc.Settings != nil {
		a.Settings.Replace(*doc.Settings)
	}

	a.logger.Info("backup imported",
		"technicians", a.Identity.Len(), "orders", a.Ledger.Len())
	return nil
}
