package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/filex"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Submissions"

var exportHeader = []any{"ID", "Workflow", "Email", "State", "Message", "Created at"}

// History prints the latest journal entries, newest first. limit 0 means all.
func (a *App) History(ctx context.Context, limit int) error {
	recs, err := a.journal.Latest(ctx, limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printlnFn("No submissions yet.")
		return nil
	}
	for _, r := range recs {
		printlnFn(fmt.Sprintf("%s  %-15s  %-17s  %-25s  %s",
			r.CreatedAt.Local().Format(time.DateTime), r.Workflow, r.State, r.Email, r.Message))
	}
	return nil
}

// Export writes the whole journal to an .xlsx workbook at path.
func (a *App) Export(ctx context.Context, path string) error {
	recs, err := a.journal.Latest(ctx, 0)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.ID, string(r.Workflow), r.Email, r.State, r.Message, r.CreatedAt.UTC().Format(time.RFC3339)}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	printlnFn(fmt.Sprintf("Exported %d submissions to %s.", len(recs), path))
	return nil
}
