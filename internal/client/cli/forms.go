package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/immiconsole/internal/client/form"
	"github.com/dmitrijs2005/immiconsole/internal/client/intake"
	"github.com/dmitrijs2005/immiconsole/internal/client/submission"
)

// Upload runs the document-status workflow: which user, which status, which
// visa type, which PDF. Values from a failed attempt are offered again.
func (a *App) Upload(ctx context.Context) error {
	if a.docCtrl.Outcome().State == submission.Success {
		if err := a.docCtrl.Reset(); err != nil {
			return err
		}
	}
	f := a.docForm

	var err error
	if f.Email, err = GetWithDefault(a.reader, "User email", f.Email, a.out); err != nil {
		return err
	}

	printlnFn("Statuses: " + numberedStatuses())
	raw, err := GetWithDefault(a.reader, "Status (number or label)", f.Status, a.out)
	if err != nil {
		return err
	}
	f.Status = resolveStatus(raw)

	if f.VisaType, err = GetWithDefault(a.reader, "Visa type", f.VisaType, a.out); err != nil {
		return err
	}

	if err := a.pickPDF(f.Intake); err != nil {
		return err
	}

	a.submit(ctx, a.docCtrl)
	return nil
}

// Visa runs the visa-details workflow. After a success the form stays locked
// until reset, showing the confirmation instead.
func (a *App) Visa(ctx context.Context) error {
	f := a.visaForm
	if f.Submitted {
		printlnFn(fmt.Sprintf("Visa details submitted for %s. Type 'reset' to submit another form.", f.Email))
		return nil
	}

	var err error
	if f.Email, err = GetWithDefault(a.reader, "User email", f.Email, a.out); err != nil {
		return err
	}

	for _, spec := range form.VisaFields {
		prompt := fmt.Sprintf("%s (e.g. %s)", spec.Label, spec.Example)
		v, err := GetWithDefault(a.reader, prompt, f.Field(spec.Key), a.out)
		if err != nil {
			return err
		}
		if err := f.SetField(spec.Key, v); err != nil {
			return err
		}
	}

	if err := a.editConditions(f); err != nil {
		return err
	}
	if err := a.pickPDF(f.Intake); err != nil {
		return err
	}

	a.submit(ctx, a.visaCtrl)
	return nil
}

// Reset starts both forms afresh.
func (a *App) Reset(ctx context.Context) error {
	if err := a.docCtrl.Reset(); err != nil {
		return err
	}
	if err := a.visaCtrl.Reset(); err != nil {
		return err
	}
	printlnFn("Forms cleared.")
	return nil
}

// editConditions is a small sub-REPL over the condition list. Rows are
// numbered from 1.
func (a *App) editConditions(f *form.VisaForm) error {
	for {
		printConditions(f.Conditions())
		cmd, err := GetSimpleText(a.reader, "Conditions: add | remove <n> | edit <n> | done", a.out)
		if err != nil {
			return err
		}
		parts := strings.Fields(cmd)
		if len(parts) == 0 || parts[0] == "done" {
			return nil
		}

		switch parts[0] {
		case "add":
			f.AddCondition()
			if err := a.editCondition(f, len(f.Conditions())-1); err != nil {
				return err
			}
		case "remove", "edit":
			idx, ok := conditionIndex(parts, len(f.Conditions()))
			if !ok {
				printlnFn("No such condition.")
				continue
			}
			if parts[0] == "edit" {
				if err := a.editCondition(f, idx); err != nil {
					return err
				}
				continue
			}
			if !f.RemoveCondition(idx) {
				printlnFn("At least one condition row must remain.")
			}
		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}

func (a *App) editCondition(f *form.VisaForm, idx int) error {
	cur := f.Conditions()[idx]
	values := map[form.ConditionField]string{
		form.ConditionCode:        cur.Code,
		form.ConditionDescription: cur.Description,
		form.ConditionDetails:     cur.Details,
		form.ConditionReference:   cur.Reference,
	}
	for _, key := range form.ConditionFields {
		v, err := GetWithDefault(a.reader, fmt.Sprintf("Condition %d %s", idx+1, key), values[key], a.out)
		if err != nil {
			return err
		}
		if err := f.SetConditionField(idx, key, v); err != nil {
			return err
		}
	}
	return nil
}

func conditionIndex(parts []string, n int) (int, bool) {
	if len(parts) < 2 {
		return 0, false
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func printConditions(conds []form.ConditionRecord) {
	for i, c := range conds {
		printlnFn(fmt.Sprintf("  %d. %s | %s | %s | %s", i+1, c.Code, c.Description, c.Details, c.Reference))
	}
}

// pickPDF asks for file paths. Several paths count as one drop: only the first
// is considered. An empty answer keeps the current file; "-" removes it.
func (a *App) pickPDF(in *intake.Intake) error {
	prompt := "PDF path(s)"
	if cur, ok := in.Selected(); ok {
		prompt = fmt.Sprintf("PDF path(s) [%s, %d bytes; '-' to remove]", cur.Name, cur.SizeBytes)
	}
	paths, err := GetLines(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	switch {
	case len(paths) == 0:
	case paths[0] == "-":
		in.Remove()
	default:
		in.OnDragEnter()
		in.OnDrop(intake.FromPaths(paths...))
	}
	return nil
}

func (a *App) submit(ctx context.Context, ctrl *submission.Controller) {
	a.lostNotified = false
	printlnFn("Submitting...")
	a.report(ctrl.Submit(ctx))
}

// report prints the outcome of a submit.
func (a *App) report(o submission.Outcome, err error) {
	switch {
	case errors.Is(err, submission.ErrInFlight):
		printlnFn("A submission is already in progress.")
		return
	case errors.Is(err, submission.ErrMustReset):
		printlnFn("Already submitted. Type 'reset' to start a new submission.")
		return
	}

	if o.State == submission.SessionExpired && a.lostNotified {
		a.lostNotified = false
		return
	}
	printlnFn(o.Message)
}

func numberedStatuses() string {
	parts := make([]string, 0, len(form.StatusLabels))
	for i, s := range form.StatusLabels {
		parts = append(parts, fmt.Sprintf("%d) %s", i+1, s))
	}
	return strings.Join(parts, ", ")
}

// resolveStatus maps a list number to its label. Anything else is returned
// unchanged and validated at submit time.
func resolveStatus(s string) string {
	if i, err := strconv.Atoi(s); err == nil && i >= 1 && i <= len(form.StatusLabels) {
		return form.StatusLabels[i-1]
	}
	return s
}
