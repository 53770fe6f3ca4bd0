package remediation

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/voleary/stratus/internal/models"
)

// Filter narrows a remediation plan. Empty fields match everything.
type Filter struct {
	CheckID  string
	Resource string
	Severity models.Severity
}

func (f Filter) matches(finding *models.Finding) bool {
	if f.CheckID != "" && finding.CheckID != f.CheckID {
		return false
	}
	if f.Resource != "" && finding.Resource != f.Resource {
		return false
	}
	if f.Severity != "" && finding.Severity != f.Severity {
		return false
	}
	return true
}

// PlanItem is one action in a remediation plan. Commands are already
// rendered against the finding's resource.
type PlanItem struct {
	CheckID  string
	Resource string
	Severity models.Severity
	Guidance []models.RemediationEntry
}

// Plan builds a dry-run remediation plan from a finding set: one item per
// unique (check_id, resource) pair that has guidance and passes the
// filter. Stale and non-actionable findings are excluded. Items are
// ordered most severe first.
func (r *Resolver) Plan(findings []models.Finding, filter Filter) []PlanItem {
	seen := make(map[string]bool)
	var items []PlanItem

	for i := range findings {
		f := &findings[i]
		if f.Stale || !f.Status.Actionable() || !filter.matches(f) {
			continue
		}

		key := f.CheckID + "\x00" + f.Resource
		if seen[key] {
			continue
		}
		seen[key] = true

		guidance := r.Lookup(f.Provider, f.CheckID)
		if len(guidance) == 0 {
			continue
		}
		for j := range guidance {
			if guidance[j].Command != "" {
				guidance[j].Command = RenderCommand(guidance[j].Command, f)
			}
		}

		items = append(items, PlanItem{
			CheckID:  f.CheckID,
			Resource: f.Resource,
			Severity: f.Severity,
			Guidance: guidance,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Severity.Rank() != items[j].Severity.Rank() {
			return items[i].Severity.Rank() < items[j].Severity.Rank()
		}
		if items[i].CheckID != items[j].CheckID {
			return items[i].CheckID < items[j].CheckID
		}
		return items[i].Resource < items[j].Resource
	})

	return items
}

// WritePlan renders a plan as text. Nothing is executed; the output is
// meant for review before an operator applies it.
func WritePlan(w io.Writer, items []PlanItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No remediable findings.")
		return err
	}

	if _, err := fmt.Fprintf(w, "Remediation plan: %d action(s), nothing will be executed\n", len(items)); err != nil {
		return err
	}

	for _, item := range items {
		if _, err := fmt.Fprintf(w, "\n[%s] %s on %s\n", item.Severity.Display(), item.CheckID, item.Resource); err != nil {
			return err
		}
		for _, g := range item.Guidance {
			if err := writeGuidance(w, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeGuidance(w io.Writer, g models.RemediationEntry) error {
	switch g.Format {
	case FormatCLI:
		_, err := fmt.Fprintf(w, "  $ %s\n", g.Command)
		return err
	case FormatTerraform:
		if _, err := fmt.Fprintf(w, "  terraform: %s\n", g.Summary); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n", indent(g.Snippet, "    "))
		return err
	case FormatConsole:
		if _, err := fmt.Fprintf(w, "  manual: %s\n", g.Summary); err != nil {
			return err
		}
		for i, step := range g.Steps {
			if _, err := fmt.Fprintf(w, "    %d. %s\n", i+1, step); err != nil {
				return err
			}
		}
		return nil
	case FormatDoc:
		_, err := fmt.Fprintf(w, "  docs: %s\n", g.URL)
		return err
	default:
		_, err := fmt.Fprintf(w, "  %s: %s\n", g.Format, g.Summary)
		return err
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
