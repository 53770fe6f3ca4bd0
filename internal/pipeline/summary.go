package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/voleary/stratus/internal/models"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	summaryLabelStyle = lipgloss.NewStyle().Faint(true)
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	severityStyles = map[models.Severity]lipgloss.Style{
		models.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
		models.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		models.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		models.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// RenderSummary formats a run summary for the terminal.
func RenderSummary(rs *RunSummary) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("Aggregated %d finding(s)", rs.TotalFindings)))
	b.WriteString("\n")

	parts := make([]string, 0, 5)
	for _, sev := range models.Severities() {
		count := rs.Statistics.BySeverity[sev]
		parts = append(parts, severityStyles[sev].Render(fmt.Sprintf("%s %d", sev.Display(), count)))
	}
	b.WriteString("  " + strings.Join(parts, "  ") + "\n")

	b.WriteString(fmt.Sprintf("  %s %d new, %d updated, %d stale\n",
		summaryLabelStyle.Render("changes:"), rs.NewFindings, rs.UpdatedFindings, rs.StaleFindings))
	b.WriteString(fmt.Sprintf("  %s %d parsed, %d skipped\n",
		summaryLabelStyle.Render("files:"), rs.FilesParsed, rs.FilesSkipped))

	if rs.RecordsSkipped > 0 {
		b.WriteString("  " + summaryWarnStyle.Render(fmt.Sprintf("%d record(s) skipped", rs.RecordsSkipped)) + "\n")
	}
	if rs.UnknownSeverities > 0 {
		b.WriteString("  " + summaryWarnStyle.Render(fmt.Sprintf("%d unknown severit(ies) mapped to high", rs.UnknownSeverities)) + "\n")
	}

	b.WriteString(fmt.Sprintf("  %s %s\n", summaryLabelStyle.Render("findings:"), rs.Artifacts.FindingsJSON))
	b.WriteString(fmt.Sprintf("  %s %s\n", summaryLabelStyle.Render("summary:"), rs.Artifacts.SummaryJSON))
	b.WriteString(fmt.Sprintf("  %s %s in %s\n",
		summaryLabelStyle.Render("run:"), rs.RunID, rs.Duration.Round(time.Millisecond)))

	return b.String()
}
