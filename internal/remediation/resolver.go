// Package remediation attaches multi-format fix guidance to findings and
// renders dry-run remediation plans.
package remediation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
	"github.com/voleary/stratus/pkg/pathutil"
)

// Guidance formats.
const (
	FormatCLI       = "cli"
	FormatTerraform = "terraform"
	FormatConsole   = "console"
	FormatDoc       = "doc"
)

// Resolver maps provider/check_id pairs to remediation guidance. The table
// is built once at startup and read-only afterwards.
type Resolver struct {
	table  map[string][]models.RemediationEntry
	logger logger.Logger
}

// NewResolver builds a resolver from the built-in table merged with any
// extra YAML table files. An extra table entry for a known check replaces
// the built-in guidance.
func NewResolver(log logger.Logger, tablePaths ...string) (*Resolver, error) {
	r := &Resolver{table: builtinTable(), logger: log}

	for _, path := range tablePaths {
		if err := r.loadTable(path); err != nil {
			return nil, fmt.Errorf("loading remediation table %s: %w", path, err)
		}
	}

	log.Debug("Remediation resolver ready", "checks", len(r.table), "extra_tables", len(tablePaths))
	return r, nil
}

func tableKey(provider models.Provider, checkID string) string {
	return string(provider) + "/" + checkID
}

// Lookup returns the guidance for a check, or nil when none is known.
// Callers own the returned slice.
func (r *Resolver) Lookup(provider models.Provider, checkID string) []models.RemediationEntry {
	entries, ok := r.table[tableKey(provider, checkID)]
	if !ok {
		return nil
	}
	out := make([]models.RemediationEntry, len(entries))
	copy(out, entries)
	return out
}

// Attach sets remediation guidance on every finding that has a table
// entry. Identity fields are never touched; findings without guidance are
// left as they are.
func (r *Resolver) Attach(findings []models.Finding) {
	attached := 0
	for i := range findings {
		if entries := r.Lookup(findings[i].Provider, findings[i].CheckID); entries != nil {
			findings[i].Remediation = entries
			attached++
		}
	}
	r.logger.Debug("Attached remediation guidance", "findings", len(findings), "with_guidance", attached)
}

// tableFile is the YAML schema for operator-supplied remediation tables.
type tableFile struct {
	Entries []tableEntry `yaml:"entries"`
}

type tableEntry struct {
	Provider string          `yaml:"provider"`
	CheckID  string          `yaml:"check_id"`
	Guidance []guidanceEntry `yaml:"guidance"`
}

type guidanceEntry struct {
	Format  string   `yaml:"format"`
	Summary string   `yaml:"summary"`
	Command string   `yaml:"command"`
	Snippet string   `yaml:"snippet"`
	Steps   []string `yaml:"steps"`
	URL     string   `yaml:"url"`
}

func (r *Resolver) loadTable(path string) error {
	cleaned, err := pathutil.ValidateConfigPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cleaned) //nolint:gosec // path validated above
	if err != nil {
		return err
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	for i, entry := range file.Entries {
		if entry.Provider == "" || entry.CheckID == "" {
			return fmt.Errorf("entry %d: provider and check_id are required", i)
		}
		if len(entry.Guidance) == 0 {
			return fmt.Errorf("entry %d (%s/%s): guidance is empty", i, entry.Provider, entry.CheckID)
		}

		entries := make([]models.RemediationEntry, 0, len(entry.Guidance))
		for j, g := range entry.Guidance {
			if !validFormat(g.Format) {
				return fmt.Errorf("entry %d guidance %d: unknown format %q", i, j, g.Format)
			}
			entries = append(entries, models.RemediationEntry{
				Format:  g.Format,
				Summary: g.Summary,
				Command: g.Command,
				Snippet: g.Snippet,
				Steps:   g.Steps,
				URL:     g.URL,
			})
		}
		r.table[tableKey(models.Provider(entry.Provider), entry.CheckID)] = entries
	}

	return nil
}

func validFormat(format string) bool {
	switch format {
	case FormatCLI, FormatTerraform, FormatConsole, FormatDoc:
		return true
	}
	return false
}

// RenderCommand fills resource placeholders in a guidance command with the
// finding's concrete values.
func RenderCommand(command string, f *models.Finding) string {
	replacer := strings.NewReplacer(
		"{resource}", f.Resource,
		"{account_id}", f.AccountID,
		"{region}", f.Region,
	)
	return replacer.Replace(command)
}
