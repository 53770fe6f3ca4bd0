package models

// RemediationEntry is one piece of remediation guidance in a specific
// format. A finding may carry several entries, one per format.
type RemediationEntry struct {
	Format  string   `json:"format"`
	Summary string   `json:"summary"`
	Command string   `json:"command,omitempty"`
	Snippet string   `json:"snippet,omitempty"`
	Steps   []string `json:"steps,omitempty"`
	URL     string   `json:"url,omitempty"`
}
