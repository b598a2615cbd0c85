package types

// ReportResult is one archived document as returned by list_reports.
type ReportResult struct {
	RunID      string  `json:"run_id"`
	Label      string  `json:"label"`
	Kind       string  `json:"kind"`
	ReportType string  `json:"report_type"`
	Provider   string  `json:"provider"`
	Model      string  `json:"model"`
	Query      string  `json:"query"`
	CreatedAt  string  `json:"created_at"`
	Content    *string `json:"content,omitempty"`
}

// GenerateResult is the payload of generate_commit_report.
type GenerateResult struct {
	RunID      string `json:"run_id"`
	Query      string `json:"query"`
	ReportType string `json:"report_type"`
	DeepDive   bool   `json:"deep_dive"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Commits    int    `json:"commits"`
	Report     string `json:"report,omitempty"`
	Produced   bool   `json:"produced"`
}
