package reminder

// Report summarizes one reminder run.
type Report struct {
	Checked            int   `json:"checked"`
	Triggered          int   `json:"triggered"`
	Sent               int   `json:"sent"`
	Failed             int   `json:"failed"`
	SkippedAlreadySent int   `json:"skipped_already_sent"`
	Failures           []Key `json:"failures,omitempty"`
}
