package dto

type ReminderSweepResult struct {
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	DryRun  bool `json:"dry_run,omitempty"`
}
