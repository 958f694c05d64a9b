package monitor

import "context"

type Client interface {
	// CheckCredential probes the Instagram access token and alerts the
	// operator when it stops working.
	CheckCredential(ctx context.Context) error
	// ScheduleCredentialChecks runs CheckCredential on the configured cron
	// schedule until ctx is cancelled.
	ScheduleCredentialChecks(ctx context.Context) error
}
