package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents one recorded canaryctl invocation.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
	APIVersion string    `json:"api_version,omitempty"`
	TargetType string    `json:"target_type,omitempty"`
	TargetID   string    `json:"target_id,omitempty"`
	Metric     string    `json:"metric,omitempty"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// NewEntry builds an entry for a finished invocation that started at start.
func NewEntry(command string, args []string, meta Metadata, start time.Time, err error) *AuditEntry {
	entry := &AuditEntry{
		Timestamp:  start.UTC(),
		Command:    command,
		Args:       JoinArgs(SanitizeArgs(args)),
		Endpoint:   meta.Endpoint,
		APIVersion: meta.APIVersion,
		TargetType: meta.TargetType,
		TargetID:   meta.TargetID,
		Metric:     meta.Metric,
		Outcome:    OutcomeSuccess,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = err.Error()
	}
	return entry
}

// Record writes a best-effort audit entry. Failures to open the repository
// or save the entry are discarded so auditing never fails a command.
func Record(entry *AuditEntry) {
	repo, err := Open()
	if err != nil {
		return
	}
	defer repo.Close()
	_ = repo.Save(entry)
}
