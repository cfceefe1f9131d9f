package model

import "time"

// EvidenceStatus is the closed set of states an evidence record moves
// through. Transitions are restricted to supervisor/admin callers.
type EvidenceStatus string

const (
	StatusSubmitted  EvidenceStatus = "submitted"
	StatusProcessing EvidenceStatus = "processing"
	StatusVerified   EvidenceStatus = "verified"
	StatusRejected   EvidenceStatus = "rejected"
)

func ParseEvidenceStatus(raw string) (EvidenceStatus, bool) {
	switch EvidenceStatus(raw) {
	case StatusSubmitted, StatusProcessing, StatusVerified, StatusRejected:
		return EvidenceStatus(raw), true
	}

	return "", false
}

type Evidence struct {
	ID             string         `json:"id"`
	CaseID         string         `json:"case_id"`
	Description    string         `json:"description"`
	FileHash       string         `json:"file_hash"`
	ContentAddress string         `json:"content_address"`
	SubmittedBy    string         `json:"submitted_by"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	Status         EvidenceStatus `json:"status"`
	Tags           []string       `json:"tags"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
