package event

type Type string

const (
	TypeEvidenceCreated       Type = "evidence.created"
	TypeEvidenceStatusChanged Type = "evidence.status_changed"
	TypeUserRegistered        Type = "user.registered"
	TypeUserApproved          Type = "user.approved"
	TypeUserDeleted           Type = "user.deleted"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	// Subscribe returns a receive channel and an unsubscribe function.
	Subscribe() (<-chan Event, func())
}
