package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"evidence-tracker/internal/event"
	"evidence-tracker/internal/model"
)

// assignedCaseID stands in for a real case-assignment lookup: non-privileged
// callers see their own submissions plus this case.
const assignedCaseID = "CASE1001"

// EvidenceService holds the chain-of-custody records. Access decisions come
// from the caller's verified identity; the service never touches the user
// directory.
type EvidenceService struct {
	bus event.Bus

	mu      sync.RWMutex
	records []model.Evidence
}

func NewEvidenceService(bus event.Bus) *EvidenceService {
	return &EvidenceService{bus: bus}
}

// canView applies the visibility rule: admins and supervisors see everything,
// everyone else sees their own submissions and their assigned case.
func canView(identity *model.Identity, record model.Evidence) bool {
	if identity.Role.In(model.RoleAdmin, model.RoleSupervisor) {
		return true
	}

	return record.SubmittedBy == identity.UserID || record.CaseID == assignedCaseID
}

// List returns the records visible to the caller, in submission order.
func (s *EvidenceService) List(identity *model.Identity) []model.Evidence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Evidence, 0, len(s.records))
	for _, record := range s.records {
		if canView(identity, record) {
			out = append(out, record)
		}
	}

	return out
}

// Get returns one record, or ErrForbidden when it exists outside the
// caller's visibility.
func (s *EvidenceService) Get(identity *model.Identity, evidenceID string) (model.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.ID == evidenceID {
			if !canView(identity, record) {
				return model.Evidence{}, model.ErrForbidden
			}
			return record, nil
		}
	}

	return model.Evidence{}, model.ErrEvidenceNotFound
}

// Submission carries the fields of a new evidence record. Content is the raw
// uploaded file and may be empty for physical-only evidence.
type Submission struct {
	CaseID      string
	Description string
	Name        string
	Type        string
	Location    string
	Tags        []string
	Content     []byte
}

// Submit creates a new record in submitted state. The file hash is the
// SHA-256 of the uploaded content; the content address is a generated mock
// in place of the retired distributed-storage integration.
func (s *EvidenceService) Submit(identity *model.Identity, sub Submission) (model.Evidence, error) {
	if strings.TrimSpace(sub.CaseID) == "" {
		return model.Evidence{}, fmt.Errorf("%w: case_id is required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(sub.Description) == "" {
		return model.Evidence{}, fmt.Errorf("%w: description is required", model.ErrInvalidInput)
	}

	now := time.Now().UTC()

	fileHash := fmt.Sprintf("hash_%d", now.UnixMilli())
	if len(sub.Content) > 0 {
		fileHash = sha256Hex(sub.Content)
	}

	address, err := newContentAddress()
	if err != nil {
		return model.Evidence{}, fmt.Errorf("generate content address: %w", err)
	}

	record := model.Evidence{
		ID:             fmt.Sprintf("EV%d", now.UnixMilli()),
		CaseID:         sub.CaseID,
		Description:    sub.Description,
		FileHash:       fileHash,
		ContentAddress: address,
		SubmittedBy:    identity.UserID,
		SubmittedAt:    now,
		Status:         model.StatusSubmitted,
		Tags:           sub.Tags,
		Metadata: map[string]any{
			"name":     sub.Name,
			"type":     sub.Type,
			"location": sub.Location,
		},
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()

	s.publish(event.TypeEvidenceCreated, map[string]any{
		"evidence_id":  record.ID,
		"submitted_by": identity.DisplayName(),
	}, identity.UserID)

	return record, nil
}

// UpdateStatus moves a record to a new status. The role restriction is
// enforced by the route; invalid statuses and unknown ids fail here.
func (s *EvidenceService) UpdateStatus(identity *model.Identity, evidenceID string, rawStatus string) (model.Evidence, error) {
	status, ok := model.ParseEvidenceStatus(rawStatus)
	if !ok {
		return model.Evidence{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, rawStatus)
	}

	s.mu.Lock()
	var updated *model.Evidence
	for i := range s.records {
		if s.records[i].ID == evidenceID {
			s.records[i].Status = status
			record := s.records[i]
			updated = &record
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		return model.Evidence{}, model.ErrEvidenceNotFound
	}

	s.publish(event.TypeEvidenceStatusChanged, map[string]any{
		"evidence_id": evidenceID,
		"status":      string(status),
		"updated_by":  identity.DisplayName(),
	}, identity.UserID)

	return *updated, nil
}

// Count reports the store size.
func (s *EvidenceService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *EvidenceService) publish(eventType event.Type, payload any, actorID string) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actorID,
	})
}

func newContentAddress() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return "Qm" + hex.EncodeToString(raw), nil
}
