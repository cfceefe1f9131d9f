package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"evidence-tracker/internal/model"
)

// Demo fixtures for running the service without any external state. User IDs
// are stable so the seeded evidence records can reference their submitters.

type seedUser struct {
	id         string
	username   string
	password   string
	firstName  string
	lastName   string
	email      string
	department string
	role       model.Role
	approved   bool
}

var demoUsers = []seedUser{
	{"admin1", "admin", "admin123", "System", "Administrator", "admin@evidencetrack.org", "IT", model.RoleAdmin, true},
	{"officer1", "jsmith", "password123", "John", "Smith", "jsmith@police.gov", "Evidence Collection", model.RoleOfficer, true},
	{"supervisor1", "mjohnson", "password123", "Maria", "Johnson", "mjohnson@police.gov", "Evidence Management", model.RoleSupervisor, true},
	{"detective1", "dcooper", "password123", "David", "Cooper", "dcooper@police.gov", "Investigations", model.RoleDetective, true},
	{"officer2", "agarcia", "password123", "Ana", "Garcia", "agarcia@police.gov", "Evidence Collection", model.RoleOfficer, true},
	{"pending1", "rwilson", "password123", "Robert", "Wilson", "rwilson@police.gov", "Digital Forensics", model.RoleDetective, false},
}

// SeedDemoUsers populates the directory with the demo accounts. Passwords
// are hashed here rather than stored as fixture constants.
func (s *AuthService) SeedDemoUsers() error {
	now := time.Now().UTC()

	records := make([]model.User, 0, len(demoUsers))
	for _, seed := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", seed.username, err)
		}

		records = append(records, model.User{
			ID:           seed.id,
			Username:     seed.username,
			PasswordHash: string(hash),
			FirstName:    seed.firstName,
			LastName:     seed.lastName,
			Email:        seed.email,
			Department:   seed.department,
			Role:         seed.role,
			Approved:     seed.approved,
			CreatedAt:    now,
		})
	}

	s.mu.Lock()
	s.users = append(s.users, records...)
	s.mu.Unlock()

	return nil
}

// SeedDemoEvidence populates the store with the demo chain-of-custody
// records.
func (s *EvidenceService) SeedDemoEvidence() {
	records := []model.Evidence{
		{
			ID:             "EV001",
			CaseID:         "CASE1001",
			Description:    "Surveillance camera footage from Main St",
			FileHash:       sha256Hex([]byte("EV001")),
			ContentAddress: "QmT78zSuBmuS4z925WZfrqQ1qHaJ56DQaTfyMUF7F8ff5o",
			SubmittedBy:    "officer1",
			SubmittedAt:    mustParseTime("2025-04-18T10:00:00Z"),
			Status:         model.StatusVerified,
			Tags:           []string{"video", "surveillance"},
			Metadata:       map[string]any{"format": "mp4", "duration": "00:32:15", "location": "Main St & 5th Ave"},
		},
		{
			ID:             "EV002",
			CaseID:         "CASE1001",
			Description:    "Fingerprint from door handle",
			FileHash:       sha256Hex([]byte("EV002")),
			ContentAddress: "QmXs5YtpYsLCYkioRFgRRYQTQ1E4Zpfpbj2GRLo4qJ8L9d",
			SubmittedBy:    "officer2",
			SubmittedAt:    mustParseTime("2025-04-18T11:30:00Z"),
			Status:         model.StatusProcessing,
			Tags:           []string{"fingerprint", "physical"},
			Metadata:       map[string]any{"type": "latent", "surface": "metal", "quality": "high"},
		},
		{
			ID:             "EV003",
			CaseID:         "CASE1002",
			Description:    "DNA sample from crime scene",
			FileHash:       sha256Hex([]byte("EV003")),
			ContentAddress: "QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn",
			SubmittedBy:    "officer1",
			SubmittedAt:    mustParseTime("2025-04-19T09:15:00Z"),
			Status:         model.StatusSubmitted,
			Tags:           []string{"dna", "biological"},
			Metadata:       map[string]any{"type": "blood", "container": "vial", "location": "bathroom"},
		},
		{
			ID:             "EV004",
			CaseID:         "CASE1002",
			Description:    "Witness statement - John Doe",
			FileHash:       sha256Hex([]byte("EV004")),
			ContentAddress: "QmQtYfNXWK2sGGcN1fdsgrtH5XYs1FAM9wUWNqjP5ux4FQ",
			SubmittedBy:    "officer2",
			SubmittedAt:    mustParseTime("2025-04-19T14:30:00Z"),
			Status:         model.StatusVerified,
			Tags:           []string{"statement", "document"},
			Metadata:       map[string]any{"format": "pdf", "witness": "John Doe", "pages": 3},
		},
		{
			ID:             "EV005",
			CaseID:         "CASE1003",
			Description:    "Ballistics report - recovered bullet",
			FileHash:       sha256Hex([]byte("EV005")),
			ContentAddress: "QmT1TbZtFqjvbFidLUrD9hPgMZVjRhQP3yWFG7AzBkHEBE",
			SubmittedBy:    "officer1",
			SubmittedAt:    mustParseTime("2025-04-20T11:00:00Z"),
			Status:         model.StatusProcessing,
			Tags:           []string{"ballistics", "report"},
			Metadata:       map[string]any{"caliber": "9mm", "firearm_type": "handgun", "report_id": "BAL-2025-042"},
		},
	}

	s.mu.Lock()
	s.records = append(s.records, records...)
	s.mu.Unlock()
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func mustParseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}
