package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"evidence-tracker/internal/event"
	"evidence-tracker/internal/model"
)

const bcryptCost = 12

// AuthService owns the user directory and is the single point of truth for
// who a caller is and what they may do. The directory is a slice so that
// listings preserve insertion order; the mutex guards every read-modify-write
// so the uniqueness invariants hold under concurrent requests.
type AuthService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	bus       event.Bus

	mu    sync.RWMutex
	users []model.User
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, bus event.Bus) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		bus:       bus,
	}, nil
}

// Authenticate verifies a username/password pair against the directory.
// The username match is case-sensitive and exact. The approval check runs
// after the credential check, so a correct password on an unapproved account
// surfaces ErrPendingApproval rather than ErrInvalidCredentials.
func (s *AuthService) Authenticate(username string, password string) (model.User, error) {
	s.mu.RLock()
	user, exists := s.findByUsernameLocked(username)
	s.mu.RUnlock()

	if !exists {
		return model.User{}, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	if !user.Approved {
		return model.User{}, model.ErrPendingApproval
	}

	return user, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// IssueToken signs a snapshot of the user record into a bearer token that
// expires tokenTTL after issuance. Later changes to the record do not affect
// tokens already issued; only re-authentication picks them up.
func (s *AuthService) IssueToken(user model.User) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Username:  user.Username,
		Role:      string(user.Role),
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks signature and expiry and returns the identity embedded
// at issuance time. It never consults the directory.
func (s *AuthService) VerifyToken(tokenString string) (*model.Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrExpiredToken
		}
		return nil, model.ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, model.ErrInvalidToken
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	return &model.Identity{
		UserID:    claims.Subject,
		Username:  claims.Username,
		Role:      role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}

// Authorize reports whether the identity's role is in the allowed set.
func (s *AuthService) Authorize(identity *model.Identity, allowed ...model.Role) bool {
	return identity != nil && identity.Role.In(allowed...)
}

// Register creates a new unapproved record. Role defaults to officer when
// omitted. Username and email must be unique across the directory.
func (s *AuthService) Register(req model.RegisterRequest) (model.UserInfo, error) {
	for field, value := range map[string]string{
		"username":   req.Username,
		"password":   req.Password,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"department": req.Department,
	} {
		if strings.TrimSpace(value) == "" {
			return model.UserInfo{}, fmt.Errorf("%w: %s is required", model.ErrInvalidInput, field)
		}
	}

	role := model.RoleOfficer
	if req.Role != "" {
		parsed, ok := model.ParseRole(req.Role)
		if !ok {
			return model.UserInfo{}, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, req.Role)
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.UserInfo{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == req.Username {
			return model.UserInfo{}, model.ErrDuplicateUsername
		}
		if existing.Email == req.Email {
			return model.UserInfo{}, model.ErrDuplicateEmail
		}
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Department:   req.Department,
		Role:         role,
		Approved:     false,
		CreatedAt:    time.Now().UTC(),
	}
	s.users = append(s.users, user)

	info := user.Info()
	s.publish(event.TypeUserRegistered, info, user.ID)

	return info, nil
}

// ListUsers returns all records in insertion order, credential material
// stripped.
func (s *AuthService) ListUsers() []model.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserInfo, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user.Info())
	}

	return out
}

// ListPendingUsers returns the records still waiting on admin approval.
func (s *AuthService) ListPendingUsers() []model.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserInfo, 0)
	for _, user := range s.users {
		if !user.Approved {
			out = append(out, user.Info())
		}
	}

	return out
}

// Approve flips the approval flag. Re-approving an already-approved record
// succeeds without side effects.
func (s *AuthService) Approve(userID string) (model.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].Approved = true
			info := s.users[i].Info()
			s.publish(event.TypeUserApproved, info, userID)
			return info, nil
		}
	}

	return model.UserInfo{}, model.ErrUserNotFound
}

// Delete removes the record entirely. There is no soft delete.
func (s *AuthService) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == userID {
			s.users = append(s.users[:i], s.users[i+1:]...)
			s.publish(event.TypeUserDeleted, map[string]string{"user_id": userID}, userID)
			return nil
		}
	}

	return model.ErrUserNotFound
}

// Count reports the directory size.
func (s *AuthService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

func (s *AuthService) findByUsernameLocked(username string) (model.User, bool) {
	for _, user := range s.users {
		if user.Username == username {
			return user, true
		}
	}

	return model.User{}, false
}

func (s *AuthService) publish(eventType event.Type, payload any, actorID string) {
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
