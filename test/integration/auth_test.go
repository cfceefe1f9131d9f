//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"evidence-tracker/internal/model"
)

func TestLogin(t *testing.T) {
	server := newServer(t)

	t.Run("succeeds with seeded credentials", func(t *testing.T) {
		token, user := login(t, server, "admin", "admin123")
		require.NotEmpty(t, token)
		require.Equal(t, model.RoleAdmin, user.Role)
		require.Equal(t, "admin@evidencetrack.org", user.Email)
	})

	t.Run("rejects wrong password with 401", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
		resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
	})

	t.Run("rejects pending account with a distinct code", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"username": "rwilson", "password": "password123"})
		resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "PENDING_APPROVAL", errorCode(t, resp))
	})

	t.Run("rejects missing fields with 400", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"username": "admin"})
		resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProtectedRoutes(t *testing.T) {
	server := newServer(t)

	t.Run("missing token yields 401", func(t *testing.T) {
		resp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/evidence", nil, ""))
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token yields 403", func(t *testing.T) {
		resp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/evidence", nil, "garbage"))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("me returns the token snapshot", func(t *testing.T) {
		token, _ := login(t, server, "jsmith", "password123")
		resp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/auth/me", nil, token))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var identity model.Identity
		decodeData(t, resp, &identity)
		require.Equal(t, "jsmith", identity.Username)
		require.Equal(t, model.RoleOfficer, identity.Role)
	})
}

func TestRegistrationAndApprovalFlow(t *testing.T) {
	server := newServer(t)
	adminToken, _ := login(t, server, "admin", "admin123")

	registration := map[string]string{
		"username":   "pjones",
		"password":   "password123",
		"first_name": "Patricia",
		"last_name":  "Jones",
		"email":      "pjones@police.gov",
		"department": "Digital Forensics",
		"role":       "detective",
	}
	payload, err := json.Marshal(registration)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered model.RegisterResponse
	decodeData(t, resp, &registered)
	require.False(t, registered.User.Approved)
	require.Equal(t, model.RoleDetective, registered.User.Role)

	// Duplicate username is rejected with 400.
	dupResp, err := http.Post(server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer dupResp.Body.Close()
	require.Equal(t, http.StatusBadRequest, dupResp.StatusCode)
	require.Equal(t, "DUPLICATE_USERNAME", errorCode(t, dupResp))

	// Login is blocked until approval.
	loginPayload, _ := json.Marshal(map[string]string{"username": "pjones", "password": "password123"})
	blockedResp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginPayload))
	require.NoError(t, err)
	defer blockedResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, blockedResp.StatusCode)

	// The admin sees the new account in the pending list.
	pendingResp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/auth/users/pending", nil, adminToken))
	require.Equal(t, http.StatusOK, pendingResp.StatusCode)

	var pendingList struct {
		Users []model.UserInfo `json:"users"`
	}
	decodeData(t, pendingResp, &pendingList)
	usernames := make([]string, 0, len(pendingList.Users))
	for _, user := range pendingList.Users {
		usernames = append(usernames, user.Username)
	}
	require.Contains(t, usernames, "pjones")

	// Approve, then login succeeds with the new role embedded.
	approveResp := doRequest(t, newAuthRequest(t, http.MethodPut, server.URL+"/api/v1/auth/users/"+registered.User.ID+"/approve", nil, adminToken))
	require.Equal(t, http.StatusOK, approveResp.StatusCode)

	_, user := login(t, server, "pjones", "password123")
	require.Equal(t, model.RoleDetective, user.Role)
	require.True(t, user.Approved)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	server := newServer(t)
	officerToken, _ := login(t, server, "jsmith", "password123")

	resp := doRequest(t, newAuthRequest(t, http.MethodGet, server.URL+"/api/v1/auth/users", nil, officerToken))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, newAuthRequest(t, http.MethodDelete, server.URL+"/api/v1/auth/users/pending1", nil, officerToken))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserDeletion(t *testing.T) {
	server := newServer(t)
	adminToken, _ := login(t, server, "admin", "admin123")

	resp := doRequest(t, newAuthRequest(t, http.MethodDelete, server.URL+"/api/v1/auth/users/pending1", nil, adminToken))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting again is a 404; the first removal was final.
	resp = doRequest(t, newAuthRequest(t, http.MethodDelete, server.URL+"/api/v1/auth/users/pending1", nil, adminToken))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown approve target is also a 404.
	resp = doRequest(t, newAuthRequest(t, http.MethodPut, server.URL+"/api/v1/auth/users/missing/approve", nil, adminToken))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
