package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"evidence-tracker/internal/model"
	"evidence-tracker/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError maps the error taxonomy onto HTTP statuses. Every failure in
// the system is locally recoverable; nothing here retries or escalates.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	case errors.Is(err, model.ErrPendingApproval):
		status = http.StatusUnauthorized
		body.Code = "PENDING_APPROVAL"
		body.Message = "Account pending approval"
	case errors.Is(err, model.ErrDuplicateUsername):
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_USERNAME"
		body.Message = "Username already exists"
	case errors.Is(err, model.ErrDuplicateEmail):
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_EMAIL"
		body.Message = "Email already exists"
	case errors.Is(err, model.ErrExpiredToken):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Token expired"
	case errors.Is(err, model.ErrInvalidToken):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Invalid token"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrEvidenceNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Evidence not found"
	case errors.Is(err, model.ErrInvalidStatus):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid status value"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
		body.Details = err.Error()
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
