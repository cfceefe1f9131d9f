package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"evidence-tracker/internal/middleware"
	"evidence-tracker/internal/model"
	"evidence-tracker/internal/service"
	"evidence-tracker/pkg/apierror"
)

type EvidenceHandler struct {
	service       *service.EvidenceService
	maxUploadSize int64
}

func NewEvidenceHandler(service *service.EvidenceService, maxUploadSize int64) *EvidenceHandler {
	return &EvidenceHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *EvidenceHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, h.service.List(identity))
}

func (h *EvidenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	record, err := h.service.Get(identity, chi.URLParam(r, "evidence_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record)
}

// Submit accepts a multipart form with the evidence fields and an optional
// "file" part whose content is hashed.
func (h *EvidenceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if isPayloadTooLarge(err) {
			writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge))
			return
		}
		writeError(w, apierror.New("BAD_REQUEST", "invalid multipart body", "", http.StatusBadRequest))
		return
	}

	sub := service.Submission{
		CaseID:      strings.TrimSpace(r.FormValue("case_id")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Type:        strings.TrimSpace(r.FormValue("type")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Tags:        splitTags(r.FormValue("tags")),
	}

	if file, _, err := r.FormFile("file"); err == nil {
		content, readErr := io.ReadAll(file)
		_ = file.Close()
		if readErr != nil {
			writeError(w, apierror.New("BAD_REQUEST", "could not read uploaded file", "", http.StatusBadRequest))
			return
		}
		sub.Content = content
	}

	record, err := h.service.Submit(identity, sub)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.SubmitEvidenceResponse{
		EvidenceID:     record.ID,
		ContentAddress: record.ContentAddress,
		FileHash:       record.FileHash,
	})
}

func (h *EvidenceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	defer r.Body.Close()

	var payload model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	record, err := h.service.UpdateStatus(identity, chi.URLParam(r, "evidence_id"), payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message":  "Evidence status updated",
		"evidence": record,
	})
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
