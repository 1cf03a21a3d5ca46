// Package api exposes the page service over HTTP: three POST endpoints with
// a uniform JSON response contract, gated by optional bearer/session auth.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/binweave/pageapi/pkg/pageapi"
	"github.com/binweave/pageapi/pkg/pageapi/auth"
	"github.com/binweave/pageapi/pkg/pageapi/pathsafe"
)

// Config carries the dispatcher-level switches.
type Config struct {
	RequireAuth      bool // gate all endpoints behind the authenticator
	AllowImageUpload bool // master switch for the upload endpoint
}

// Handler routes the three page operations to the service.
type Handler struct {
	service       pageapi.Service
	authenticator *auth.Authenticator
	config        Config
}

// NewHandler creates a new page API handler.
func NewHandler(service pageapi.Service, authenticator *auth.Authenticator, config Config) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
		config:        config,
	}
}

// Routes returns the router for the page endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	if h.config.RequireAuth {
		r.Use(h.requireAuth)
	}
	r.Post("/create-article", h.CreateArticle)
	r.Post("/update-article", h.UpdateArticle)
	r.Post("/upload-image", h.UploadImage)
	return r
}

// requireAuth rejects requests that carry neither a valid bearer token nor
// an authenticated host session.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h.authenticator.Authenticate(
			r.Header.Get("Authorization"),
			auth.SessionFromContext(r.Context()),
		)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateArticle handles POST /create-article
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req pageapi.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		writeBadRequest(w, r, err)
		return
	}

	article, err := h.service.CreateArticle(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create article", "folder", req.Folder, "filename", req.Filename, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Article created", "folder", article.Folder, "filename", article.Filename)
	render.JSON(w, r, map[string]any{"success": true, "message": "Article created"})
}

// UpdateArticle handles POST /update-article
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req pageapi.UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		writeBadRequest(w, r, err)
		return
	}

	article, err := h.service.UpdateArticle(r.Context(), req)
	if err != nil {
		slog.Error("Failed to update article", "folder", req.Folder, "filename", req.Filename, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Article updated", "folder", article.Folder, "filename", article.Filename)
	render.JSON(w, r, map[string]any{"success": true, "message": "Article updated"})
}

// UploadImage handles POST /upload-image
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !h.config.AllowImageUpload {
		writeError(w, r, pageapi.ErrUploadDisabled)
		return
	}

	var req pageapi.UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		writeBadRequest(w, r, err)
		return
	}

	image, err := h.service.UploadImage(r.Context(), req)
	if err != nil {
		slog.Error("Failed to upload image", "folder", req.Folder, "filename", req.Filename, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Image uploaded",
		"folder", image.Folder, "filename", image.Filename,
		"mime_type", image.MimeType, "size_bytes", image.Size)
	render.JSON(w, r, map[string]any{"success": true, "url": image.URL})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, pageapi.ErrUploadDisabled):
		return http.StatusForbidden
	case errors.Is(err, pageapi.ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, pageapi.ErrArticleExists),
		errors.Is(err, pageapi.ErrImageExists):
		return http.StatusConflict
	case errors.Is(err, pageapi.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pageapi.ErrUnsupportedImageType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, pageapi.ErrMissingFolderOrTitle),
		errors.Is(err, pageapi.ErrMissingFolder),
		errors.Is(err, pageapi.ErrNoUpdateFields),
		errors.Is(err, pageapi.ErrMissingUploadParams),
		errors.Is(err, pageapi.ErrInvalidImageFormat),
		errors.Is(err, pageapi.ErrImageDecode),
		errors.Is(err, pageapi.ErrFolderCreationDisabled),
		errors.Is(err, pathsafe.ErrUnsafe):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders the single JSON error body for a failed request.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Storage faults carry path details; keep those out of responses.
		msg = "storage operation failed"
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
