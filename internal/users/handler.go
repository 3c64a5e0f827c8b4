package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quill-blog/quill/internal/platform/httpx"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
)

// Handler manages the admin user endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      rbac.Gate
	validator *httpx.Validator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, validator: NewValidator()}
}

// MountRoutes registers admin routes. Every route requires super_admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate, h.gate.Authorize(rbac.AdminOnly))
		r.Get("/", h.listUsers)
		r.Post("/create-user", h.createUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.Message(w, http.StatusBadRequest, "Users could not be found")
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Normalize()
	if errs := h.validator.Check(req, CreateMessages); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	if _, err := h.service.Create(r.Context(), req.NewUser()); err != nil {
		WriteCreateError(w, h.logger, err)
		return
	}
	httpx.Message(w, http.StatusOK, "user created")
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Check(req, ProfileMessages); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), req.Update())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusBadRequest, "User is not found")
			return
		}
		WriteUpdateError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type deleteResponse struct {
	Deleted bool  `json:"deleted"`
	User    *User `json:"user"`
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusBadRequest, "User is not found")
			return
		}
		h.logger.Error("delete user failed", slog.Any("error", err))
		httpx.RespondError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{Deleted: true, User: user})
}

// WriteCreateError answers a failed account creation.
func WriteCreateError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		httpx.Message(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, ErrUsernameTaken):
		httpx.Message(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, shared.ErrConflict):
		httpx.Message(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, shared.ErrValidation):
		httpx.Message(w, http.StatusBadRequest, "Invalid user details")
	default:
		logger.Error("create user failed", slog.Any("error", err))
		httpx.RespondError(w, err, "")
	}
}

// WriteUpdateError answers a failed profile update.
func WriteUpdateError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, shared.ErrConflict) || errors.Is(err, shared.ErrValidation) {
		httpx.Message(w, http.StatusBadRequest, "Failed to update user details")
		return
	}
	logger.Error("update user failed", slog.Any("error", err))
	httpx.RespondError(w, err, "")
}
