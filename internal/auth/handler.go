package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quill-blog/quill/internal/platform/httpx"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/users"
)

// LoginObserver receives the outcome of each login attempt.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// Handler wires HTTP endpoints for registration, login and the caller's own
// account.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      rbac.Gate
	validator *httpx.Validator
	observer  LoginObserver
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate rbac.Gate) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		validator: users.NewValidator(),
	}
}

// ObserveLogins reports login outcomes to o.
func (h *Handler) ObserveLogins(o LoginObserver) {
	h.observer = o
}

func (h *Handler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveLogin(outcome)
	}
}

// MountRegister registers the public sign-up route.
func (h *Handler) MountRegister(r chi.Router) {
	r.Post("/", h.register)
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate, h.gate.Authorize(rbac.Members))
		r.Get("/", h.current)
		r.Put("/updateaccount", h.updateAccount)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req users.CreateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Normalize()
	errs := h.validator.Check(req, users.CreateMessages)
	in := req.NewUser()
	if errs == nil && in.Role == rbac.SuperAdmin {
		errs = []httpx.FieldError{{Param: "role", Msg: users.CreateMessages["role"]}}
	}
	if errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	token, err := h.service.Register(r.Context(), in)
	if err != nil {
		users.WriteCreateError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Check(req, loginMessages); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidCredentials):
			h.observe("invalid")
			httpx.Message(w, http.StatusBadRequest, "Invalid credentials")
		case errors.Is(err, shared.ErrTooManyAttempts):
			h.observe("throttled")
			httpx.Message(w, http.StatusTooManyRequests, "Too many login attempts")
		default:
			h.observe("error")
			h.logger.Error("login failed", slog.Any("error", err))
			httpx.RespondError(w, err, "")
		}
		return
	}
	h.observe("success")
	httpx.JSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	caller, _ := users.FromContext(r.Context())
	user, err := h.service.Current(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusUnauthorized, httpx.MsgUnauthenticated)
			return
		}
		h.logger.Error("load current user", slog.Any("error", err))
		httpx.RespondError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req users.ProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Check(req, users.ProfileMessages); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	caller, _ := users.FromContext(r.Context())
	user, err := h.service.UpdateAccount(r.Context(), caller.ID, req.Update())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusUnauthorized, httpx.MsgUnauthenticated)
			return
		}
		users.WriteUpdateError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
