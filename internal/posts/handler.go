package posts

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

// Handler serves the post endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      rbac.Gate
	validator *httpx.Validator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate rbac.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, validator: httpx.NewValidator()}
}

// MountRoutes registers post routes. Reads are open to every role, writes to
// authors and super admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate)
		r.With(h.gate.Authorize(rbac.Members)).Group(func(r chi.Router) {
			r.Get("/", h.listPosts)
			r.Get("/user", h.listOwnPosts)
			r.Get("/user/{id}", h.listUserPosts)
			r.Get("/{id}", h.getPost)
		})
		r.With(h.gate.Authorize(rbac.Publishers)).Group(func(r chi.Router) {
			r.Post("/", h.createPost)
			r.Put("/{id}", h.updatePost)
			r.Delete("/{id}", h.deletePost)
		})
	})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list posts failed", slog.Any("error", err))
		httpx.Message(w, http.StatusBadRequest, "Error loading posts")
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

func (h *Handler) listOwnPosts(w http.ResponseWriter, r *http.Request) {
	caller, _ := users.FromContext(r.Context())
	posts, err := h.service.ListByUser(r.Context(), caller.ID)
	if err != nil {
		h.logger.Error("list own posts failed", slog.Any("error", err))
		httpx.Message(w, http.StatusBadRequest, "Error loading posts")
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

type userPostsResponse struct {
	Count int        `json:"count"`
	Posts []PostView `json:"posts"`
}

func (h *Handler) listUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("list user posts failed", slog.Any("error", err))
		httpx.Message(w, http.StatusBadRequest, "Error loading posts")
		return
	}
	httpx.JSON(w, http.StatusOK, userPostsResponse{Count: len(posts), Posts: posts})
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusBadRequest, "Post not found")
			return
		}
		h.logger.Error("get post failed", slog.Any("error", err))
		httpx.RespondError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Check(req, postMessages); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	caller, _ := users.FromContext(r.Context())
	post, err := h.service.Create(r.Context(), caller, NewPost{Title: req.Title, Body: req.Body})
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			httpx.Message(w, http.StatusBadRequest, "Error adding post")
			return
		}
		h.logger.Error("create post failed", slog.Any("error", err))
		httpx.RespondError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusCreated, post)
}

type postResponse struct {
	Post *Post `json:"post"`
}

type deleteResponse struct {
	Deleted bool  `json:"deleted"`
	Post    *Post `json:"post"`
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Check(req, postMessages); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	caller, _ := users.FromContext(r.Context())
	post, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "id"), PostUpdate{Title: req.Title, Body: req.Body})
	if err != nil {
		h.writeMutationError(w, err, "User is not authorized to update current post", "Error updating post")
		return
	}
	httpx.JSON(w, http.StatusOK, postResponse{Post: post})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	caller, _ := users.FromContext(r.Context())
	post, err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeMutationError(w, err, "User is not authorized to delete current post", "Error deleting post")
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{Deleted: true, Post: post})
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error, denied, invalid string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Message(w, http.StatusBadRequest, "Post not found")
	case errors.Is(err, shared.ErrNotAuthorized):
		httpx.Message(w, http.StatusBadRequest, denied)
	case errors.Is(err, shared.ErrValidation):
		httpx.Message(w, http.StatusBadRequest, invalid)
	case errors.Is(err, shared.ErrUnauthenticated):
		httpx.Message(w, http.StatusUnauthorized, httpx.MsgUnauthenticated)
	default:
		h.logger.Error("post mutation failed", slog.Any("error", err))
		httpx.RespondError(w, err, "")
	}
}
