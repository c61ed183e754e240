package skillshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skilltrack/internal/domain/skills"
	"skilltrack/internal/platform/requestctx"
	"skilltrack/internal/transport/http/api"
	"skilltrack/internal/transport/http/middleware"
)

type Handler struct {
	Store    *skills.Store
	Snapshot *skills.Snapshot
}

func NewHandler(store *skills.Store, snapshot *skills.Snapshot) *Handler {
	return &Handler{Store: store, Snapshot: snapshot}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/{skillID}/deactivate", h.handleDeactivate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	list, err := h.Store.List(r.Context(), includeInactive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "skill_list_failed", "failed to list skills", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if !user.Admin {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin role required", reqID)
		return
	}

	skillID := chi.URLParam(r, "skillID")
	if err := h.Store.Deactivate(r.Context(), skillID); err != nil {
		if errors.Is(err, skills.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "skill not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "skill_deactivate_failed", "failed to deactivate skill", reqID)
		return
	}

	// New task validation must see the shrunken active set right away.
	h.Snapshot.Invalidate()
	api.Success(w, map[string]string{"status": "deactivated"}, reqID)
}
