package taskshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"skilltrack/internal/domain/tasks"
	"skilltrack/internal/platform/requestctx"
	"skilltrack/internal/transport/http/api"
	"skilltrack/internal/transport/http/middleware"
	"skilltrack/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
}

func NewHandler(service *tasks.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{taskID}", h.handleGet)
		r.Put("/{taskID}", h.handleUpdate)
		r.Delete("/{taskID}", h.handleDelete)
	})
}

type taskRequest struct {
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	TaskDate              string         `json:"taskDate"`
	ExternalLink          string         `json:"externalLink"`
	Priority              string         `json:"priority"`
	DeliveredOnTime       bool           `json:"deliveredOnTime"`
	ManagerFoundIssues    bool           `json:"managerFoundIssues"`
	ManagerNotes          string         `json:"managerNotes"`
	ManagerHelpedAnalysis bool           `json:"managerHelpedAnalysis"`
	Ratings               map[string]int `json:"ratings"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	list, err := h.Service.List(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_list_failed", "failed to list tasks", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	input, ok := h.decodeInput(w, r, reqID)
	if !ok {
		return
	}

	task, err := h.Service.Create(r.Context(), user.UserID, input)
	if err != nil {
		h.failWrite(w, err, "task_create_failed", "failed to create task", reqID)
		return
	}
	api.Created(w, task, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	task, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "taskID"))
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "task not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "task_get_failed", "failed to load task", reqID)
		return
	}
	api.Success(w, task, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	input, ok := h.decodeInput(w, r, reqID)
	if !ok {
		return
	}

	task, err := h.Service.Update(r.Context(), user.UserID, chi.URLParam(r, "taskID"), input)
	if err != nil {
		h.failWrite(w, err, "task_update_failed", "failed to update task", reqID)
		return
	}
	api.Success(w, task, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	if err := h.Service.Delete(r.Context(), user.UserID, chi.URLParam(r, "taskID")); err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "task not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "task_delete_failed", "failed to delete task", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request, reqID string) (tasks.Input, bool) {
	var payload taskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return tasks.Input{}, false
	}

	validator := shared.NewValidator()
	validator.Required("title", payload.Title, "title is required")
	validator.Required("taskDate", payload.TaskDate, "taskDate is required")
	validator.Enum("priority", payload.Priority, tasks.Priorities, "must be one of high, medium, low")

	var taskDate time.Time
	if payload.TaskDate != "" {
		if parsed, ok := validator.Date("taskDate", payload.TaskDate); ok {
			taskDate = parsed
		}
	}
	if len(payload.Ratings) == 0 {
		validator.Add("ratings", "ratings map is required")
	}
	if validator.Reject(w, reqID) {
		return tasks.Input{}, false
	}

	return tasks.Input{
		Title:                 payload.Title,
		Description:           payload.Description,
		TaskDate:              taskDate,
		ExternalLink:          payload.ExternalLink,
		Priority:              strings.ToLower(strings.TrimSpace(payload.Priority)),
		DeliveredOnTime:       payload.DeliveredOnTime,
		ManagerFoundIssues:    payload.ManagerFoundIssues,
		ManagerNotes:          payload.ManagerNotes,
		ManagerHelpedAnalysis: payload.ManagerHelpedAnalysis,
		Ratings:               payload.Ratings,
	}, true
}

// failWrite maps domain errors on the write path; storage failures always
// propagate so the caller can retry.
func (h *Handler) failWrite(w http.ResponseWriter, err error, code, message, reqID string) {
	var verr *tasks.ValidationError
	if errors.As(err, &verr) {
		issues := make([]shared.ValidationIssue, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			issues = append(issues, shared.ValidationIssue{Field: "ratings", Reason: issue})
		}
		shared.FailValidation(w, reqID, issues)
		return
	}
	if errors.Is(err, tasks.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", reqID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, code, message, reqID)
}
