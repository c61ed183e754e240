package analyticshandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"skilltrack/internal/domain/analytics"
	"skilltrack/internal/platform/requestctx"
	"skilltrack/internal/transport/http/api"
	"skilltrack/internal/transport/http/middleware"
	"skilltrack/internal/transport/http/shared"
)

type Handler struct {
	Service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/trends/weekly", h.handleWeeklyTrends)
		r.Get("/trends/monthly", h.handleMonthlyTrends)
		r.Get("/skills", h.handleSkillAverages)
		r.Get("/summary", h.handleSummary)
		r.Get("/summary/export.pdf", h.handleSummaryPDF)
	})
}

func (h *Handler) handleWeeklyTrends(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	trends, err := h.Service.WeeklyTrends(r.Context(), user.UserID, intQuery(r, "weeks"))
	if err != nil {
		// Reporting reads degrade to an empty series instead of breaking
		// the whole dashboard.
		slog.Warn("weekly trends failed", "userId", user.UserID, "err", err)
		api.Success(w, []analytics.SkillTrend{}, reqID)
		return
	}
	api.Success(w, trends, reqID)
}

func (h *Handler) handleMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	trends, err := h.Service.MonthlyTrends(r.Context(), user.UserID, intQuery(r, "months"))
	if err != nil {
		slog.Warn("monthly trends failed", "userId", user.UserID, "err", err)
		api.Success(w, []analytics.SkillTrend{}, reqID)
		return
	}
	api.Success(w, trends, reqID)
}

func (h *Handler) handleSkillAverages(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	breakdown, err := h.Service.SkillAverages(r.Context(), user.UserID)
	if err != nil {
		slog.Warn("skill averages failed", "userId", user.UserID, "err", err)
		api.Success(w, analytics.SkillBreakdown{}, reqID)
		return
	}
	api.Success(w, breakdown, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	from, to, ok := dateRange(w, r, reqID)
	if !ok {
		return
	}

	summary, err := h.Service.Summary(r.Context(), user.UserID, from, to)
	if err != nil {
		slog.Warn("summary failed", "userId", user.UserID, "err", err)
		api.Success(w, analytics.Summary{}, reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	from, to, ok := dateRange(w, r, reqID)
	if !ok {
		return
	}

	doc, err := h.Service.SummaryPDF(r.Context(), user.UserID, user.Email, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_export_failed", "failed to export summary", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="performance-summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func dateRange(w http.ResponseWriter, r *http.Request, reqID string) (from, to *time.Time, ok bool) {
	validator := shared.NewValidator()
	var start, end time.Time

	if raw := r.URL.Query().Get("start"); raw != "" {
		if parsed, valid := validator.Date("start", raw); valid {
			start = parsed
			from = &start
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if parsed, valid := validator.Date("end", raw); valid {
			end = parsed
			to = &end
		}
	}
	validator.DateOrder("start", start, "end", end)
	if validator.Reject(w, reqID) {
		return nil, nil, false
	}
	return from, to, true
}

func intQuery(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
