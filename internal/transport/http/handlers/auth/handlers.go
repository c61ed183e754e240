package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/jackc/pgx/v5/pgconn"

	"skilltrack/internal/domain/auth"
	"skilltrack/internal/platform/requestctx"
	"skilltrack/internal/transport/http/api"
	"skilltrack/internal/transport/http/middleware"
	"skilltrack/internal/transport/http/shared"
)

type Handler struct {
	Service     *auth.Service
	AllowSignup bool
}

func NewHandler(service *auth.Service, allowSignup bool) *Handler {
	return &Handler{Service: service, AllowSignup: allowSignup}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if !h.AllowSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "self signup is disabled", reqID)
		return
	}

	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	validator := shared.NewValidator()
	validator.Required("email", payload.Email, "email is required")
	validator.Required("password", payload.Password, "password is required")
	if payload.Email != "" {
		if _, err := mail.ParseAddress(payload.Email); err != nil {
			validator.Add("email", "must be a valid email address")
		}
	}
	if len(payload.Password) > 0 && len(payload.Password) < 8 {
		validator.Add("password", "must be at least 8 characters")
	}
	if validator.Reject(w, reqID) {
		return
	}

	user, token, err := h.Service.Register(r.Context(), payload.Email, payload.Password, payload.DisplayName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.Fail(w, http.StatusConflict, "email_taken", "email is already registered", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to register", reqID)
		return
	}

	api.Created(w, map[string]any{
		"token": token,
		"user":  userPayload(user),
	}, reqID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	user, token, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	switch {
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", reqID)
		return
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", reqID)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  userPayload(user),
	}, reqID)
}

// HandleLogout is a stateless acknowledgement; tokens expire on their own.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	secret, url, err := h.Service.BeginMFAEnrollment(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to start mfa enrollment", reqID)
		return
	}
	api.Success(w, map[string]string{"secret": secret, "otpauthUrl": url}, reqID)
}

func (h *Handler) HandleMFAActivate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	err := h.Service.ActivateMFA(r.Context(), user.UserID, payload.Code)
	switch {
	case errors.Is(err, auth.ErrMFAInvalid), errors.Is(err, auth.ErrMFANotEnrolled):
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", err.Error(), reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "mfa_activate_failed", "failed to activate mfa", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "mfa_enabled"}, reqID)
}

func userPayload(user auth.User) map[string]any {
	return map[string]any{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"admin":       user.Admin,
	}
}
