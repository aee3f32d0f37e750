package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dpereira/go-product-api/app/observability/metrics"
	"github.com/dpereira/go-product-api/internal/api"
	"github.com/dpereira/go-product-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register User
// @Description  Creates a new user account. Username and email must be unique.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201 {object} types.User "Created User"
// @Failure      400 {object} map[string]interface{} "Username or Email Taken"
// @Failure      422 {object} map[string]interface{} "Validation Error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))
	start := time.Now()
	defer func() {
		m := metrics.Get()
		m.RegisterRequestsTotal.Add(ctx, 1)
		m.RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUsernameTaken):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username already exists.")
		case errors.Is(err, types.ErrEmailTaken):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Email already exists.")
		default:
			l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary      Login For Access Token
// @Description  Authenticates a username/password pair and returns a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200 {object} TokenResponse "Access Token"
// @Failure      401 {object} map[string]interface{} "Incorrect username or password"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))
	defer metrics.Get().LoginRequestsTotal.Add(ctx, 1)

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			// Unknown username and wrong password share one message.
			w.Header().Set("WWW-Authenticate", "Bearer")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		l.ErrorContext(ctx, "Authentication failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	accessToken, err := h.authService.IssueToken(user.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}
