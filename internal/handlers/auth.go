package handlers

import (
	"errors"
	"net/http"
	"strings"

	"haber_bosch_console/internal/repository"
	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const operatorIDKey = "operatorId"

// authCredentials is the body of both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	if h.services.Authorization == nil {
		return
	}
	auth := api.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
		// Only a signed-in operator can add another one.
		auth.POST("/sign-up", h.operatorMiddleware(false), h.signUp)
	}
}

// bindJSONOrBadRequest writes a 400 and returns false when the body does not
// bind into dst.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_bad_request_body", err)
		return false
	}
	return true
}

// @Summary      Add an operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var in authCredentials
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), in.Username, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyUsername), errors.Is(err, service.ErrEmptyPassword):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_sign_up_failed", err, "username", in.Username)
		return
	case errors.Is(err, repository.ErrOperatorExists):
		h.logAndJSONError(c, http.StatusConflict, "operator already exists", "auth_sign_up_failed", err, "username", in.Username)
		return
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to add operator", "auth_sign_up_failed", err, "username", in.Username)
		return
	}

	if h.log != nil {
		h.log.Infow("operator_added", "id", id, "username", in.Username, "by", c.GetInt(operatorIDKey))
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary      Sign in and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var in authCredentials
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), in.Username, in.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		h.logAndJSONError(c, http.StatusUnauthorized, "invalid credentials", "auth_sign_in_failed", err, "username", in.Username)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "sign-in failed", "auth_sign_in_failed", err, "username", in.Username)
	}
}

// operatorMiddleware requires a valid operator token. Browsers cannot set
// headers on a WebSocket upgrade, so allowQuery also accepts ?token=.
func (h *Handler) operatorMiddleware(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.services.Authorization == nil {
			h.logAndJSONError(c, http.StatusServiceUnavailable, "operator sign-in is not configured", "auth_unavailable", nil)
			c.Abort()
			return
		}

		token, msg := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQuery {
			if q := c.Query("token"); q != "" {
				token, msg = q, ""
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		id, err := h.services.ParseToken(token)
		if err != nil {
			h.logAndJSONError(c, http.StatusUnauthorized, "invalid or expired token", "auth_token_rejected", err)
			c.Abort()
			return
		}

		c.Set(operatorIDKey, id)
		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.Int("operator_id", id))
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header, or returns a
// message saying what is wrong with it.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing Authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", "invalid Authorization header format"
	}
	return strings.TrimSpace(token), ""
}
