package handlers

import (
	"errors"

	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/ws"
	"credmatrix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades authenticated clients onto the notification hub.
// Browsers cannot set headers on the upgrade request, so the access token
// travels in the "token" query parameter.
type WSHandler struct {
	hub      *ws.Hub
	tokens   middleware.TokenParser
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens middleware.TokenParser, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:      hub,
		tokens:   tokens,
		upgrader: ws.Upgrader(allowedOrigins),
	}
}

func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing token"))
		return
	}

	claims, err := h.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Token expired"))
			return
		}
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	// The upgrader writes its own error reply.
	if err := ws.Serve(h.hub, &h.upgrader, c.Writer, c.Request, claims.UserID); err != nil {
		logger.CtxWarn(c.Request.Context(), "websocket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}
	logger.CtxDebug(c.Request.Context(), "websocket connected", "user_id", claims.UserID)
}
