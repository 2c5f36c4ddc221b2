package api

import (
	"errors"
	"net/http"

	reqdto "loot-ledger/internal/handler/dto/request"
	resdto "loot-ledger/internal/handler/dto/response"
	"loot-ledger/internal/handler/middleware"
	"loot-ledger/internal/pkg/config"
	"loot-ledger/internal/pkg/cookie"
	"loot-ledger/internal/pkg/jwt"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth      commands.AuthCommands
	members   queries.MemberQueries
	tokens    *jwt.Service
	cookieCfg config.CookieConfig
}

func NewAuthHandler(auth commands.AuthCommands, members queries.MemberQueries, tokens *jwt.Service, cookieCfg config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		members:   members,
		tokens:    tokens,
		cookieCfg: cookieCfg,
	}
}

// @Summary Member login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	cookie.SetTokenCookies(c, h.cookieCfg,
		result.AccessToken, result.RefreshToken,
		h.tokens.AccessTokenDuration(), h.tokens.RefreshTokenDuration(),
	)

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		Member:      result.Member,
	})
}

// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} resdto.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := cookie.GetRefreshToken(c)
	if token == "" {
		var req reqdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Refresh token required",
			})
			return
		}
		token = req.RefreshToken
	}

	result, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired refresh token",
		})
		return
	}

	cookie.SetTokenCookies(c, h.cookieCfg,
		result.AccessToken, result.RefreshToken,
		h.tokens.AccessTokenDuration(), h.tokens.RefreshTokenDuration(),
	)

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		Member:      result.Member,
	})
}

// @Summary Member logout
// @Description Clear auth cookies
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookies(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

// @Summary Get current member
// @Description Get the authenticated member's profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.MemberView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Member not authenticated",
		})
		return
	}

	view, err := h.members.CurrentMember(c.Request.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Member not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
