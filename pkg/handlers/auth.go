package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionToken = "access_token"
	sessionState = "oauth_state"
)

// LoginPage shows the MELON BASE portal login.
func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "MELON BASE", "Enabled": h.OAuth != nil})
}

// OAuthLogin sends the user to the identity provider.
func (h *Handler) OAuthLogin(c *gin.Context) {
	if h.OAuth == nil {
		h.NotFound(c)
		return
	}

	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(sessionState, state)
	if err := session.Save(); err != nil {
		h.Log.ErrorContext(c.Request.Context(), "failed to save session", slog.Any("err", err))
		c.String(http.StatusInternalServerError, "Session Save Failed")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.OAuth.AuthCodeURL(state))
}

// AuthCallback completes the login.
func (h *Handler) AuthCallback(c *gin.Context) {
	if h.OAuth == nil {
		h.NotFound(c)
		return
	}

	session := sessions.Default(c)
	want, _ := session.Get(sessionState).(string)
	session.Delete(sessionState)
	if want == "" || c.Query("state") != want {
		_ = session.Save()
		c.String(http.StatusBadRequest, "Invalid OAuth State")
		return
	}

	token, err := h.OAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.Log.WarnContext(c.Request.Context(), "oauth exchange failed", slog.Any("err", err))
		_ = session.Save()
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	session.Set(sessionToken, token.AccessToken)
	if err := session.Save(); err != nil {
		h.Log.ErrorContext(c.Request.Context(), "failed to save session", slog.Any("err", err))
		c.String(http.StatusInternalServerError, "Session Save Failed")
		return
	}
	c.Redirect(http.StatusFound, "/base")
}

// Logout forgets the portal login.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionToken)
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// Base is the portal home for logged in clients.
func (h *Handler) Base(c *gin.Context) {
	h.render(c, http.StatusOK, "base.html", gin.H{"Title": "MELON BASE"})
}
