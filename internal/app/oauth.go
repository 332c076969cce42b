package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GET /api/calendar/auth?user_id=...
// Returns the Google consent URL for linking a user's calendar.
func (a *App) GoogleAuthHandler(c *gin.Context) {
	if a.OAuth == nil || a.OAuth.ClientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	state := fmt.Sprintf("user_%s_%d", userID, time.Now().Unix())
	url := a.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"auth_url": url, "state": state})
}

// GET /oauth2callback
// Exchanges the authorization code and stores the token for the user named
// in the state parameter.
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	if a.OAuth == nil || a.OAuth.ClientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	userID := userIDFromState(state)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	token, err := a.OAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}
	if err := a.Repo.SaveCalendarToken(c.Request.Context(), userID, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Log.Info("calendar linked", zap.String("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"message": "authorization successful"})
}

// userIDFromState recovers the user id from a "user_<id>_<unix>" state
// string. The id itself may contain underscores.
func userIDFromState(state string) string {
	if !strings.HasPrefix(state, "user_") {
		return ""
	}
	rest := strings.TrimPrefix(state, "user_")
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return ""
	}
	return rest[:i]
}
