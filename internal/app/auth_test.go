package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(jwtSecret string, staticTokens []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(jwtSecret, staticTokens))
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_StaticToken(t *testing.T) {
	r := authRouter("", []string{"tok-1", "tok-2"})

	assert.Equal(t, http.StatusOK, doAuth(r, "Bearer tok-2").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Basic tok-1").Code)
}

func TestAuthMiddleware_JWT(t *testing.T) {
	secret := "test-secret"
	r := authRouter(secret, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doAuth(r, "Bearer "+signed).Code)

	badSigned, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Bearer "+badSigned).Code)
}

func TestUserIDFromState(t *testing.T) {
	assert.Equal(t, "abc", userIDFromState("user_abc_1736467200"))
	assert.Equal(t, "a_b_c", userIDFromState("user_a_b_c_1736467200"))
	assert.Equal(t, "", userIDFromState("nope"))
	assert.Equal(t, "", userIDFromState("user_"))
	assert.Equal(t, "", userIDFromState("user_x"))
}
