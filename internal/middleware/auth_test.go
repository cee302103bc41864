package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valencire/backend/internal/auth"
)

const testSecret = "test-secret"

func authTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r := authTestRouter(t)
	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	r := authTestRouter(t)
	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusForbidden, w.Code, "header %q", header)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := authTestRouter(t)
	w := doRequest(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	token, err := auth.IssueToken("64b0c1d2e3f4a5b6c7d8e9f0", "alice@example.com", false, testSecret, -time.Second)
	require.NoError(t, err)

	r := authTestRouter(t)
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	token, err := auth.IssueToken("64b0c1d2e3f4a5b6c7d8e9f0", "alice@example.com", false, "another-secret", time.Hour)
	require.NoError(t, err)

	r := authTestRouter(t)
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthAttachesClaims(t *testing.T) {
	token, err := auth.IssueToken("64b0c1d2e3f4a5b6c7d8e9f0", "alice@example.com", false, testSecret, time.Hour)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	var seen *auth.Claims
	r := gin.New()
	r.GET("/protected", RequireAuth(testSecret), func(c *gin.Context) {
		seen = ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "64b0c1d2e3f4a5b6c7d8e9f0", seen.UserID)
	assert.Equal(t, "alice@example.com", seen.Email)
}

func TestClaimsFromWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ClaimsFrom(c))
}
