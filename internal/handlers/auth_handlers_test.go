package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/valencire/backend/internal/auth"
	"github.com/valencire/backend/internal/middleware"
)

type stubSender struct{}

func (stubSender) Send(to, subject, htmlBody string) error { return nil }

// withClaims stands in for RequireAuth in handler tests.
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
	}
}

func performJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t testing.TB, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

const signupBody = `{"firstName":"Alice","lastName":"Smith","email":"alice@example.com","password":"password123"}`

func TestSignupDuplicateEmailNeverIssuesToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.POST("/api/auth/signup", Signup(mt.Client.Database("valencire"), stubSender{}, "test-secret", 24*time.Hour))

		w := performJSON(r, "POST", "/api/auth/signup", signupBody)
		assert.Equal(mt, http.StatusBadRequest, w.Code)

		resp := decodeBody(mt, w)
		assert.Equal(mt, false, resp["success"])
		assert.Equal(mt, "Email already registered", resp["message"])
		_, hasToken := resp["token"]
		assert.False(mt, hasToken, "conflicting signup must not issue a token")
	})
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("signup", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.POST("/api/auth/signup", Signup(mt.Client.Database("valencire"), stubSender{}, "test-secret", 24*time.Hour))

		w := performJSON(r, "POST", "/api/auth/signup", signupBody)
		require.Equal(mt, http.StatusOK, w.Code)

		resp := decodeBody(mt, w)
		assert.Equal(mt, true, resp["success"])

		token, _ := resp["token"].(string)
		require.NotEmpty(mt, token)
		claims, err := auth.ParseToken(token, "test-secret")
		require.NoError(mt, err)
		assert.Equal(mt, "alice@example.com", claims.Email)
		assert.False(mt, claims.IsAdmin)
	})
}

func TestSignupShortPassword(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("short password", func(mt *mtest.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.POST("/api/auth/signup", Signup(mt.Client.Database("valencire"), stubSender{}, "test-secret", 24*time.Hour))

		body := `{"firstName":"Alice","lastName":"Smith","email":"alice@example.com","password":"short"}`
		w := performJSON(r, "POST", "/api/auth/signup", body)
		assert.Equal(mt, http.StatusBadRequest, w.Code)

		resp := decodeBody(mt, w)
		assert.Equal(mt, "Password must be at least 6 characters", resp["message"])
	})
}
