package middleware

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

const testSecret = "secret"

func sign(t *testing.T, method jwt.SigningMethod, claims LedgerClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, "ledger-core"))
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user": userID, "level": GetMaxSecurityLevel(c), "tenants": GetTenantsFromContext(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid := LedgerClaims{
		MaxSecurityLevel: 4,
		Tenants:          []string{"t1"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "ledger-core",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + sign(t, jwt.SigningMethodHS256, valid), http.StatusOK, `{"user":"alice","level":4,"tenants":["t1"]}`},
		{"missing header", "", http.StatusUnauthorized, `{"error":"Authorization header required"}`},
		{"not bearer", "Basic abc", http.StatusUnauthorized, `{"error":"Authorization header format must be Bearer {token}"}`},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, expired), http.StatusUnauthorized, `{"error":"Token has expired"}`},
		{"wrong algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, valid), http.StatusUnauthorized, `{"error":"Invalid token"}`},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, noSubject), http.StatusUnauthorized, `{"error":"Invalid token claims"}`},
	}
	r := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, GetLoggerFromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
