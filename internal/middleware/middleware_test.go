package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agenda/internal/apperr"
	"agenda/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

func protectedRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		id, _ := UserID(c)
		ctxID, _ := UserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id, "ctx_id": ctxID})
	})
	return r
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	valid, err := jwtUtil.GenerateToken(42, "Ana")
	require.NoError(t, err)
	expired, err := utils.NewJWTUtil("secret", -1).GenerateToken(42, "Ana")
	require.NoError(t, err)
	foreign, err := utils.NewJWTUtil("other", 1).GenerateToken(42, "Ana")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, apperr.MsgTokenMissing},
		{"no scheme", valid, http.StatusUnauthorized, apperr.MsgTokenMalformed},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, apperr.MsgTokenMalformed},
		{"empty token", "Bearer ", http.StatusUnauthorized, apperr.MsgTokenMalformed},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, apperr.MsgTokenInvalid},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, apperr.MsgTokenInvalid},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, apperr.MsgTokenInvalid},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}

	r := protectedRouter(jwtUtil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, message(t, w))
			}
		})
	}
}

func TestJWTAuthMiddleware_SetsUser(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	token, _ := jwtUtil.GenerateToken(42, "Ana")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(jwtUtil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"ctx_id":42}`, w.Body.String())
}

func TestJWTAuthMiddleware_AttachesOnlyUserID(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	token, _ := jwtUtil.GenerateToken(42, "Ana")

	r := gin.New()
	r.GET("/keys", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		c.JSON(http.StatusOK, c.Keys)
	})
	req := httptest.NewRequest(http.MethodGet, "/keys", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authUser":42}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperr.MsgInternal, message(t, w))
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
