package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/amaumene/episodebot/pkg/logger"
)

func newRouter(token string, buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(logger.NewWithWriter(buf, "info")))
	r.POST("/run", RequireBearer(token), func(c *gin.Context) {
		c.String(http.StatusOK, "ran")
	})
	return r
}

func TestRequireBearer(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusOK},
		{"missing header", "secret-token", "", http.StatusUnauthorized},
		{"wrong scheme", "secret-token", "token secret-token", http.StatusUnauthorized},
		{"wrong token", "secret-token", "Bearer other-token", http.StatusUnauthorized},
		{"valid", "secret-token", "Bearer secret-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := newRouter(tt.token, &buf)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/run", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLogger_WritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter("", &buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/run?dry=1", nil))

	assert.Contains(t, buf.String(), "[HTTP]")
	assert.Contains(t, buf.String(), "POST 200")
	assert.Contains(t, buf.String(), "/run?dry=1")
}
