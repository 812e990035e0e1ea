package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/secretgate/internal/httputil"
)

func paginationContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/v1/secrets?"+rawQuery, nil)
	require.NoError(t, err)
	c.Request = req
	return c
}

func TestParsePagination_Accepts(t *testing.T) {
	tests := []struct {
		query  string
		offset int
		limit  int
	}{
		{"", 0, httputil.DefaultPageLimit},
		{"offset=&limit=", 0, httputil.DefaultPageLimit},
		{"offset=10&limit=20", 10, 20},
		{"limit=100", 0, httputil.MaxPageLimit},
		{"limit=1", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			offset, limit, err := httputil.ParsePagination(paginationContext(t, tt.query))

			require.NoError(t, err)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestParsePagination_Rejects(t *testing.T) {
	tests := []struct {
		query  string
		fields []string
	}{
		{"offset=-1", []string{"offset"}},
		{"offset=abc", []string{"offset"}},
		{"limit=0", []string{"limit"}},
		{"limit=101", []string{"limit"}},
		{"limit=xyz", []string{"limit"}},
		{"offset=-5&limit=500", []string{"offset", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			offset, limit, err := httputil.ParsePagination(paginationContext(t, tt.query))

			require.Error(t, err)
			assert.Zero(t, offset)
			assert.Zero(t, limit)
			for _, field := range tt.fields {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}
