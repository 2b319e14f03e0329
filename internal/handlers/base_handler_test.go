package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(t *testing.T, query string) (int, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return ParsePagination(c)
}

func TestParsePagination(t *testing.T) {
	page, limit := paginationFor(t, "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = paginationFor(t, "page=3&limit=25")
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	// The limit is clamped so one request cannot dump the whole table.
	_, limit = paginationFor(t, "limit=100000")
	assert.Equal(t, 100, limit)

	page, limit = paginationFor(t, "page=-1&limit=0")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = paginationFor(t, "page=abc&limit=xyz")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}
