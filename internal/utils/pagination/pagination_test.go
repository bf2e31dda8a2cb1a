package pagination

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestResponse(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10, Total: 25}
	resp := Response(p, []string{"a", "b"})

	meta := resp["meta"].(fiber.Map)
	assert.Equal(t, 2, meta["current_page"])
	assert.Equal(t, 10, meta["per_page"])
	assert.EqualValues(t, 25, meta["total_items"])
	assert.EqualValues(t, 3, meta["total_pages"])
}

func TestResponseExactPages(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10, Total: 20}
	resp := Response(p, nil)

	meta := resp["meta"].(fiber.Map)
	assert.EqualValues(t, 2, meta["total_pages"])
}
