package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField_ExactMatchWinsOverCaseInsensitive(t *testing.T) {
	obj := map[string]any{
		"OrderId":  "pascal",
		"order_id": "snake",
	}

	value, ok := Field(obj, "order_id", "OrderId")
	assert.True(t, ok)
	assert.Equal(t, "snake", value)

	// The exact pass covers the whole candidate list before the
	// case-insensitive pass starts.
	value, ok = Field(obj, "ORDER_ID", "OrderId")
	assert.True(t, ok)
	assert.Equal(t, "pascal", value)
}

func TestField_CaseInsensitiveFallback(t *testing.T) {
	obj := map[string]any{"STATUS": "completed"}

	value, ok := Field(obj, "status")
	assert.True(t, ok)
	assert.Equal(t, "completed", value)
}

func TestField_Missing(t *testing.T) {
	_, ok := Field(map[string]any{"a": 1}, "b", "c")
	assert.False(t, ok)

	_, ok = Field(nil, "a")
	assert.False(t, ok)
}
