package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/librerose/sitebook/internal/domain"
)

func TestCellValue(t *testing.T) {
	assert.Nil(t, cellValue(nil))
	assert.Equal(t, "a", cellValue("a"))
	assert.Equal(t, 2.5, cellValue(2.5))
	assert.Equal(t, true, cellValue(true))
	assert.Equal(t, "顺丰", cellValue(domain.Document{"名称": "顺丰", "单号": "1"}))
	assert.Equal(t, "顺丰", cellValue(map[string]any{"名称": "顺丰"}))
	assert.Equal(t, `{"单号":"1"}`, cellValue(domain.Document{"单号": "1"}))
	assert.Equal(t, `["a",1]`, cellValue([]any{"a", 1}))
}
