package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librerose/sitebook/internal/domain"
)

func TestParseCategory(t *testing.T) {
	for _, tc := range []struct {
		slug string
		want domain.Category
	}{
		{"buy-sell", domain.PurchaseSale},
		{"service", domain.CommunityService},
		{"express", domain.Courier},
	} {
		got, err := domain.ParseCategory(tc.slug)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.slug, got.Slug())
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	_, err := domain.ParseCategory("trips")

	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestCategory_Table(t *testing.T) {
	assert.Equal(t, "代购代销", domain.PurchaseSale.Label())
	assert.Equal(t, "商品小类", domain.PurchaseSale.ReferenceField())
	assert.Equal(t, "小类id", domain.PurchaseSale.ReferenceParam())

	assert.Equal(t, "便民服务", domain.CommunityService.Collection())
	assert.Equal(t, "服务对象", domain.CommunityService.ReferenceField())
	assert.Equal(t, "服务对象类型", domain.CommunityService.ReferenceCollection())

	assert.Equal(t, "快递物流", domain.Courier.Label())
	assert.Equal(t, "快递公司名称", domain.Courier.ReferenceField())
	assert.Equal(t, "快递公司", domain.Courier.ReferenceCollection())

	for _, c := range domain.Categories {
		assert.Contains(t, c.FormFields(), domain.FieldDate, "%s must carry the date field", c)
	}
}

func TestCategory_Invalid(t *testing.T) {
	var c domain.Category

	assert.False(t, c.Valid())
	assert.Equal(t, "Category(0)", c.String())
}

func TestDocument_Sub(t *testing.T) {
	doc := domain.Document{
		"nested": map[string]any{"名称": "A"},
		"typed":  domain.Document{"名称": "B"},
		"null":   nil,
		"text":   "x",
	}

	sub, ok := doc.Sub("nested")
	require.True(t, ok)
	assert.Equal(t, "A", sub.String("名称"))

	sub, ok = doc.Sub("typed")
	require.True(t, ok)
	assert.Equal(t, "B", sub.String("名称"))

	for _, key := range []string{"null", "text", "missing"} {
		_, ok := doc.Sub(key)
		assert.False(t, ok, key)
	}
}
