package export

import "github.com/librerose/sitebook/internal/domain"

// derivedField copies one sub-field of a reference document up to a
// top-level record key.
type derivedField struct {
	target string
	source string
}

var projections = map[domain.Category][]derivedField{
	domain.PurchaseSale: {
		{target: "商品小类名称", source: domain.FieldName},
		{target: "代买编码", source: "代买编码"},
		{target: "代卖编码", source: "代卖编码"},
	},
	domain.CommunityService: {
		{target: "是否贫困户", source: domain.FieldName},
		{target: "贫困户", source: "贫困户"},
		{target: "非贫户", source: "非贫户"},
	},
	domain.Courier: {
		{target: "快递公司名称", source: domain.FieldName},
		{target: "单号", source: "单号"},
	},
}

// Project flattens the category's embedded reference document into top-level
// keys of doc, in place. A record whose reference is absent, null, or not a
// document is left unchanged.
func Project(c domain.Category, doc domain.Document) {
	ref, ok := doc.Sub(c.ReferenceField())
	if !ok {
		return
	}
	for _, f := range projections[c] {
		doc[f.target] = ref[f.source]
	}
}
