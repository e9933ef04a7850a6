// Package domain contains the core data types for the site ledger back office.
// This package depends only on the standard library and is imported by every
// other internal package (repo, export, service, handler).
package domain

import "fmt"

// Category is one of the record types kept by a site. Each category has its
// own collection, column layout and reference document.
type Category int

const (
	PurchaseSale Category = iota + 1
	CommunityService
	Courier
)

// Categories lists every category in display order.
var Categories = []Category{PurchaseSale, CommunityService, Courier}

// categoryInfo is the static description of a category.
type categoryInfo struct {
	label         string
	slug          string
	refField      string
	refCollection string
	refParam      string
	formFields    []string
}

var categoryTable = map[Category]categoryInfo{
	PurchaseSale: {
		label:         "代购代销",
		slug:          "buy-sell",
		refField:      "商品小类",
		refCollection: "商品小类",
		refParam:      "小类id",
		formFields: []string{
			"类型", "商品名称", "支付方式", "数量", "单价", "合计", "货运单号",
			"姓名", "电话", "邮寄地址", "服务人员", FieldDate, "是否贫困户",
		},
	},
	CommunityService: {
		label:         "便民服务",
		slug:          "service",
		refField:      "服务对象",
		refCollection: "服务对象类型",
		refParam:      "服务对象",
		formFields: []string{
			"序号", "联系电话", "服务内容", "金额（元）", "办理时间", "服务人员", "意见反馈", FieldDate,
		},
	},
	Courier: {
		label:         "快递物流",
		slug:          "express",
		refField:      "快递公司名称",
		refCollection: "快递公司",
		refParam:      "快递公司",
		formFields: []string{
			"类型", "发货时间", "收货地点", "联系电话", "服务人员", "确认签字", FieldDate,
		},
	},
}

// ParseCategory resolves a URL slug (e.g. "buy-sell") to its Category.
func ParseCategory(slug string) (Category, error) {
	for c, info := range categoryTable {
		if info.slug == slug {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, slug)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Label is the human-readable name, also used as the collection name.
func (c Category) Label() string { return categoryTable[c].label }

// Collection is the store collection holding this category's records.
func (c Category) Collection() string { return categoryTable[c].label }

// Slug is the URL path segment for this category.
func (c Category) Slug() string { return categoryTable[c].slug }

// ReferenceField is the record field that embeds the reference document.
func (c Category) ReferenceField() string { return categoryTable[c].refField }

// ReferenceCollection is the collection the reference document is looked up in.
func (c Category) ReferenceCollection() string { return categoryTable[c].refCollection }

// ReferenceParam is the request body key carrying the reference document id.
func (c Category) ReferenceParam() string { return categoryTable[c].refParam }

// FormFields are the plain request body fields copied verbatim onto a record.
func (c Category) FormFields() []string { return categoryTable[c].formFields }

// String implements fmt.Stringer.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return c.Slug()
}
