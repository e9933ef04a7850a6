package export

import "github.com/librerose/sitebook/internal/domain"

// ColumnSpec describes one sheet column: the header label written on row 3,
// the record key whose value fills the column, and the column width.
type ColumnSpec struct {
	Header string
	Key    string
	Width  float64
}

// columnsByCategory is the fixed sheet layout of each category.
// Order is significant: it is the column order on every date sheet.
var columnsByCategory = map[domain.Category][]ColumnSpec{
	domain.PurchaseSale: {
		{Header: "_id", Key: "_id", Width: 24},
		{Header: "站点id", Key: "站点id", Width: 24},
		{Header: "站点编号", Key: "站点编号", Width: 8},
		{Header: "类型", Key: "类型", Width: 4},
		{Header: "商品小类名称", Key: "商品小类名称", Width: 10},
		{Header: "代买编码", Key: "代买编码", Width: 8},
		{Header: "代卖编码", Key: "代卖编码", Width: 8},
		{Header: "商品名称", Key: "商品名称", Width: 20},
		{Header: "支付方式", Key: "支付方式", Width: 8},
		{Header: "数量", Key: "数量", Width: 8},
		{Header: "单价", Key: "单价", Width: 8},
		{Header: "合计", Key: "合计", Width: 8},
		{Header: "货运单号", Key: "货运单号", Width: 10},
		{Header: "姓名", Key: "姓名", Width: 6},
		{Header: "电话", Key: "电话", Width: 10},
		{Header: "邮寄地址", Key: "邮寄地址", Width: 20},
		{Header: "服务人员", Key: "服务人员", Width: 6},
		{Header: "日期", Key: "日期", Width: 10},
		{Header: "是否贫困户", Key: "是否贫困户", Width: 10},
	},
	domain.CommunityService: {
		{Header: "_id", Key: "_id", Width: 24},
		{Header: "站点id", Key: "站点id", Width: 24},
		{Header: "站点编号", Key: "站点编号", Width: 8},
		{Header: "序号", Key: "序号", Width: 10},
		{Header: "服务对象", Key: "服务对象", Width: 10},
		{Header: "联系电话", Key: "联系电话", Width: 10},
		{Header: "服务内容", Key: "服务内容", Width: 10},
		{Header: "金额（元）", Key: "金额（元）", Width: 20},
		{Header: "办理时间", Key: "办理时间", Width: 10},
		{Header: "服务人员", Key: "服务人员", Width: 6},
		{Header: "意见反馈", Key: "意见反馈", Width: 20},
	},
	domain.Courier: {
		{Header: "_id", Key: "_id", Width: 24},
		{Header: "站点id", Key: "站点id", Width: 24},
		{Header: "站点编号", Key: "站点编号", Width: 8},
		// The 单号 column has always been filled from the 类型 field.
		{Header: "单号", Key: "类型", Width: 10},
		{Header: "快递公司名称", Key: "快递公司名称", Width: 10},
		{Header: "发货时间", Key: "发货时间", Width: 10},
		{Header: "收货地点", Key: "收货地点", Width: 20},
		{Header: "联系电话", Key: "联系电话", Width: 20},
		{Header: "服务人员", Key: "服务人员", Width: 6},
		{Header: "确认签字", Key: "确认签字", Width: 8},
	},
}

// Columns returns a copy of the column layout for c, or nil for an unknown
// category.
func Columns(c domain.Category) []ColumnSpec {
	cols := columnsByCategory[c]
	if cols == nil {
		return nil
	}
	out := make([]ColumnSpec, len(cols))
	copy(out, cols)
	return out
}
