package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/librerose/sitebook/internal/domain"
	"github.com/librerose/sitebook/internal/export"
)

// ---- fake store ------------------------------------------------------------

// fakeFetcher serves documents keyed by collection then date and records
// every lookup so tests can assert the fetch order.
type fakeFetcher struct {
	docs  map[string]map[string][]domain.Document
	err   error
	calls []string
}

func (f *fakeFetcher) FindByField(_ context.Context, collection, field, value string) ([]domain.Document, error) {
	f.calls = append(f.calls, collection+"/"+field+"="+value)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Document
	for _, d := range f.docs[collection][value] {
		out = append(out, d.Clone())
	}
	return out, nil
}

var _ export.Fetcher = (*fakeFetcher)(nil)

// ---- helpers ---------------------------------------------------------------

var testSite = domain.Site{ID: "site-1", Name: "幸福村", Code: "001"}

// fixedNow is 2024-01-02 00:30 UTC, i.e. 08:30 in Shanghai.
var fixedNow = time.Date(2024, 1, 2, 0, 30, 0, 0, time.UTC)

func mustRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func newExporter(t *testing.T, fetch export.Fetcher) *export.Exporter {
	t.Helper()
	return export.New(fetch, t.TempDir(), export.WithClock(func() time.Time { return fixedNow }))
}

func openResult(t *testing.T, res export.Result) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return v
}

func purchaseRecord(id string) domain.Document {
	return domain.Document{
		"_id":  id,
		"站点id": "site-1",
		"站点编号": "001",
		"类型":   "代买",
		"商品名称": "大米",
		"数量":   "2",
		"日期":   "2024-01-02",
		"商品小类": domain.Document{"名称": "粮油", "代买编码": "B01", "代卖编码": "S01"},
		"备注":   "not a column",
	}
}

// ---- Export ----------------------------------------------------------------

func TestExport_OnlyPopulatedDatesGetSheets(t *testing.T) {
	fetch := &fakeFetcher{docs: map[string]map[string][]domain.Document{
		"代购代销": {"2024-01-02": {purchaseRecord("x")}},
	}}
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-01", "2024-01-03"), Site: testSite}

	res, err := newExporter(t, fetch).Export(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{export.InstructionsSheet, "2024-01-02"}, res.Sheets)
	assert.Equal(t, []string{
		"代购代销/日期=2024-01-01",
		"代购代销/日期=2024-01-02",
		"代购代销/日期=2024-01-03",
	}, fetch.calls, "every day is fetched once, in ascending order")

	f := openResult(t, res)
	assert.Equal(t, []string{export.InstructionsSheet, "2024-01-02"}, f.GetSheetList())

	rows, err := f.GetRows("2024-01-02")
	require.NoError(t, err)
	require.Len(t, rows, 4, "title, timestamp, header and one data row")
	assert.Equal(t, "_id", rows[2][0])
	assert.Equal(t, "是否贫困户", rows[2][18])
	assert.Equal(t, "x", rows[3][0])
}

func TestExport_RoundTripsKnownColumns(t *testing.T) {
	fetch := &fakeFetcher{docs: map[string]map[string][]domain.Document{
		"代购代销": {"2024-01-02": {purchaseRecord("x")}},
	}}
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-02", "2024-01-02"), Site: testSite}

	res, err := newExporter(t, fetch).Export(context.Background(), req)
	require.NoError(t, err)
	f := openResult(t, res)

	byHeader := map[string]string{}
	for i, col := range export.Columns(domain.PurchaseSale) {
		axis, err := excelize.CoordinatesToCellName(i+1, 4)
		require.NoError(t, err)
		byHeader[col.Header] = cell(t, f, "2024-01-02", axis)
	}

	assert.Equal(t, "x", byHeader["_id"])
	assert.Equal(t, "site-1", byHeader["站点id"])
	assert.Equal(t, "001", byHeader["站点编号"])
	assert.Equal(t, "代买", byHeader["类型"])
	assert.Equal(t, "大米", byHeader["商品名称"])
	assert.Equal(t, "2", byHeader["数量"])
	assert.Equal(t, "2024-01-02", byHeader["日期"])
	// Flattened from the 商品小类 reference.
	assert.Equal(t, "粮油", byHeader["商品小类名称"])
	assert.Equal(t, "B01", byHeader["代买编码"])
	assert.Equal(t, "S01", byHeader["代卖编码"])
	// Keys the record does not carry stay empty.
	assert.Empty(t, byHeader["电话"])
	assert.Empty(t, byHeader["是否贫困户"])

	// The extra 备注 field has no column and is dropped.
	rows, err := f.GetRows("2024-01-02")
	require.NoError(t, err)
	assert.NotContains(t, rows[3], "not a column")
}

func TestExport_TitleAndTimestampRows(t *testing.T) {
	fetch := &fakeFetcher{docs: map[string]map[string][]domain.Document{
		"便民服务": {"2024-01-02": {{"_id": "s1", "日期": "2024-01-02"}}},
	}}
	req := export.Request{Category: domain.CommunityService, Range: mustRange(t, "2024-01-02", "2024-01-02"), Site: testSite}

	res, err := newExporter(t, fetch).Export(context.Background(), req)
	require.NoError(t, err)
	f := openResult(t, res)

	assert.Equal(t, "幸福村(001) 2024-01-02 便民服务数据表", cell(t, f, "2024-01-02", "A1"))
	assert.Equal(t, "本数据由站点系统导出。导出时间：2024-01-02 08:30:00", cell(t, f, "2024-01-02", "A2"))

	merges, err := f.GetMergeCells("2024-01-02")
	require.NoError(t, err)
	var spans []string
	for _, m := range merges {
		spans = append(spans, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	// Eleven columns, but the title rows still span A:S.
	assert.ElementsMatch(t, []string{"A1:S1", "A2:S2"}, spans)

	panes, err := f.GetPanes("2024-01-02")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 2, panes.XSplit)
	assert.Equal(t, 3, panes.YSplit)
}

func TestExport_ColumnWidthsAndHeaders(t *testing.T) {
	fetch := &fakeFetcher{docs: map[string]map[string][]domain.Document{
		"快递物流": {"2024-01-02": {{"_id": "c1", "类型": "SF123", "日期": "2024-01-02"}}},
	}}
	req := export.Request{Category: domain.Courier, Range: mustRange(t, "2024-01-02", "2024-01-02"), Site: testSite}

	res, err := newExporter(t, fetch).Export(context.Background(), req)
	require.NoError(t, err)
	f := openResult(t, res)

	for i, col := range export.Columns(domain.Courier) {
		name, err := excelize.ColumnNumberToName(i + 1)
		require.NoError(t, err)

		width, err := f.GetColWidth("2024-01-02", name)
		require.NoError(t, err)
		assert.InDelta(t, col.Width, width, 0.01, "width of %s", col.Header)
		assert.Equal(t, col.Header, cell(t, f, "2024-01-02", name+"3"))
	}
	// The 单号 header is filled from the 类型 key.
	assert.Equal(t, "SF123", cell(t, f, "2024-01-02", "D4"))
}

func TestExport_InstructionsSheet(t *testing.T) {
	req := export.Request{Category: domain.Courier, Range: mustRange(t, "2024-01-01", "2024-01-01"), Site: testSite}

	res, err := newExporter(t, &fakeFetcher{}).Export(context.Background(), req)
	require.NoError(t, err)
	f := openResult(t, res)

	assert.Equal(t, "幸福村(001) 快递物流数据表", cell(t, f, export.InstructionsSheet, "A1"))
	assert.Equal(t, "导出说明", cell(t, f, export.InstructionsSheet, "A2"))
	assert.Contains(t, cell(t, f, export.InstructionsSheet, "A3"), "如果当天没有数据，则不会生成相应的工作表。")

	width, err := f.GetColWidth(export.InstructionsSheet, "A")
	require.NoError(t, err)
	assert.InDelta(t, 66.0, width, 0.01)
}

func TestExport_SingleDayWithoutData(t *testing.T) {
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-05", "2024-01-05"), Site: testSite}

	res, err := newExporter(t, &fakeFetcher{}).Export(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{export.InstructionsSheet}, res.Sheets)
	assert.Equal(t, []string{export.InstructionsSheet}, openResult(t, res).GetSheetList())
}

func TestExport_SingleDayWithData(t *testing.T) {
	fetch := &fakeFetcher{docs: map[string]map[string][]domain.Document{
		"代购代销": {"2024-01-02": {purchaseRecord("a"), purchaseRecord("b")}},
	}}
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-02", "2024-01-02"), Site: testSite}

	res, err := newExporter(t, fetch).Export(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{export.InstructionsSheet, "2024-01-02"}, res.Sheets)
	f := openResult(t, res)
	assert.Equal(t, "a", cell(t, f, "2024-01-02", "A4"))
	assert.Equal(t, "b", cell(t, f, "2024-01-02", "A5"), "store order is kept")
}

func TestExport_IdempotentApartFromTimestamp(t *testing.T) {
	fetch := &fakeFetcher{docs: map[string]map[string][]domain.Document{
		"代购代销": {
			"2024-01-01": {purchaseRecord("a")},
			"2024-01-03": {purchaseRecord("b"), purchaseRecord("c")},
		},
	}}
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-01", "2024-01-03"), Site: testSite}

	calls := 0
	clock := func() time.Time {
		calls++
		return fixedNow.Add(time.Duration(calls) * time.Minute)
	}
	exp := export.New(fetch, t.TempDir(), export.WithClock(clock))

	first, err := exp.Export(context.Background(), req)
	require.NoError(t, err)
	second, err := exp.Export(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path, "each export gets its own file")
	assert.Equal(t, first.Sheets, second.Sheets)

	a, b := openResult(t, first), openResult(t, second)
	for _, sheet := range first.Sheets {
		rowsA, err := a.GetRows(sheet)
		require.NoError(t, err)
		rowsB, err := b.GetRows(sheet)
		require.NoError(t, err)

		if sheet != export.InstructionsSheet {
			assert.NotEqual(t, rowsA[1], rowsB[1], "timestamp row differs")
			rowsA[1], rowsB[1] = nil, nil
		}
		assert.Equal(t, rowsA, rowsB, "sheet %s", sheet)
	}
}

func TestExport_NotConfigured(t *testing.T) {
	fetch := &fakeFetcher{}
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-01", "2024-01-03"), Site: testSite}

	_, err := export.New(fetch, "").Export(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrExportNotConfigured)
	assert.Empty(t, fetch.calls, "nothing is queried without an export directory")
}

func TestExport_SerializationFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	exp := export.New(&fakeFetcher{}, missing, export.WithFileNamer(func() string { return "fixed" }))
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-01", "2024-01-01"), Site: testSite}

	_, err := exp.Export(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrSerialization)
	_, statErr := os.Stat(filepath.Join(missing, "fixed.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("store down")
	req := export.Request{Category: domain.PurchaseSale, Range: mustRange(t, "2024-01-01", "2024-01-02"), Site: testSite}

	_, err := newExporter(t, &fakeFetcher{err: boom}).Export(context.Background(), req)

	assert.ErrorIs(t, err, boom)
}

func TestExport_TempFileNaming(t *testing.T) {
	dir := t.TempDir()
	exp := export.New(&fakeFetcher{}, dir, export.WithFileNamer(func() string { return "abc" }))
	req := export.Request{Category: domain.Courier, Range: mustRange(t, "2024-01-01", "2024-01-31"), Site: testSite}

	res, err := exp.Export(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "abc.xlsx", filepath.Base(res.Path))
	assert.True(t, filepath.IsAbs(res.Path))
	assert.Equal(t, "幸福村(001) 快递物流数据表(2024-01-01 - 2024-01-31).xlsx", res.FileName)
	_, err = os.Stat(res.Path)
	assert.NoError(t, err)
}
