package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/librerose/sitebook/internal/domain"
)

const (
	// InstructionsSheet is the name of the always-present first sheet.
	InstructionsSheet = "数据导出说明"

	instructionsText = "导出的数据存放于工作表中，每天的数据存放于以该天日期命名的工作表中。\r\n" +
		"如果当天没有数据，则不会生成相应的工作表。\r\n" +
		"请打开工作表进行查看数据。\r\n"

	titleFont      = "微软雅黑"
	titleFontSize  = 18
	timestampLabel = "本数据由站点系统导出。导出时间："
	timestampTime  = "2006-01-02 15:04:05"

	// minMergeColumns keeps the title rows merged across at least A:S.
	minMergeColumns = 19
	headerRow       = 3
	firstDataRow    = 4

	workbookAuthor = "LibreRose SmartBot (Excel Export)"
)

// styles holds the style ids registered once per workbook.
type styles struct {
	title     int
	timestamp int
	header    int
	centered  int
	wrapped   int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		s   styles
		err error
	)
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: titleFont, Size: titleFontSize},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.timestamp, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, err
	}
	if s.centered, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.wrapped, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true},
	}); err != nil {
		return s, err
	}
	return s, nil
}

// sheetTitle is the "{site}({code}) {label}数据表" stem shared by titles and
// the download file name.
func sheetTitle(site domain.Site, c domain.Category) string {
	return fmt.Sprintf("%s(%s) %s数据表", site.Name, site.Code, c.Label())
}

// writeInstructions turns the workbook's default sheet into the instructions
// sheet so that it is always first.
func writeInstructions(f *excelize.File, st styles, site domain.Site, c domain.Category) error {
	first := f.GetSheetName(0)
	if err := f.SetSheetName(first, InstructionsSheet); err != nil {
		return err
	}

	cells := []struct {
		axis  string
		value string
		style int
	}{
		{"A1", sheetTitle(site, c), st.centered},
		{"A2", "导出说明", st.centered},
		{"A3", instructionsText, st.wrapped},
	}
	for _, cell := range cells {
		if err := f.SetCellValue(InstructionsSheet, cell.axis, cell.value); err != nil {
			return err
		}
		if err := f.SetCellStyle(InstructionsSheet, cell.axis, cell.axis, cell.style); err != nil {
			return err
		}
	}
	return f.SetColWidth(InstructionsSheet, "A", "A", 66)
}

// dateSheet is everything needed to lay out one per-day sheet.
type dateSheet struct {
	date     string
	site     domain.Site
	category domain.Category
	columns  []ColumnSpec
	records  []domain.Document
	stamp    time.Time
}

// writeDateSheet creates the sheet named after the date: merged title and
// timestamp rows, bold headers on row 3, one record per row from row 4.
func writeDateSheet(f *excelize.File, st styles, ds dateSheet) error {
	name := ds.date
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      headerRow,
		TopLeftCell: "C4",
		ActivePane:  "bottomRight",
		Selection: []excelize.Selection{
			{SQRef: "C4", ActiveCell: "C4", Pane: "bottomRight"},
		},
	}); err != nil {
		return fmt.Errorf("panes: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(max(len(ds.columns), minMergeColumns))
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s(%s) %s %s数据表", ds.site.Name, ds.site.Code, ds.date, ds.category.Label())
	stamp := timestampLabel + ds.stamp.In(domain.SiteZone()).Format(timestampTime)
	for row, line := range []struct {
		text  string
		style int
	}{
		{title, st.title},
		{stamp, st.timestamp},
	} {
		start := fmt.Sprintf("A%d", row+1)
		end := fmt.Sprintf("%s%d", lastCol, row+1)
		if err := f.MergeCell(name, start, end); err != nil {
			return fmt.Errorf("merge %s:%s: %w", start, end, err)
		}
		if err := f.SetCellValue(name, start, line.text); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, start, start, line.style); err != nil {
			return err
		}
	}

	if err := writeHeaders(f, st, name, ds.columns); err != nil {
		return fmt.Errorf("headers: %w", err)
	}

	for i, doc := range ds.records {
		if err := writeRecord(f, name, firstDataRow+i, ds.columns, doc); err != nil {
			return fmt.Errorf("row %d: %w", firstDataRow+i, err)
		}
	}
	return nil
}

// writeHeaders writes header labels as plain bold values on row 3 and applies
// the column widths separately.
func writeHeaders(f *excelize.File, st styles, sheet string, cols []ColumnSpec) error {
	if len(cols) == 0 {
		return nil
	}
	labels := make([]any, len(cols))
	for i, c := range cols {
		labels[i] = c.Header

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, c.Width); err != nil {
			return err
		}
	}

	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(cols), headerRow)
	if err := f.SetSheetRow(sheet, first, &labels); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, st.header)
}

// writeRecord fills one data row by matching record keys to column keys.
// Keys missing from the record leave the cell empty.
func writeRecord(f *excelize.File, sheet string, row int, cols []ColumnSpec, doc domain.Document) error {
	for i, c := range cols {
		v := cellValue(doc[c.Key])
		if v == nil {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, axis, v); err != nil {
			return err
		}
	}
	return nil
}

// cellValue converts a stored value into something excelize writes natively.
// Nested documents show their 名称; other composites are written as JSON.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, float64, float32, int, int32, int64, time.Time:
		return t
	case domain.Document:
		return documentCell(t)
	case map[string]any:
		return documentCell(domain.Document(t))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func documentCell(d domain.Document) any {
	if name, ok := d[domain.FieldName]; ok && name != nil {
		return cellValue(name)
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	return string(b)
}
