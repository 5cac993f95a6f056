package export

import (
	"fmt"
	"io"
	"strings"

	"catalog-backend/internal/domains/category/model"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "Categories"
	indentWidth = 2
)

var headers = []string{"ID", "Name", "Slug", "Parent ID", "Status", "Depth", "Path"}

// XLSXExporter ghi cây category ra file Excel, mỗi node 1 dòng theo pre-order
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Export(w io.Writer, rows []model.FlatViewRow) error {
	f, err := e.Build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// Build tạo workbook trong memory (tách riêng để test đọc lại cell)
func (e *XLSXExporter) Build(rows []model.FlatViewRow) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	// Header
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)
	}

	// Data
	for i, r := range rows {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), int64(r.ID))
		// Thụt lề theo depth để đọc được cấu trúc cây ngay trong Excel
		f.SetCellValue(sheetName, cell(2), strings.Repeat(" ", max(r.Depth-1, 0)*indentWidth)+r.Name)
		f.SetCellValue(sheetName, cell(3), r.Slug)
		if r.ParentID != nil {
			f.SetCellValue(sheetName, cell(4), int64(*r.ParentID))
		} else {
			f.SetCellValue(sheetName, cell(4), "")
		}
		f.SetCellValue(sheetName, cell(5), r.Status.String())
		f.SetCellValue(sheetName, cell(6), r.Depth)
		f.SetCellValue(sheetName, cell(7), r.FullPath)
	}

	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "G", "G", 60)
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return f, nil
}
