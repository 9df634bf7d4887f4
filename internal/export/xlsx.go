package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/laborstats/uniondir/internal/tabular"
)

// WriteXLSX writes a table to an xlsx file: one sheet, a header row, and
// one row per record. No index column is written.
func WriteXLSX(t tabular.Table, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range t.Columns {
		header.AddCell().SetString(col)
	}

	for _, row := range t.Rows {
		out := sheet.AddRow()
		for _, col := range t.Columns {
			cell := out.AddCell()
			switch v := row[col].(type) {
			case nil:
			case bool:
				cell.SetBool(v)
			case string:
				cell.SetString(v)
			case int:
				cell.SetInt(v)
			default:
				cell.SetValue(v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}
