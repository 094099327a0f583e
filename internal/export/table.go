package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

const (
	ColumnID        = "Cédula"
	ColumnLastName  = "Apellidos"
	ColumnFirstName = "Nombres"
	ColumnTotal     = "NOTA FINAL"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Table is the report laid out as a sheet: one row per student in roster
// order, assignment columns in the order they were supplied.
type Table struct {
	Header []string
	Rows   [][]interface{}
}

func BuildTable(r models.Report) Table {
	header := make([]string, 0, len(r.Assignments)+4)
	header = append(header, ColumnID, ColumnLastName, ColumnFirstName)
	header = append(header, r.Assignments...)
	header = append(header, ColumnTotal)

	rows := make([][]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		cells := make([]interface{}, 0, len(header))
		cells = append(cells, row.Student.ID, row.Student.LastName, row.Student.FirstName)
		for _, score := range row.Scores {
			cells = append(cells, score)
		}
		cells = append(cells, row.Total)
		rows = append(rows, cells)
	}

	return Table{Header: header, Rows: rows}
}

// Values returns the header followed by the rows.
func (t Table) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(t.Rows)+1)
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	out = append(out, header)
	return append(out, t.Rows...)
}

func (t Table) Strings() [][]string {
	values := t.Values()
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = cellString(v)
		}
	}
	return out
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

// Export writes the report in the given format.
func Export(w io.Writer, r models.Report, format Format, sheetName string) error {
	table := BuildTable(r)
	switch format {
	case FormatCSV:
		return WriteCSV(w, table)
	case FormatXLSX:
		return WriteXLSX(w, table, sheetName)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
