package dataset

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"
	"gonum.org/v1/gonum/mat"
)

// Key identifies an observation.
type Key struct {
	CountryName string
	CountryCode string
	Year        int
}

// Table is an immutable observation table. Values are stored row by row,
// NaN marks a missing value.
type Table struct {
	keys    []Key
	columns []string
	values  [][]float64
	colIdx  map[string]int
}

// IsMissing reports if a value is missing.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NewTable creates a Table. It checks that every row has a value for
// every column, that column names are unique and that (CountryCode, Year)
// pairs are unique. Data is copied.
func NewTable(keys []Key, columns []string, values [][]float64) (*Table, error) {
	if len(keys) != len(values) {
		return nil, ShapeError(
			"number of keys %d differs from number of rows %d",
			len(keys), len(values),
		)
	}

	colIdx := make(map[string]int, len(columns))
	for i, v := range columns {
		if _, ok := colIdx[v]; ok {
			return nil, DuplicateColumnError(v)
		}
		colIdx[v] = i
	}

	type ck struct {
		code string
		year int
	}
	seen := make(map[ck]struct{}, len(keys))
	for i, k := range keys {
		if len(values[i]) != len(columns) {
			return nil, ShapeError(
				"row %d has %d values, expected %d",
				i, len(values[i]), len(columns),
			)
		}
		id := ck{code: k.CountryCode, year: k.Year}
		if _, ok := seen[id]; ok {
			return nil, DuplicateKeyError(k.CountryCode, k.Year)
		}
		seen[id] = struct{}{}
	}

	res := &Table{
		keys:    append([]Key(nil), keys...),
		columns: append([]string(nil), columns...),
		values:  make([][]float64, len(values)),
		colIdx:  colIdx,
	}
	for i := range values {
		res.values[i] = append([]float64(nil), values[i]...)
	}
	return res, nil
}

// Rows returns the number of observations.
func (t *Table) Rows() int {
	return len(t.keys)
}

// Cols returns the number of indicator columns.
func (t *Table) Cols() int {
	return len(t.columns)
}

// Key returns the key of a row.
func (t *Table) Key(row int) Key {
	return t.keys[row]
}

// Keys returns a copy of all row keys.
func (t *Table) Keys() []Key {
	return append([]Key(nil), t.keys...)
}

// Columns returns a copy of column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnIndex returns position of a column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.colIdx[name]
	return i, ok
}

// Value returns a cell of the table.
func (t *Table) Value(row, col int) float64 {
	return t.values[row][col]
}

// Row returns a copy of row values.
func (t *Table) Row(row int) []float64 {
	return append([]float64(nil), t.values[row]...)
}

// Column returns a copy of column values, or nil for an unknown column.
func (t *Table) Column(name string) []float64 {
	j, ok := t.colIdx[name]
	if !ok {
		return nil
	}
	res := make([]float64, len(t.values))
	for i := range t.values {
		res[i] = t.values[i][j]
	}
	return res
}

// SelectRows returns a new table with the given rows in the given order.
func (t *Table) SelectRows(rows []int) *Table {
	keys := make([]Key, len(rows))
	values := make([][]float64, len(rows))
	for i, r := range rows {
		keys[i] = t.keys[r]
		values[i] = append([]float64(nil), t.values[r]...)
	}
	return &Table{
		keys:    keys,
		columns: append([]string(nil), t.columns...),
		values:  values,
		colIdx:  t.colIdx,
	}
}

// FilterRows returns a new table with rows for which keep returns true.
func (t *Table) FilterRows(keep func(row int) bool) *Table {
	var rows []int
	for i := range t.keys {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.SelectRows(rows)
}

// SelectColumns returns a new table with the given columns in the given
// order.
func (t *Table) SelectColumns(names []string) (*Table, error) {
	idx := make([]int, len(names))
	colIdx := make(map[string]int, len(names))
	for i, v := range names {
		j, ok := t.colIdx[v]
		if !ok {
			return nil, UnknownColumnError(v)
		}
		if _, ok := colIdx[v]; ok {
			return nil, DuplicateColumnError(v)
		}
		idx[i] = j
		colIdx[v] = i
	}

	values := make([][]float64, len(t.values))
	for i := range t.values {
		row := make([]float64, len(idx))
		for k, j := range idx {
			row[k] = t.values[i][j]
		}
		values[i] = row
	}
	return &Table{
		keys:    append([]Key(nil), t.keys...),
		columns: append([]string(nil), names...),
		values:  values,
		colIdx:  colIdx,
	}, nil
}

// DropColumns returns a new table without the given columns. Unknown
// names are ignored. The order of remaining columns is preserved.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, v := range names {
		drop[v] = struct{}{}
	}
	var keep []string
	for _, v := range t.columns {
		if _, ok := drop[v]; !ok {
			keep = append(keep, v)
		}
	}
	// all names come from the table
	res, _ := t.SelectColumns(keep)
	return res
}

// Matrix returns the given columns as a dense matrix, NaN for missing
// values.
func (t *Table) Matrix(names []string) (*mat.Dense, error) {
	if len(t.keys) == 0 || len(names) == 0 {
		return nil, EmptyTableError(len(t.keys), len(names))
	}
	idx := make([]int, len(names))
	for i, v := range names {
		j, ok := t.colIdx[v]
		if !ok {
			return nil, UnknownColumnError(v)
		}
		idx[i] = j
	}

	res := mat.NewDense(len(t.keys), len(names), nil)
	for i := range t.values {
		for k, j := range idx {
			res.Set(i, k, t.values[i][j])
		}
	}
	return res, nil
}

// Years returns distinct years in order of first appearance.
func (t *Table) Years() []int {
	seen := make(map[int]struct{})
	var res []int
	for _, k := range t.keys {
		if _, ok := seen[k.Year]; ok {
			continue
		}
		seen[k.Year] = struct{}{}
		res = append(res, k.Year)
	}
	return res
}

// Countries returns distinct country codes in order of first appearance.
func (t *Table) Countries() []string {
	seen := make(map[string]struct{})
	var res []string
	for _, k := range t.keys {
		if _, ok := seen[k.CountryCode]; ok {
			continue
		}
		seen[k.CountryCode] = struct{}{}
		res = append(res, k.CountryCode)
	}
	return res
}

// Fingerprint is a hash of columns, keys and values. Tables with the same
// content in the same order have the same fingerprint.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	sep := []byte{0}
	for _, c := range t.columns {
		h.Write([]byte(c))
		h.Write(sep)
	}
	buf := make([]byte, 8)
	for i, k := range t.keys {
		h.Write([]byte(k.CountryCode))
		h.Write(sep)
		h.Write([]byte(strconv.Itoa(k.Year)))
		h.Write(sep)
		for _, v := range t.values[i] {
			if IsMissing(v) {
				v = math.NaN()
			}
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			h.Write(buf)
		}
	}
	return h.Sum64()
}
