// Package dataset provides in-memory representation of the World
// Development Indicators data: the observation table, the indicator
// catalog and the country catalog.
//
// Row order and column order of a Table are the order of ingestion.
// Every tie-break of downstream stages refers to them, so no method of
// this package reorders rows or columns unless asked to.
package dataset

// Dataset bundles the observation table with its catalogs.
type Dataset struct {
	// Table contains observations keyed by country and year.
	Table *Table

	// Indicators describes columns of the Table.
	Indicators *IndicatorCatalog

	// Countries describes countries and aggregates of the Table.
	Countries *CountryCatalog
}

// TargetCode resolves an indicator name to its code and checks that the
// observation table has such a column.
func (d *Dataset) TargetCode(name string) (string, error) {
	code, err := d.Indicators.ResolveTarget(name)
	if err != nil {
		return "", err
	}
	if _, ok := d.Table.ColumnIndex(code); !ok {
		return "", TargetNotFoundError(name)
	}
	return code, nil
}

// Validate checks that every column of the table except the target has
// an entry in the indicator catalog.
func (d *Dataset) Validate(target string) error {
	for _, v := range d.Table.Columns() {
		if v == target {
			continue
		}
		if _, ok := d.Indicators.Get(v); !ok {
			return UnknownIndicatorError(v)
		}
	}
	return nil
}
