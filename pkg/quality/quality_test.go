package quality_test

import (
	"math"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/gnames/wdimodel/pkg/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

// threeByTwo returns 3 countries × 2 years × 4 indicators, where the
// target D is missing for country B in year 2.
func threeByTwo(t *testing.T) *dataset.Table {
	var keys []dataset.Key
	var vals [][]float64
	for i, c := range []string{"A", "B", "C"} {
		for _, y := range []int{1, 2} {
			keys = append(keys, dataset.Key{
				CountryName: "Country " + c, CountryCode: c, Year: y,
			})
			row := []float64{
				float64(i + y), float64(i * y), float64(i - y), float64(10*i + y),
			}
			if c == "B" && y == 2 {
				row[3] = nan
			}
			vals = append(vals, row)
		}
	}
	tbl, err := dataset.NewTable(keys, []string{"A1", "B1", "C1", "D"}, vals)
	require.NoError(t, err)
	return tbl
}

// sparseTable has uneven missingness over years, countries and columns.
func sparseTable(t *testing.T) *dataset.Table {
	keys := []dataset.Key{
		{CountryCode: "AAA", Year: 2000},
		{CountryCode: "AAA", Year: 2001},
		{CountryCode: "AAA", Year: 2002},
		{CountryCode: "BBB", Year: 2000},
		{CountryCode: "BBB", Year: 2001},
		{CountryCode: "CCC", Year: 2000},
		{CountryCode: "CCC", Year: 2002},
	}
	// columns: X1 X2 X3 Y
	vals := [][]float64{
		{1, nan, 1, 1},
		{2, 2, nan, 2},
		{3, nan, nan, 3},
		{4, 4, 4, 4},
		{5, nan, 5, nan},
		{6, 6, 6, 6},
		{7, nan, 7, 7},
	}
	tbl, err := dataset.NewTable(keys, []string{"X1", "X2", "X3", "Y"}, vals)
	require.NoError(t, err)
	return tbl
}

func TestFilterScenario(t *testing.T) {
	tbl := threeByTwo(t)
	res, err := quality.Filter(tbl, "D", quality.Thresholds{})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Table.Rows())
	assert.Equal(t, 1, res.TargetMissingRows)
	assert.Equal(t, []string{"A1", "B1", "C1"}, res.Indicators)
	assert.Equal(t, []string{"A1", "B1", "C1", "D"}, res.Table.Columns())
	assert.Empty(t, res.DroppedYears)
	assert.Empty(t, res.DroppedCountries)
	assert.Empty(t, res.DroppedIndicators)

	for i := range res.Table.Rows() {
		k := res.Table.Key(i)
		assert.False(t, k.CountryCode == "B" && k.Year == 2)
	}
}

func TestFilterTargetInvariant(t *testing.T) {
	tests := []struct {
		msg string
		th  quality.Thresholds
	}{
		{"no drops", quality.Thresholds{}},
		{"drop year", quality.Thresholds{YearsToDrop: 1}},
		{"drop country", quality.Thresholds{CountriesToDrop: 1}},
		{"threshold", quality.Thresholds{NotNaNThreshold: 0.5}},
	}

	for _, v := range tests {
		tbl := sparseTable(t)
		res, err := quality.Filter(tbl, "Y", v.th)
		require.NoError(t, err, v.msg)
		y := res.Table.Column("Y")
		for _, val := range y {
			assert.False(t, math.IsNaN(val), v.msg)
		}
	}
}

func TestFilterNoOp(t *testing.T) {
	tbl := sparseTable(t)
	res, err := quality.Filter(tbl, "Y", quality.Thresholds{})
	require.NoError(t, err)

	assert.Equal(t, tbl.Rows()-1, res.Table.Rows())
	assert.Equal(t, tbl.Columns(), res.Table.Columns())
	assert.Equal(t, tbl.Row(3), res.Table.Row(3))
	assert.Equal(t, tbl.Key(5), res.Table.Key(4))
}

func TestFilterDrops(t *testing.T) {
	tbl := sparseTable(t)
	res, err := quality.Filter(tbl, "Y", quality.Thresholds{
		YearsToDrop:     1,
		CountriesToDrop: 1,
		NotNaNThreshold: 0.9,
	})
	require.NoError(t, err)

	// missing(2000) = 3*4 - 11, missing(2001) = 3*4 - 5,
	// missing(2002) = 3*4 - 5: 2001 comes first among equal counts.
	assert.Equal(t, []int{2001}, res.DroppedYears)
	// missing(AAA) = 3*4 - 8 = 4, missing(BBB) = 3*4 - 6 = 6,
	// missing(CCC) = 3*4 - 7 = 5.
	assert.Equal(t, []string{"BBB"}, res.DroppedCountries)

	var codes []string
	for i := range res.Table.Rows() {
		k := res.Table.Key(i)
		codes = append(codes, k.CountryCode)
		assert.NotEqual(t, 2001, k.Year)
	}
	assert.Equal(t, []string{"AAA", "AAA", "CCC", "CCC"}, codes)

	// remaining rows: X2 is 1/4, X3 is 3/4 present
	assert.Equal(t, []string{"X2", "X3"}, res.DroppedIndicators)
	assert.Equal(t, []string{"X1"}, res.Indicators)
	assert.Equal(t, []string{"X1", "Y"}, res.Table.Columns())
}

func TestFilterThresholdEdges(t *testing.T) {
	tbl := sparseTable(t)

	res, err := quality.Filter(tbl, "Y", quality.Thresholds{NotNaNThreshold: 0})
	require.NoError(t, err)
	assert.Empty(t, res.DroppedIndicators)

	res, err = quality.Filter(tbl, "Y", quality.Thresholds{NotNaNThreshold: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"X2", "X3"}, res.DroppedIndicators)
	assert.Equal(t, []string{"X1"}, res.Indicators)
}

func TestFilterEmptyColumn(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]dataset.Key{
			{CountryCode: "A", Year: 1},
			{CountryCode: "A", Year: 2},
			{CountryCode: "B", Year: 1},
		},
		[]string{"X", "E", "Y"},
		[][]float64{{1, nan, 1}, {2, nan, 2}, {3, 5, nan}},
	)
	require.NoError(t, err)

	// E has a value only in the row without target
	res, err := quality.Filter(tbl, "Y", quality.Thresholds{NotNaNThreshold: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, res.DroppedIndicators)
	assert.Equal(t, []string{"X"}, res.Indicators)
	assert.Equal(t, []string{"X", "Y"}, res.Table.Columns())
}

func TestFilterDeterminism(t *testing.T) {
	th := quality.Thresholds{YearsToDrop: 1, CountriesToDrop: 1, NotNaNThreshold: 0.5}
	res1, err := quality.Filter(sparseTable(t), "Y", th)
	require.NoError(t, err)
	res2, err := quality.Filter(sparseTable(t), "Y", th)
	require.NoError(t, err)

	assert.Equal(t, res1.Table.Keys(), res2.Table.Keys())
	assert.Equal(t, res1.Table.Columns(), res2.Table.Columns())
	for i := range res1.Table.Rows() {
		assert.Equal(t, res1.Table.Row(i), res2.Table.Row(i))
	}
	assert.Equal(t, res1.DroppedYears, res2.DroppedYears)
	assert.Equal(t, res1.DroppedCountries, res2.DroppedCountries)
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		msg    string
		target string
		th     quality.Thresholds
		code   gn.ErrorCode
	}{
		{"unknown target", "Z", quality.Thresholds{}, errcode.InputTargetNotFoundError},
		{"threshold", "Y", quality.Thresholds{NotNaNThreshold: 2}, errcode.ConfigThresholdError},
		{"negative", "Y", quality.Thresholds{YearsToDrop: -1}, errcode.ConfigDropCountError},
		{"all years", "Y", quality.Thresholds{YearsToDrop: 3}, errcode.DataEmptyTableError},
	}

	for _, v := range tests {
		_, err := quality.Filter(sparseTable(t), v.target, v.th)
		require.Error(t, err, v.msg)
		assert.Equal(t, v.code, err.(*gn.Error).Code, v.msg)
	}
}

func TestFilterNoIndicatorsLeft(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]dataset.Key{{CountryCode: "A", Year: 1}, {CountryCode: "A", Year: 2}},
		[]string{"X", "Y"},
		[][]float64{{nan, 1}, {1, 2}},
	)
	require.NoError(t, err)

	_, err = quality.Filter(tbl, "Y", quality.Thresholds{NotNaNThreshold: 1})
	require.Error(t, err)
	gnErr := err.(*gn.Error)
	assert.Equal(t, errcode.DataEmptyTableError, gnErr.Code)
	assert.Equal(t, errcode.DataQualityKind, errcode.KindOf(gnErr.Code))
}

func TestCompute(t *testing.T) {
	stats := quality.Compute(sparseTable(t))

	require.Len(t, stats.Indicators, 4)
	assert.Equal(t, "X2", stats.Indicators[1].Code)
	assert.Equal(t, 4, stats.Indicators[1].Missing)
	assert.Equal(t, 7, stats.Indicators[1].Total)
	assert.InDelta(t, 100*4.0/7, stats.Indicators[1].Percent, 1e-9)

	require.Len(t, stats.Years, 3)
	assert.Equal(t, 2000, stats.Years[0].Year)
	assert.Equal(t, 1, stats.Years[0].Missing)
	assert.Equal(t, 12, stats.Years[0].Total)
	// 2002 has no row for BBB, 4 cells absent + 3 missing
	assert.Equal(t, 7, stats.Years[2].Missing)

	require.Len(t, stats.Countries, 3)
	assert.Equal(t, "BBB", stats.Countries[1].Code)
	assert.Equal(t, 6, stats.Countries[1].Missing)
	assert.InDelta(t, 50.0, stats.Countries[1].Percent, 1e-9)

	assert.Len(t, stats.IndicatorPercents(), 4)
}
