// Package ioload reads World Development Indicators CSV files into a
// dataset.Dataset.
package ioload

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/wdimodel/internal/iofs"
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/wdi"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	colCountryName = "Country Name"
	colCountryCode = "Country Code"
	colYear        = "Year"
	colSeriesCode  = "Series Code"
	colIndName     = "Indicator Name"
	colTopic       = "Topic"
	colRegion      = "Region"
)

// missingTokens are cell values treated as missing.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
	"#N/A": {},
	"..":   {},
}

// countryNameCols are tried in order to find a country name.
var countryNameCols = []string{
	"Table Name", "Short Name", "Long Name", colCountryName,
}

type loader struct {
	cfg config.InputConfig
}

// New creates a Loader for input files of the config.
func New(cfg *config.Config) wdi.Loader {
	return &loader{cfg: cfg.Input}
}

// Load reads indicator catalog, country catalog and observations.
func (l *loader) Load(ctx context.Context) (*dataset.Dataset, error) {
	inds, err := loadIndicators(l.cfg.IndicatorsPath)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	countries, err := loadCountries(l.cfg.CountriesPath)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	tbl, err := loadObservations(l.cfg.DataPath)
	if err != nil {
		return nil, err
	}

	slog.Info("Dataset loaded",
		"observations", humanize.Comma(int64(tbl.Rows())),
		"indicators", humanize.Comma(int64(tbl.Cols())),
		"catalog_indicators", humanize.Comma(int64(inds.Len())),
		"catalog_countries", humanize.Comma(int64(countries.Len())),
	)

	return &dataset.Dataset{
		Table:      tbl,
		Indicators: inds,
		Countries:  countries,
	}, nil
}

// csvFile is a parsed CSV file with header positions.
type csvFile struct {
	path    string
	header  []string
	idx     map[string]int
	records [][]string
}

func (f *csvFile) col(name string) (int, bool) {
	i, ok := f.idx[name]
	return i, ok
}

func (f *csvFile) mustCol(name string) (int, error) {
	if i, ok := f.idx[name]; ok {
		return i, nil
	}
	return 0, HeaderError(f.path, name)
}

// readCSV reads a whole CSV file. UTF-8 BOM is removed and text is
// normalized to NFC, so catalog names compare equal to configured names.
func readCSV(path string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	defer f.Close()

	t := transform.Chain(unicode.BOMOverride(unicode.UTF8.NewDecoder()), norm.NFC)
	r := csv.NewReader(transform.NewReader(f, t))

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, HeaderError(path, colCountryCode)
		}
		return nil, RowError(path, err)
	}

	res := &csvFile{
		path:   path,
		header: make([]string, len(header)),
		idx:    make(map[string]int, len(header)),
	}
	for i, v := range header {
		v = strings.TrimSpace(v)
		res.header[i] = v
		if v == "" {
			continue
		}
		if _, ok := res.idx[v]; !ok {
			res.idx[v] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, RowError(path, err)
		}
		res.records = append(res.records, rec)
	}
	return res, nil
}

func loadIndicators(path string) (*dataset.IndicatorCatalog, error) {
	f, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	codeIdx, err := f.mustCol(colSeriesCode)
	if err != nil {
		return nil, err
	}
	nameIdx, err := f.mustCol(colIndName)
	if err != nil {
		return nil, err
	}
	topicIdx, hasTopic := f.col(colTopic)

	list := make([]dataset.Indicator, 0, len(f.records))
	for _, rec := range f.records {
		ind := dataset.Indicator{
			Code: strings.TrimSpace(rec[codeIdx]),
			Name: strings.TrimSpace(rec[nameIdx]),
		}
		if ind.Code == "" {
			continue
		}
		if hasTopic {
			ind.Topic = strings.TrimSpace(rec[topicIdx])
		}
		list = append(list, ind)
	}
	return dataset.NewIndicatorCatalog(list)
}

func loadCountries(path string) (*dataset.CountryCatalog, error) {
	f, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	codeIdx, err := f.mustCol(colCountryCode)
	if err != nil {
		return nil, err
	}
	var nameIdx []int
	for _, v := range countryNameCols {
		if i, ok := f.col(v); ok {
			nameIdx = append(nameIdx, i)
		}
	}
	regionIdx, hasRegion := f.col(colRegion)

	list := make([]dataset.Country, 0, len(f.records))
	for _, rec := range f.records {
		c := dataset.Country{Code: strings.TrimSpace(rec[codeIdx])}
		if c.Code == "" {
			continue
		}
		for _, i := range nameIdx {
			if name := strings.TrimSpace(rec[i]); name != "" {
				c.Name = name
				break
			}
		}
		if hasRegion {
			c.Region = strings.TrimSpace(rec[regionIdx])
		}
		list = append(list, c)
	}
	return dataset.NewCountryCatalog(list), nil
}

func loadObservations(path string) (*dataset.Table, error) {
	f, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	nameIdx, err := f.mustCol(colCountryName)
	if err != nil {
		return nil, err
	}
	codeIdx, err := f.mustCol(colCountryCode)
	if err != nil {
		return nil, err
	}
	yearIdx, err := f.mustCol(colYear)
	if err != nil {
		return nil, err
	}

	var cols []string
	var colIdx []int
	for i, v := range f.header {
		if v == "" || i == nameIdx || i == codeIdx || i == yearIdx {
			continue
		}
		cols = append(cols, v)
		colIdx = append(colIdx, i)
	}

	keys := make([]dataset.Key, len(f.records))
	vals := make([][]float64, len(f.records))
	for r, rec := range f.records {
		line := r + 2
		year, err := parseYear(rec[yearIdx])
		if err != nil {
			return nil, YearError(path, line, rec[yearIdx])
		}
		keys[r] = dataset.Key{
			CountryName: strings.TrimSpace(rec[nameIdx]),
			CountryCode: strings.TrimSpace(rec[codeIdx]),
			Year:        year,
		}

		row := make([]float64, len(colIdx))
		for k, i := range colIdx {
			v, err := parseValue(rec[i])
			if err != nil {
				return nil, ValueError(path, line, cols[k], rec[i])
			}
			row[k] = v
		}
		vals[r] = row
	}

	return dataset.NewTable(keys, cols, vals)
}

// parseYear accepts integer years, also written as floats ("2001.0").
func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// parseValue returns NaN for missing tokens.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if _, ok := missingTokens[s]; ok {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
