package ioload

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dataCSV = "\ufeffCountry Name,Country Code,Year,NY.GDP.MKTP.KD.ZG,SP.POP.TOTL,\n" +
		"Brazil,BRA,2000,4.39,174790340,\n" +
		"Brazil,BRA,2001.0,1.39,..,\n" +
		"World,WLD,2000,,6148898975,\n" +
		"\"Korea, Rep.\",KOR,2000,NA,47008111,\n"
	countriesCSV = "Country Code,Short Name,Table Name,Region\n" +
		"BRA,Brazil,Brazil,Latin America & Caribbean\n" +
		"WLD,World,,\n" +
		"KOR,Korea,\"Korea, Rep.\",East Asia & Pacific\n"
	seriesCSV = "Series Code,Topic,Indicator Name\n" +
		"NY.GDP.MKTP.KD.ZG,Economic Policy & Debt: National accounts: Growth rates,GDP growth (annual %)\n" +
		"SP.POP.TOTL,Health: Population: Structure,\"Population, total\"\n"
)

func writeInputs(t *testing.T, data, countries, series string) *config.Config {
	dir := t.TempDir()
	files := map[string]string{
		"WDItratado.csv": data,
		"WDICountry.csv": countries,
		"WDISeries.csv":  series,
	}
	for k, v := range files {
		err := os.WriteFile(filepath.Join(dir, k), []byte(v), 0644)
		require.NoError(t, err)
	}

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptInputDataPath(filepath.Join(dir, "WDItratado.csv")),
		config.OptInputCountriesPath(filepath.Join(dir, "WDICountry.csv")),
		config.OptInputIndicatorsPath(filepath.Join(dir, "WDISeries.csv")),
	})
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := writeInputs(t, dataCSV, countriesCSV, seriesCSV)
	ds, err := New(cfg).Load(context.Background())
	require.NoError(t, err)

	tbl := ds.Table
	assert.Equal(t, 4, tbl.Rows())
	assert.Equal(t, []string{"NY.GDP.MKTP.KD.ZG", "SP.POP.TOTL"}, tbl.Columns())

	k := tbl.Key(0)
	assert.Equal(t, "Brazil", k.CountryName)
	assert.Equal(t, "BRA", k.CountryCode)
	assert.Equal(t, 2000, k.Year)
	assert.Equal(t, 2001, tbl.Key(1).Year)
	assert.Equal(t, "Korea, Rep.", tbl.Key(3).CountryName)

	assert.Equal(t, 4.39, tbl.Value(0, 0))
	assert.True(t, math.IsNaN(tbl.Value(1, 1)), "'..' is missing")
	assert.True(t, math.IsNaN(tbl.Value(2, 0)), "empty is missing")
	assert.True(t, math.IsNaN(tbl.Value(3, 0)), "NA is missing")

	code, err := ds.TargetCode("GDP growth (annual %)")
	require.NoError(t, err)
	assert.Equal(t, "NY.GDP.MKTP.KD.ZG", code)
	require.NoError(t, ds.Validate(code))

	ind, ok := ds.Indicators.Get("SP.POP.TOTL")
	require.True(t, ok)
	assert.Equal(t, "Population, total", ind.Name)
	assert.Equal(t, "Health: Population: Structure", ind.Topic)

	wld, ok := ds.Countries.Get("WLD")
	require.True(t, ok)
	assert.True(t, wld.IsAggregate())
	assert.Equal(t, "World", wld.Name)
	kor, _ := ds.Countries.Get("KOR")
	assert.Equal(t, "Korea, Rep.", kor.Name)
	assert.Equal(t, "East Asia & Pacific", kor.Region)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		msg       string
		data      string
		countries string
		series    string
		code      gn.ErrorCode
	}{
		{
			msg:       "no year column",
			data:      "Country Name,Country Code,X\nA,AAA,1\n",
			countries: countriesCSV,
			series:    seriesCSV,
			code:      errcode.InputHeaderError,
		},
		{
			msg:       "bad year",
			data:      "Country Name,Country Code,Year,X\nA,AAA,20x0,1\n",
			countries: countriesCSV,
			series:    seriesCSV,
			code:      errcode.InputYearError,
		},
		{
			msg:       "bad value",
			data:      "Country Name,Country Code,Year,X\nA,AAA,2000,abc\n",
			countries: countriesCSV,
			series:    seriesCSV,
			code:      errcode.InputValueError,
		},
		{
			msg:       "ragged row",
			data:      "Country Name,Country Code,Year,X\nA,AAA,2000\n",
			countries: countriesCSV,
			series:    seriesCSV,
			code:      errcode.InputRowError,
		},
		{
			msg:       "duplicate key",
			data:      "Country Name,Country Code,Year,X\nA,AAA,2000,1\nA,AAA,2000,2\n",
			countries: countriesCSV,
			series:    seriesCSV,
			code:      errcode.InputDuplicateKeyError,
		},
		{
			msg:       "series without names",
			data:      dataCSV,
			countries: countriesCSV,
			series:    "Series Code,Topic\nX,T\n",
			code:      errcode.InputHeaderError,
		},
		{
			msg:       "countries without codes",
			data:      dataCSV,
			countries: "Code,Region\nBRA,X\n",
			series:    seriesCSV,
			code:      errcode.InputHeaderError,
		},
	}

	for _, v := range tests {
		cfg := writeInputs(t, v.data, v.countries, v.series)
		_, err := New(cfg).Load(context.Background())
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Equal(t, errcode.InputKind, errcode.KindOf(gnErr.Code), v.msg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptInputIndicatorsPath(filepath.Join(t.TempDir(), "none.csv")),
	})
	_, err := New(cfg).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errcode.ReadFileError, err.(*gn.Error).Code)
}

func TestParseValue(t *testing.T) {
	for _, v := range []string{"", " ", "NA", "N/A", "NaN", "nan", "NULL", "null", "#N/A", ".."} {
		f, err := parseValue(v)
		require.NoError(t, err, v)
		assert.True(t, math.IsNaN(f), v)
	}

	f, err := parseValue(" -1.5e3 ")
	require.NoError(t, err)
	assert.Equal(t, -1500.0, f)

	_, err = parseValue("1e400")
	assert.Error(t, err)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in  string
		res int
		ok  bool
	}{
		{"2000", 2000, true},
		{" 1999 ", 1999, true},
		{"2001.0", 2001, true},
		{"2001.5", 0, false},
		{"", 0, false},
	}
	for _, v := range tests {
		y, err := parseYear(v.in)
		if !v.ok {
			assert.Error(t, err, v.in)
			continue
		}
		require.NoError(t, err, v.in)
		assert.Equal(t, v.res, y, v.in)
	}
}
