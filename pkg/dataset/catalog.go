package dataset

import (
	"regexp"
	"slices"
	"strings"
)

// Indicator describes one measured variable.
type Indicator struct {
	Code  string
	Name  string
	Topic string
}

// IndicatorCatalog maps indicator codes to their metadata, keeping the
// order of ingestion.
type IndicatorCatalog struct {
	list []Indicator
	idx  map[string]int
}

// NewIndicatorCatalog creates a catalog. Codes must be unique.
func NewIndicatorCatalog(list []Indicator) (*IndicatorCatalog, error) {
	res := &IndicatorCatalog{
		list: make([]Indicator, 0, len(list)),
		idx:  make(map[string]int, len(list)),
	}
	for _, v := range list {
		if _, ok := res.idx[v.Code]; ok {
			return nil, DuplicateIndicatorError(v.Code)
		}
		res.idx[v.Code] = len(res.list)
		res.list = append(res.list, v)
	}
	return res, nil
}

// Len returns the number of indicators.
func (c *IndicatorCatalog) Len() int {
	return len(c.list)
}

// Get returns an indicator by its code.
func (c *IndicatorCatalog) Get(code string) (Indicator, bool) {
	i, ok := c.idx[code]
	if !ok {
		return Indicator{}, false
	}
	return c.list[i], true
}

// Name returns the name of an indicator, or its code if the code is not
// in the catalog.
func (c *IndicatorCatalog) Name(code string) string {
	if ind, ok := c.Get(code); ok {
		return ind.Name
	}
	return code
}

// All returns indicators in order of ingestion.
func (c *IndicatorCatalog) All() []Indicator {
	return slices.Clone(c.list)
}

// ResolveTarget finds the code of an indicator by its exact name.
// Exactly one indicator has to match.
func (c *IndicatorCatalog) ResolveTarget(name string) (string, error) {
	var codes []string
	for _, v := range c.list {
		if v.Name == name {
			codes = append(codes, v.Code)
		}
	}
	switch len(codes) {
	case 0:
		return "", TargetNotFoundError(name)
	case 1:
		return codes[0], nil
	default:
		return "", TargetAmbiguousError(name, codes)
	}
}

// Matching returns codes of the given indicators with names matched by
// re, in the order of codes.
func (c *IndicatorCatalog) Matching(re *regexp.Regexp, codes []string) []string {
	var res []string
	for _, v := range codes {
		if re.MatchString(c.Name(v)) {
			res = append(res, v)
		}
	}
	return res
}

// SortedByTopic returns indicators sorted by topic, then by code.
func (c *IndicatorCatalog) SortedByTopic() []Indicator {
	res := c.All()
	slices.SortStableFunc(res, func(a, b Indicator) int {
		if n := strings.Compare(a.Topic, b.Topic); n != 0 {
			return n
		}
		return strings.Compare(a.Code, b.Code)
	})
	return res
}

// Subset returns indicators of given codes sorted by code. Unknown codes
// get an entry with an empty name.
func (c *IndicatorCatalog) Subset(codes []string) []Indicator {
	res := make([]Indicator, len(codes))
	for i, v := range codes {
		ind, ok := c.Get(v)
		if !ok {
			ind = Indicator{Code: v}
		}
		res[i] = ind
	}
	slices.SortStableFunc(res, func(a, b Indicator) int {
		return strings.Compare(a.Code, b.Code)
	})
	return res
}

// Country describes a country or an aggregate of countries.
type Country struct {
	Code   string
	Name   string
	Region string
}

// IsAggregate is true for regions, income groups and the World. They
// have no region of their own.
func (c Country) IsAggregate() bool {
	return c.Region == ""
}

// CountryCatalog maps country codes to their metadata.
type CountryCatalog struct {
	list []Country
	idx  map[string]int
}

// NewCountryCatalog creates a catalog. For repeated codes the first
// entry wins.
func NewCountryCatalog(list []Country) *CountryCatalog {
	res := &CountryCatalog{
		list: make([]Country, 0, len(list)),
		idx:  make(map[string]int, len(list)),
	}
	for _, v := range list {
		if _, ok := res.idx[v.Code]; ok {
			continue
		}
		res.idx[v.Code] = len(res.list)
		res.list = append(res.list, v)
	}
	return res
}

// Len returns the number of countries.
func (c *CountryCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.list)
}

// Get returns a country by its code.
func (c *CountryCatalog) Get(code string) (Country, bool) {
	if c == nil {
		return Country{}, false
	}
	i, ok := c.idx[code]
	if !ok {
		return Country{}, false
	}
	return c.list[i], true
}

// Region returns the region of a country. Unknown countries and
// aggregates have an empty region.
func (c *CountryCatalog) Region(code string) string {
	cn, _ := c.Get(code)
	return cn.Region
}

// All returns countries in order of ingestion.
func (c *CountryCatalog) All() []Country {
	if c == nil {
		return nil
	}
	return slices.Clone(c.list)
}
