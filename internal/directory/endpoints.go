package directory

import (
	"fmt"
	"net/url"
	"strings"
)

// Style is the URL convention of a directory service.
type Style string

const (
	StylePath  Style = "path"
	StyleQuery Style = "query"
)

// ParseStyle parses a style name. Empty means StylePath.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StylePath:
		return StylePath, nil
	case StyleQuery:
		return StyleQuery, nil
	}
	return "", fmt.Errorf("invalid style %q: must be %q or %q", s, StylePath, StyleQuery)
}

// Endpoints builds list URLs for a base URL and style.
type Endpoints struct {
	Base  string
	Style Style
}

// NewEndpoints validates base and style.
func NewEndpoints(base, style string) (Endpoints, error) {
	st, err := ParseStyle(style)
	if err != nil {
		return Endpoints{}, err
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Endpoints{}, fmt.Errorf("invalid base URL %q", base)
	}
	return Endpoints{Base: strings.TrimRight(base, "/"), Style: st}, nil
}

// Countries returns the URL listing all countries.
func (e Endpoints) Countries() string {
	return e.Base + "/countries"
}

// States returns the URL listing the states of country.
func (e Endpoints) States(country string) string {
	if e.Style == StyleQuery {
		return e.Base + "/states?" + url.Values{"country": {country}}.Encode()
	}
	return e.Base + "/country=" + url.PathEscape(country) + "/states"
}

// Cities returns the URL listing the cities of state in country.
func (e Endpoints) Cities(country, state string) string {
	if e.Style == StyleQuery {
		return e.Base + "/cities?" + url.Values{"country": {country}, "state": {state}}.Encode()
	}
	return e.Base + "/country=" + url.PathEscape(country) + "/state=" + url.PathEscape(state) + "/cities"
}
