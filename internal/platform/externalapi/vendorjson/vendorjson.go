// Package vendorjson holds the decoding helpers shared by the market-data vendor adapters:
// JSONPath selection, JSON blobs embedded in HTML pages and loosely typed scalars.
package vendorjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	platformhttp "portfolio_backend/internal/platform/http"
)

// ErrMissing is returned by Select when the path resolves to nothing.
var ErrMissing = errors.New("no value at path")

// Body returns the payload of a 2xx response, or an error naming source otherwise.
func Body(source string, res *platformhttp.Response) ([]byte, error) {
	if !res.OK() {
		return nil, fmt.Errorf("%s http %d", strings.ToLower(source), res.StatusCode)
	}
	return res.Body, nil
}

// Select evaluates the JSONPath expression path against body and decodes the match into out.
func Select(body []byte, path string, out any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if v == nil {
		return fmt.Errorf("%s: %w", path, ErrMissing)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Embedded returns the JSON literal captured by the first group of re in page.
func Embedded(page []byte, re *regexp.Regexp) ([]byte, error) {
	m := re.FindSubmatch(page)
	if m == nil || len(m) < 2 {
		return nil, fmt.Errorf("pattern %s not found", re.String())
	}
	return bytes.TrimSpace(m[1]), nil
}

// Text is a scalar that vendors publish as a string, a number or null.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("vendorjson: expected scalar, got %s", b[:1])
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }
