package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when a listing asks for an offset
	// without a limit.
	DefaultLimit = 10
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs. Limit zero means "no limit" unless
// an offset is present.
type Params struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Normalize applies the default limit when only an offset was supplied and
// caps oversized limits.
func (p Params) Normalize() Params {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Offset > 0 && p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Parse reads limit/offset query values. Blank values are treated as absent.
func Parse(rawLimit, rawOffset string) (Params, error) {
	var p Params
	var err error
	if p.Limit, err = parseNonNegative("limit", rawLimit); err != nil {
		return Params{}, err
	}
	if p.Offset, err = parseNonNegative("offset", rawOffset); err != nil {
		return Params{}, err
	}
	return p.Normalize(), nil
}

func parseNonNegative(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}
