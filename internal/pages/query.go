package pages

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tinytelemetry/admindash/internal/filter"
)

// Range bounds travel as "<Field>.min" and "<Field>.max".
const (
	minSuffix = ".min"
	maxSuffix = ".max"
)

// StateFromValues reads a page's filter state from query parameters. Names
// the page does not know are ignored.
func StateFromValues(p Page, v url.Values) filter.State {
	st := p.Defaults()
	for _, f := range p.Fields() {
		switch f.Kind {
		case filter.KindChoice:
			if s := v.Get(f.Name); s != "" {
				st[f.Name] = filter.Value{Selection: s}
			}
		case filter.KindSearch:
			st[f.Name] = filter.Value{Term: v.Get(f.Name)}
		case filter.KindRange:
			st[f.Name] = filter.Value{Min: v.Get(f.Name + minSuffix), Max: v.Get(f.Name + maxSuffix)}
		}
	}
	return st
}

// ParseAssignments reads "Field=value" pairs as given on the command line.
// Unlike StateFromValues it rejects unknown names.
func ParseAssignments(p Page, pairs []string) (filter.State, error) {
	known := map[string]bool{}
	for _, f := range p.Fields() {
		if f.Kind == filter.KindRange {
			known[f.Name+minSuffix] = true
			known[f.Name+maxSuffix] = true
			continue
		}
		known[f.Name] = true
	}

	v := url.Values{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q: want Field=value", pair)
		}
		name = strings.TrimSpace(name)
		if !known[name] {
			return nil, fmt.Errorf("filter %q: %s has no field %q", pair, p.ID(), name)
		}
		v.Set(name, value)
	}
	return StateFromValues(p, v), nil
}
