package memstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/2beens/portfolio/internal/odm"
)

type filter struct {
	equals       []odm.Cond
	contains     []odm.Cond
	searchTerm   string
	searchFields []string
}

// normalizeFilter converts condition values to their JSON form, so they
// compare equal to the stored documents.
func normalizeFilter(f *odm.Filter) (*filter, error) {
	if f.IsEmpty() {
		return &filter{}, nil
	}

	nf := &filter{
		searchTerm:   strings.ToLower(f.SearchTerm),
		searchFields: f.SearchFields,
	}
	for _, c := range f.Equals {
		v, err := jsonValue(c.Value)
		if err != nil {
			return nil, err
		}
		nf.equals = append(nf.equals, odm.Cond{Field: c.Field, Value: v})
	}
	for _, c := range f.Contains {
		v, err := jsonValue(c.Value)
		if err != nil {
			return nil, err
		}
		nf.contains = append(nf.contains, odm.Cond{Field: c.Field, Value: v})
	}
	return nf, nil
}

func jsonValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal filter value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("unmarshal filter value: %w", err)
	}
	return out, nil
}

func (f *filter) matches(m map[string]any) bool {
	for _, c := range f.equals {
		if !reflect.DeepEqual(m[c.Field], c.Value) {
			return false
		}
	}

	for _, c := range f.contains {
		arr, ok := m[c.Field].([]any)
		if !ok {
			return false
		}
		found := false
		for _, el := range arr {
			if reflect.DeepEqual(el, c.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.searchTerm != "" {
		found := false
		for _, field := range f.searchFields {
			s, ok := m[field].(string)
			if ok && strings.Contains(strings.ToLower(s), f.searchTerm) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// less compares by the sort fields in order. Missing values sort last.
func less(a, b map[string]any, sortFields []odm.SortField) bool {
	for _, sf := range sortFields {
		va, vb := a[sf.Field], b[sf.Field]
		if va == nil && vb == nil {
			continue
		}
		if va == nil {
			return false
		}
		if vb == nil {
			return true
		}

		cmp := compare(va, vb)
		if cmp == 0 {
			continue
		}
		if sf.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case string:
		bv, _ := b.(string)
		ta, errA := time.Parse(time.RFC3339Nano, av)
		tb, errB := time.Parse(time.RFC3339Nano, bv)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
		return strings.Compare(av, bv)
	}
	return 0
}
