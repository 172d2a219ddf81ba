package listutil

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// NormalizeDir maps anything other than Desc to Asc.
func NormalizeDir(dir string) string {
	if dir == Desc {
		return Desc
	}
	return Asc
}

// Comparer orders sort keys. Strings are compared with a locale collator.
// A Comparer is not safe for concurrent use; the collator keeps internal buffers.
type Comparer struct {
	col *collate.Collator
}

// NewComparer returns a Comparer collating strings for the given language.
func NewComparer(tag language.Tag) *Comparer {
	return &Comparer{col: collate.New(tag)}
}

// Compare orders two sort keys for direction dir.
// nil keys (including nil pointers) sort after every non-nil key in both directions.
// Numbers compare by the sign of their difference, strings by collation,
// times chronologically. Keys of unrelated types fall back to their printed form.
// POST: result is negative, zero or positive
func (c *Comparer) Compare(a, b any, dir string) int {
	a, b = deref(a), deref(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	r := c.compareValues(a, b)
	if dir == Desc {
		return -r
	}
	return r
}

func (c *Comparer) compareValues(a, b any) int {
	if da, ok := a.(decimal.Decimal); ok {
		if db, ok := b.(decimal.Decimal); ok {
			return da.Cmp(db)
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return sign(fa - fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return c.col.CompareString(sa, sb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return cmp.Compare(boolRank(ba), boolRank(bb))
		}
	}
	return c.col.CompareString(fmt.Sprint(a), fmt.Sprint(b))
}

// Compare orders two sort keys with an English collator.
// See Comparer.Compare for the ordering rules.
func Compare(a, b any, dir string) int {
	return NewComparer(language.English).Compare(a, b, dir)
}

// SortBy returns a sorted copy of items ordered by the key extracted from each item.
// The input slice is left untouched. Items whose key is nil come last in both directions.
// PRE: key is non-nil
// POST: len(result) == len(items)
func SortBy[T any](items []T, key func(T) any, dir string) []T {
	if len(items) < 2 {
		return slices.Clone(items)
	}
	c := NewComparer(language.English)
	keys := make([]any, len(items))
	idx := make([]int, len(items))
	for i, item := range items {
		idx[i] = i
		keys[i] = key(item)
	}
	slices.SortStableFunc(idx, func(x, y int) int {
		return c.Compare(keys[x], keys[y], dir)
	})
	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	return sorted
}

// deref unwraps pointers so a nil *string counts as a missing key.
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
