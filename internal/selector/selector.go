// Package selector reduces a one-to-many relationship to a single primary
// record per group.
package selector

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"matagg/internal/table"
)

// ErrNonNumericTieBreak is returned when a present tie-break value cannot
// be read as a number.
var ErrNonNumericTieBreak = errors.New("tie-break value is not numeric")

// decimalPattern accepts plain decimal numbers with an optional exponent.
// big.Rat alone would also take hex, fractions and digit separators.
var decimalPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// Select returns one record per distinct value of groupCol: the record with
// the numerically smallest tieCol. When several records share the smallest
// value the first one in row order wins. Missing or blank tie-break values
// rank after every present value, and rows whose group value is missing are
// dropped. Groups appear in the order they are first seen.
//
// A nil or empty input yields an empty table with the input's columns.
func Select(t *table.Table, groupCol, tieCol string) (*table.Table, error) {
	if t.Empty() {
		if t == nil {
			return table.New(), nil
		}
		return table.New(t.Columns...), nil
	}

	type candidate struct {
		rec table.Record
		tie *big.Rat
	}
	best := make(map[string]*candidate)
	var order []string

	for i, rec := range t.Rows {
		group := rec.Get(groupCol)
		if group.IsMissing() {
			continue
		}
		tie, err := numeric(rec.Get(tieCol))
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", i, tieCol, err)
		}
		key := table.Encode([]table.Value{group})
		cur, seen := best[key]
		if !seen {
			best[key] = &candidate{rec: rec, tie: tie}
			order = append(order, key)
			continue
		}
		if less(tie, cur.tie) {
			cur.rec, cur.tie = rec, tie
		}
	}

	out := table.New(t.Columns...)
	for _, key := range order {
		out.Append(best[key].rec.Clone())
	}
	return out, nil
}

// less orders present values numerically with missing (nil) last. Equal
// values are not less, which keeps the earlier row.
func less(a, b *big.Rat) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Cmp(b) < 0
	}
}

// numeric parses v exactly so long identifiers compare without float
// rounding.
func numeric(v table.Value) (*big.Rat, error) {
	if v.IsMissing() {
		return nil, nil
	}
	if f, ok := v.Num(); ok {
		r := new(big.Rat)
		if r.SetFloat64(f) == nil {
			return nil, fmt.Errorf("%w: %v", ErrNonNumericTieBreak, f)
		}
		return r, nil
	}
	s, _ := v.Str()
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !decimalPattern.MatchString(s) {
		return nil, fmt.Errorf("%w: %q", ErrNonNumericTieBreak, s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNonNumericTieBreak, s)
	}
	return r, nil
}
