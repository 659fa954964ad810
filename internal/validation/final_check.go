package validation

import (
	"context"
	"fmt"
	"log/slog"

	"matagg/internal/table"
)

// IssueCode names a class of final validation failure.
type IssueCode string

const (
	IssueEmptyResult     IssueCode = "empty_result"
	IssueMissingColumns  IssueCode = "missing_columns"
	IssueMissingGrainKey IssueCode = "missing_grain_key"
	IssueDuplicateGrain  IssueCode = "duplicate_grain"
)

// Issue is one human readable validation failure.
type Issue struct {
	Code    IssueCode
	Message string
	Rows    []int
}

func (i Issue) String() string { return i.Message }

// Result is the outcome of the final check.
type Result struct {
	Issues []Issue
}

// Passed reports whether no issue was found.
func (r Result) Passed() bool { return len(r.Issues) == 0 }

// Has reports whether an issue with code was found.
func (r Result) Has(code IssueCode) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// Messages returns the issue messages in order.
func (r Result) Messages() []string {
	out := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		out[i] = issue.Message
	}
	return out
}

// Final checks the projected report: it must have rows, declare every
// output column, have no missing value in a grain column and no repeated
// grain tuple. It collects every issue instead of stopping at the first.
func Final(t *table.Table, columns []string, grain table.Key) Result {
	var res Result

	if t.Empty() {
		res.Issues = append(res.Issues, Issue{
			Code:    IssueEmptyResult,
			Message: "Final result is empty",
		})
	}

	var absent []string
	for _, col := range columns {
		if !t.HasColumn(col) {
			absent = append(absent, col)
		}
	}
	if len(absent) > 0 {
		res.Issues = append(res.Issues, Issue{
			Code:    IssueMissingColumns,
			Message: fmt.Sprintf("Missing output columns: %s", formatColumns(absent)),
		})
	}

	if t.Empty() {
		return res
	}

	if rows := rowsWithMissing(t, grain); len(rows) > 0 {
		res.Issues = append(res.Issues, Issue{
			Code:    IssueMissingGrainKey,
			Message: fmt.Sprintf("%d rows have missing values in final grain keys %s", len(rows), formatKey(grain)),
			Rows:    rows,
		})
	}

	if groups := FindDuplicates(t, grain); len(groups) > 0 {
		var rows []int
		for _, g := range groups {
			rows = append(rows, g.Rows...)
		}
		res.Issues = append(res.Issues, Issue{
			Code:    IssueDuplicateGrain,
			Message: fmt.Sprintf("%d duplicate rows detected on final grain %s", len(rows), formatKey(grain)),
			Rows:    rows,
		})
	}

	return res
}

// CheckFinal runs Final and logs the outcome.
func (v *GrainValidator) CheckFinal(ctx context.Context, t *table.Table, columns []string, grain table.Key) Result {
	res := Final(t, columns, grain)
	if !res.Passed() {
		v.logger.ErrorContext(ctx, "Final validation failed",
			slog.Int("issue_count", len(res.Issues)),
			slog.Any("issues", res.Messages()))
		return res
	}
	v.logger.InfoContext(ctx, "Final validation passed",
		slog.Int("rows", t.Len()),
		slog.String("grain", formatKey(grain)))
	return res
}
