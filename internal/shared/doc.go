// Package shared holds helpers used by more than one package.
//
// testutil provides a log-capturing slog handler and builders for source
// fixtures (workbooks, CSV files and in-memory source tables) so loader,
// pipeline and command tests describe their inputs the same way.
package shared
