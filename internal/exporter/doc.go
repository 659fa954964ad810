// Package exporter writes the aggregated material table.
//
// XLSXWriter writes a single "Aggregated Data" sheet whose header row is
// plain text aligned left and bottom. CSVWriter writes UTF-8 with a BOM so
// spreadsheet tools recognize the encoding. Writer picks one of them from
// the configured output format and replaces the target file atomically.
//
// Example usage:
//
//	w, err := exporter.NewWriter(cfg.Output, paths.OutputFile, logger)
//	if err != nil {
//		return err
//	}
//	path, err := w.Write(ctx, result)
package exporter
