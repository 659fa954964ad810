// Package pipeline runs one aggregation end to end: load the sources,
// check their grains, enrich the storage table, project the output
// columns, validate the final grain and write the report.
//
// Nothing is written when a source fails to load or the final validation
// fails. Every failure is returned as an *errors.AppError.
package pipeline
