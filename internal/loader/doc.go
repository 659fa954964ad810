// Package loader reads the six material source files into tables.
//
// Workbooks are read from their first sheet with the first row as the
// header; CSV files are read as UTF-8 with an optional byte order mark.
// Every non-empty cell becomes a string value and every empty cell a
// missing value. Files are read concurrently and each table is normalized
// before it is handed to the aggregation core.
package loader
