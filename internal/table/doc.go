// Package table holds the in-memory tabular model shared by every stage of
// the aggregation: tagged scalar values, name-addressed records, ordered
// tables and composite keys.
//
// Tables are treated as immutable by the stages that consume them. Every
// transformation returns a new *Table and leaves its input untouched.
package table
