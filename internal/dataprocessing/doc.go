// Package dataprocessing implements the row-level stages of the academic
// records pipeline: loading the raw cell grid, removing remedial courses,
// classifying rows by admission-test group, and resolving student identities
// from composite score keys.
//
// The stages are pure functions over in-memory row slices. Each stage fully
// materializes its output before the next stage starts and returns a summary
// for progress reporting; none of them touch storage.
package dataprocessing
