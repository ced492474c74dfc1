// Package kpi computes the nine cohort indicators over the gold summary
// tables. Every indicator returns a {value, meta} envelope; data
// insufficiency (too few observations, zero variance, unbuildable quantile
// cuts) is reported as a null value with the reason in the meta, never as an
// error. Errors are reserved for store failures and unknown indicator ids.
package kpi
