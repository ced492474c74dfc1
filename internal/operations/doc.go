// Package operations orchestrates the ingestion pipeline: it sequences the
// data-processing stages, derives the gold tables, persists the results, and
// publishes progress to a Listener. The Tracker listener backs the HTTP
// status endpoint and serializes runs.
package operations
