// Package http implements the HTTP handlers of the service. Handlers stay
// thin: they parse and validate the request, delegate to the pipeline or
// the KPI engine, and render JSON responses with chi/render. Structured
// API errors come from the internal errors package.
package http
