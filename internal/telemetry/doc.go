// Package telemetry provides OpenTelemetry initialization and helpers
// for distributed tracing across the Marcel recipe service.
//
// The package configures OTLP HTTP export for traces and logs against
// any OTLP-compatible collector endpoint.
package telemetry
