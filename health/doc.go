// Package health exposes provider availability to monitoring.
//
// It defines a small Checker abstraction, an Aggregator that fans checks
// out in parallel, HTTP handlers for liveness/readiness/detail endpoints,
// and a BreakerChecker adapting the resilience layer's availability
// snapshot into a health result dashboards can consume.
package health
