// Package http serves the read-only status endpoints of a running sweep:
// liveness on /healthz, a JSON progress snapshot on /status and Prometheus
// metrics on /metrics.
package http
