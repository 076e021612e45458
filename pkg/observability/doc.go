/*
Package observability exposes table lifecycle metrics to Prometheus.

Metrics.Hooks returns lifecycle hooks that count accepted and rejected operations, track
seated players per table and record how long the current timeline has grown. Attach them
to engines with blackjack.WithLifecycleHooks and serve Metrics.Handler at /metrics.
*/
package observability
