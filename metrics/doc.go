// Package metrics provides Prometheus instrumentation for the conversation engine.
//
// The Collector bundles the counters and gauges the engine maintains:
//
//   - conversations created and archived (by protocol and archival reason)
//   - messages delivered (by protocol and outcome) with delivery latency
//   - state transitions (by protocol, from state and to state)
//   - active and archived conversation gauges
//
// A nil *Collector is valid and records nothing, so callers can leave
// instrumentation disabled without guarding every call site.
//
// Usage:
//
//	collector := metrics.NewCollector("parley", prometheus.DefaultRegisterer)
//	mgr := engine.New(engine.WithMetrics(collector))
package metrics
