// Package metric provides Prometheus metrics for sessionvault.
//
// It tracks capability probe outcomes, storage operations by mode and result,
// demotions, legacy migrations, and orphan cleanups. The vault accepts a nil
// *Metrics, so embedding applications that do not scrape metrics pay nothing.
package metric
