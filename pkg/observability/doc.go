/*
Package observability provides monitoring for the MoonRobot controller.

Metrics are fed from domain.LifecycleHooks, so the controller itself stays
unaware of Prometheus.
*/
package observability
