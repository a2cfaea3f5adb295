/*
Package observability turns navigator lifecycle hooks and video resolutions into
Prometheus metrics.

Metrics live on a private registry so tests and embedded servers do not collide
on the global one. Serve them with Metrics.Handler.
*/
package observability
