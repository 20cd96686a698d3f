// Package health provides HTTP handlers for service health probes.
//
//	r.Get("/health", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](log, svc.Ready))
//
// Checks follow the func(context.Context) error signature.
package health
