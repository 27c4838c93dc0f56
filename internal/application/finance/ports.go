// Package finance orquesta el núcleo financiero: lee documentos del tenant, calcula
// agregados, KPIs, comparaciones y segmentación, y cachea el dashboard.
package finance

import "context"

// Cache caché versionada por tenant (implementación en infrastructure/cache).
type Cache interface {
	BuildKey(ctx context.Context, companyID string, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	Bump(ctx context.Context, companyID string) error
}

// Invalidator se notifica tras cada escritura que cambia datos financieros del tenant.
type Invalidator interface {
	Invalidate(ctx context.Context, companyID string) error
}

// NopInvalidator no hace nada; para tests y despliegues sin Redis.
type NopInvalidator struct{}

// Invalidate implementa Invalidator.
func (NopInvalidator) Invalidate(context.Context, string) error { return nil }
