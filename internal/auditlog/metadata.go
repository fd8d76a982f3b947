package auditlog

import (
	"context"

	"gridcentric/canaryctl/internal/canary/domain"
)

// Target types recorded in audit entries.
const (
	TargetHost     = "host"
	TargetInstance = "instance"
)

// Metadata describes what an invocation addressed. Commands attach it to
// their context; the root command reads it back when writing the entry.
type Metadata struct {
	Endpoint   string
	APIVersion string
	TargetType string
	TargetID   string
	Metric     string
}

// TargetMetadata returns metadata describing target.
func TargetMetadata(target domain.Target) Metadata {
	if target.IsZero() {
		return Metadata{}
	}
	kind := TargetHost
	if _, ok := target.Instance(); ok {
		kind = TargetInstance
	}
	return Metadata{TargetType: kind, TargetID: target.ID()}
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Non-empty fields of meta
// override those already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Endpoint:   pick(meta.Endpoint, existing.Endpoint),
		APIVersion: pick(meta.APIVersion, existing.APIVersion),
		TargetType: pick(meta.TargetType, existing.TargetType),
		TargetID:   pick(meta.TargetID, existing.TargetID),
		Metric:     pick(meta.Metric, existing.Metric),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
