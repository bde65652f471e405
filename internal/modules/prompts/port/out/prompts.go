package out

import (
	"context"

	"mindfocus/internal/modules/prompts/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	FetchBank(ctx context.Context, manifest domain.Manifest, subject string) (domain.Bank, error)
}
