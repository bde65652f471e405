package out

import (
	"context"

	"mindfocus/internal/modules/analytics/domain"
)

type SessionIndex interface {
	List(ctx context.Context) ([]domain.Record, error)
	FindByPrefix(ctx context.Context, prefix string) ([]domain.Record, error)
}

// NoteReader returns a session note body without its frontmatter.
type NoteReader interface {
	Read(ctx context.Context, path string) (string, error)
}
