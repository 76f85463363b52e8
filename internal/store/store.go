package store

import (
	"context"

	"github.com/Cxsmxnaut/Gradely/internal/model"
)

// GradeStore is the cache/settings persistence contract. Absent cached
// grades surface as pkg/errors.ErrNoCache, never as fabricated data.
type GradeStore interface {
	GetCachedGrades(ctx context.Context, userID string) (model.CachedGrades, error)
	PutCachedGrades(ctx context.Context, cached model.CachedGrades) error
	DeleteCachedGrades(ctx context.Context, userID string) error

	GetSettings(ctx context.Context) (model.GPASettings, error)
	PutSettings(ctx context.Context, settings model.GPASettings) error
}
