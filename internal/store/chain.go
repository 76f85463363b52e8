package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

// Chain tries an ordered list of backends, first success wins. Reads
// fall through on backend failure but stop on an authoritative
// ErrNoCache from a healthy backend further up the chain only after
// every backend had its chance; writes go to every backend that will
// take them so the fallback stays warm. Both backends failing a read is
// a cold start, not a fatal error.
type Chain struct {
	backends []GradeStore
	log      zerolog.Logger
}

func NewChain(backends ...GradeStore) *Chain {
	return &Chain{
		backends: backends,
		log:      logger.With("store"),
	}
}

func (c *Chain) GetCachedGrades(ctx context.Context, userID string) (model.CachedGrades, error) {
	sawMiss := false
	for _, backend := range c.backends {
		cached, err := backend.GetCachedGrades(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if errors.Is(err, pkgerrors.ErrNoCache) {
			sawMiss = true
			continue
		}
		c.log.Warn().Err(err).Msg("Grade store read failed, trying next backend")
	}
	if sawMiss {
		return model.CachedGrades{}, pkgerrors.ErrNoCache
	}
	return model.CachedGrades{}, pkgerrors.ErrStoreUnavailable
}

func (c *Chain) PutCachedGrades(ctx context.Context, cached model.CachedGrades) error {
	var lastErr error
	wrote := false
	for _, backend := range c.backends {
		if err := backend.PutCachedGrades(ctx, cached); err != nil {
			c.log.Warn().Err(err).Msg("Grade store write failed")
			lastErr = err
			continue
		}
		wrote = true
	}
	if !wrote {
		return lastErr
	}
	return nil
}

func (c *Chain) DeleteCachedGrades(ctx context.Context, userID string) error {
	var lastErr error
	deleted := false
	for _, backend := range c.backends {
		if err := backend.DeleteCachedGrades(ctx, userID); err != nil {
			lastErr = err
			continue
		}
		deleted = true
	}
	if !deleted {
		return lastErr
	}
	return nil
}

func (c *Chain) GetSettings(ctx context.Context) (model.GPASettings, error) {
	var lastErr error
	for _, backend := range c.backends {
		settings, err := backend.GetSettings(ctx)
		if err == nil {
			return settings, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return model.DefaultGPASettings(), lastErr
	}
	return model.DefaultGPASettings(), nil
}

func (c *Chain) PutSettings(ctx context.Context, settings model.GPASettings) error {
	var lastErr error
	wrote := false
	for _, backend := range c.backends {
		if err := backend.PutSettings(ctx, settings); err != nil {
			lastErr = err
			continue
		}
		wrote = true
	}
	if !wrote {
		return lastErr
	}
	return nil
}
