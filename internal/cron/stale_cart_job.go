package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

const defaultStaleCartAge = 30 * 24 * time.Hour

// cartPruner deletes cart rows untouched since the cutoff.
type cartPruner interface {
	DeleteUntouchedSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type StaleCartJobParams struct {
	Logger     *logger.Logger
	Repository cartPruner
	MaxAge     time.Duration
}

func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultStaleCartAge
	}
	return &staleCartJob{
		logg:   params.Logger,
		repo:   params.Repository,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

type staleCartJob struct {
	logg   *logger.Logger
	repo   cartPruner
	maxAge time.Duration
	now    func() time.Time
}

func (j *staleCartJob) Name() string { return "stale-cart-prune" }

func (j *staleCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	deleted, err := j.repo.DeleteUntouchedSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stale cart prune: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"max_age":      j.maxAge.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "stale cart prune complete")
	return nil
}
