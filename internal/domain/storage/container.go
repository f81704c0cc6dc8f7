package storage

import (
	"context"
	"fmt"

	"habitat/internal/domain/users"
	venuereviews "habitat/internal/domain/venuereview"
	"habitat/internal/domain/venues"
	"habitat/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Container struct {
	pool    dbx.Pool // IMPORTANT: set the pool so WithReviewTx works
	Users   users.Store
	Venues  venues.Store
	Reviews venuereviews.Store
}

func NewContainer(db dbx.Pool) *Container {
	return &Container{
		pool:    db,
		Users:   users.NewRepository(db),
		Venues:  venues.NewRepository(db),
		Reviews: venuereviews.NewRepository(db),
	}
}

// ReviewTx is a tx-scoped set of repos for submitting a review and
// recomputing the venue rating atomically.
type ReviewTx struct {
	Venues  venues.Store
	Reviews venuereviews.Store
}

// WithReviewTx runs a review unit-of-work atomically.
func (c *Container) WithReviewTx(ctx context.Context, fn func(s *ReviewTx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil (did you forget to set pool in NewContainer?)")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	s := &ReviewTx{
		Venues:  venues.NewRepository(tx),
		Reviews: venuereviews.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
