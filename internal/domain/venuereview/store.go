package venuereviews

import (
	"context"
	"errors"
	"fmt"

	"habitat/internal/infra/dbx"
	"habitat/internal/sentiment"

	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	ListByVenue(ctx context.Context, venueID int64) ([]Review, error)
	Ratings(ctx context.Context, venueID int64) ([]int, error)
	StatsForVenues(ctx context.Context, venueIDs []int64) ([]Stat, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (user_id, venue_id, description, rating, sentiment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		review.UserID,
		review.VenueID,
		review.Description,
		review.Rating,
		string(review.Sentiment),
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == "reviews_venue_id_fkey" {
			return ErrInvalidVenue
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ListByVenue returns a venue's reviews with their author names, newest first.
func (r *Repository) ListByVenue(ctx context.Context, venueID int64) ([]Review, error) {
	query := `
        SELECT rv.id, rv.venue_id, rv.user_id, rv.description, rv.rating, rv.sentiment,
               rv.created_at, u.name
        FROM reviews rv
        JOIN users u ON u.id = rv.user_id
        WHERE rv.venue_id = $1
        ORDER BY rv.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var (
			review Review
			label  string
		)
		err := rows.Scan(
			&review.ID,
			&review.VenueID,
			&review.UserID,
			&review.Description,
			&review.Rating,
			&label,
			&review.CreatedAt,
			&review.UserName,
		)
		if err != nil {
			return nil, err
		}
		review.Sentiment = sentiment.Label(label)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *Repository) Ratings(ctx context.Context, venueID int64) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT rating FROM reviews WHERE venue_id = $1`, venueID)
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// StatsForVenues fetches rating and label of every review for the given venues in one query.
func (r *Repository) StatsForVenues(ctx context.Context, venueIDs []int64) ([]Stat, error) {
	if len(venueIDs) == 0 {
		return nil, nil
	}

	query := `SELECT venue_id, rating, sentiment FROM reviews WHERE venue_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, venueIDs)
	if err != nil {
		return nil, fmt.Errorf("read review stats: %w", err)
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var (
			s     Stat
			label string
		)
		if err := rows.Scan(&s.VenueID, &s.Rating, &label); err != nil {
			return nil, err
		}
		s.Sentiment = sentiment.Label(label)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
