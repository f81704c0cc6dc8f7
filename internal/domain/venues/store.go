package venues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"habitat/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

const venueColumns = `
	id, name, owner_name, contact_no, type, description,
	street, pincode, latitude, longitude, distance_from_campus,
	image_urls, cost_min, cost_max, cost_per,
	status, rating, ai_summary, submitted_by,
	room_types, sharing_types, food_type, meals_provided, weekly_menu,
	created_at, updated_at`

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) Store {
	return &Repository{db: db}
}

// Create inserts a pending venue. ID, status and timestamps are filled in.
func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	if venue.Images == nil {
		venue.Images = []string{}
	}
	if venue.Cost.Per == "" {
		venue.Cost.Per = "Month"
	}
	if venue.AISummary == "" {
		venue.AISummary = DefaultSummary
	}
	venue.Status = StatusPending

	roomTypes, sharingTypes := []string{}, []string{}
	var (
		foodType   string
		meals      []byte
		weeklyMenu []byte
		err        error
	)
	if venue.PGDetails != nil {
		roomTypes = nonNil(venue.AvailableRoomTypes)
		sharingTypes = nonNil(venue.SharingTypes)
	}
	if venue.MessDetails != nil {
		foodType = venue.FoodType
		if meals, err = json.Marshal(venue.MealsProvided); err != nil {
			return fmt.Errorf("encode meals: %w", err)
		}
		if venue.WeeklyMenu == nil {
			venue.WeeklyMenu = []DayMenu{}
		}
		if weeklyMenu, err = json.Marshal(venue.WeeklyMenu); err != nil {
			return fmt.Errorf("encode weekly menu: %w", err)
		}
	}

	const query = `
	INSERT INTO venues (
		name, owner_name, contact_no, type, description,
		street, pincode, latitude, longitude, distance_from_campus,
		image_urls, cost_min, cost_max, cost_per,
		status, ai_summary, submitted_by,
		room_types, sharing_types, food_type, meals_provided, weekly_menu
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17,
		$18, $19, $20, $21, $22
	)
	RETURNING id, created_at, updated_at
	`

	args := []any{
		venue.Name,
		venue.OwnerName,
		venue.ContactNo,
		string(venue.Type),
		venue.Description,
		venue.Address.Street,
		venue.Address.Pincode,
		venue.Address.Latitude,
		venue.Address.Longitude,
		venue.DistanceFromCampus,
		venue.Images,
		venue.Cost.Min,
		venue.Cost.Max,
		venue.Cost.Per,
		string(venue.Status),
		venue.AISummary,
		venue.SubmittedBy,
		roomTypes,
		sharingTypes,
		foodType,
		meals,
		weeklyMenu,
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt); err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *Repository) GetByID(ctx context.Context, venueID int64) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	v, err := scanVenue(r.db.QueryRow(ctx, query, venueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

// List returns published venues matching filter, highest rated first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Venue, error) {
	var (
		where      = []string{"status = $1"}
		args       = []any{string(StatusPublished)}
		argCounter = 2
	)

	if filter.Type != nil {
		where = append(where, fmt.Sprintf("type = $%d", argCounter))
		args = append(args, string(*filter.Type))
		argCounter++
	}
	if filter.MaxDistance != nil {
		where = append(where, fmt.Sprintf("distance_from_campus <= $%d", argCounter))
		args = append(args, *filter.MaxDistance)
		argCounter++
	}
	if filter.MaxPrice != nil {
		where = append(where, fmt.Sprintf("cost_min <= $%d", argCounter))
		args = append(args, *filter.MaxPrice)
		argCounter++
	}
	if filter.MinRating != nil {
		where = append(where, fmt.Sprintf("rating >= $%d", argCounter))
		args = append(args, *filter.MinRating)
	}

	query := `SELECT ` + venueColumns + ` FROM venues WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY rating DESC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying venues: %w", err)
	}
	return collectVenues(rows)
}

// ListByStatus returns one page of venues in status, newest first, and the total count.
func (r *Repository) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Venue, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM venues WHERE status = $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	query := `SELECT ` + venueColumns + ` FROM venues WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues by status: %w", err)
	}
	out, err := collectVenues(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListComparable returns published venues of the same type as venue, closest in
// distance from campus first.
func (r *Repository) ListComparable(ctx context.Context, venue *Venue, limit int) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues
		WHERE status = $1 AND type = $2 AND id <> $3
		ORDER BY ABS(distance_from_campus - $4) ASC, rating DESC
		LIMIT $5`

	rows, err := r.db.Query(ctx, query,
		string(StatusPublished),
		string(venue.Type),
		venue.ID,
		venue.DistanceFromCampus,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list comparable venues: %w", err)
	}
	return collectVenues(rows)
}

// SetStatus moves a venue from one status to another. The update is
// conditional on the current status so concurrent decisions cannot both win.
func (r *Repository) SetStatus(ctx context.Context, venueID int64, from, to Status) (*Venue, error) {
	if !from.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	query := `UPDATE venues SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + venueColumns

	v, err := scanVenue(r.db.QueryRow(ctx, query, string(to), venueID, string(from)))
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update venue status: %w", err)
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM venues WHERE id = $1`, venueID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("get venue status: %w", err)
	}
	return nil, ErrInvalidTransition
}

// Lock takes a row lock on the venue for the rest of the enclosing transaction.
func (r *Repository) Lock(ctx context.Context, venueID int64) error {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM venues WHERE id = $1 FOR UPDATE`, venueID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("lock venue: %w", err)
	}
	return nil
}

func (r *Repository) UpdateRating(ctx context.Context, venueID int64, rating float64) error {
	query := `UPDATE venues SET rating = $1, updated_at = NOW() WHERE id = $2`
	ct, err := r.db.Exec(ctx, query, rating, venueID)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *Repository) UpdateSummary(ctx context.Context, venueID int64, summary string) error {
	query := `UPDATE venues SET ai_summary = $1, updated_at = NOW() WHERE id = $2`
	ct, err := r.db.Exec(ctx, query, summary, venueID)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// ListNeedingSummary returns venues that have reviews but still carry the
// default summary.
func (r *Repository) ListNeedingSummary(ctx context.Context, limit int) ([]int64, error) {
	query := `
		SELECT v.id FROM venues v
		WHERE v.ai_summary = $1
		  AND EXISTS (SELECT 1 FROM reviews rv WHERE rv.venue_id = v.id)
		ORDER BY v.id
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, DefaultSummary, limit)
	if err != nil {
		return nil, fmt.Errorf("list venues needing summary: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectVenues(rows pgx.Rows) ([]Venue, error) {
	defer rows.Close()

	out := []Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning venue row: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanVenue(row pgx.Row) (*Venue, error) {
	var (
		v            Venue
		typ, status  string
		roomTypes    []string
		sharingTypes []string
		foodType     string
		meals        []byte
		weeklyMenu   []byte
	)

	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.OwnerName,
		&v.ContactNo,
		&typ,
		&v.Description,
		&v.Address.Street,
		&v.Address.Pincode,
		&v.Address.Latitude,
		&v.Address.Longitude,
		&v.DistanceFromCampus,
		&v.Images,
		&v.Cost.Min,
		&v.Cost.Max,
		&v.Cost.Per,
		&status,
		&v.Rating,
		&v.AISummary,
		&v.SubmittedBy,
		&roomTypes,
		&sharingTypes,
		&foodType,
		&meals,
		&weeklyMenu,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Type = Type(typ)
	v.Status = Status(status)
	if v.Images == nil {
		v.Images = []string{}
	}

	switch v.Type {
	case TypePG:
		v.PGDetails = &PGDetails{
			AvailableRoomTypes: nonNil(roomTypes),
			SharingTypes:       nonNil(sharingTypes),
		}
	case TypeMess:
		md := &MessDetails{FoodType: foodType, WeeklyMenu: []DayMenu{}}
		if len(meals) > 0 {
			if err := json.Unmarshal(meals, &md.MealsProvided); err != nil {
				return nil, fmt.Errorf("decode meals: %w", err)
			}
		}
		if len(weeklyMenu) > 0 {
			if err := json.Unmarshal(weeklyMenu, &md.WeeklyMenu); err != nil {
				return nil, fmt.Errorf("decode weekly menu: %w", err)
			}
		}
		v.MessDetails = md
	}

	return &v, nil
}
