package venues

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrVenueNotFound     = errors.New("Venue not found")
	ErrInvalidTransition = errors.New("venue has already been reviewed")
)

// DefaultSummary is stored until enough reviews exist to summarize.
const DefaultSummary = "Not enough reviews yet to generate an AI summary."

type Type string

const (
	TypePG   Type = "PG"
	TypeMess Type = "Mess"
)

func (t Type) Valid() bool {
	return t == TypePG || t == TypeMess
}

// Status gates public visibility of a venue.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

// CanTransition reports whether an admin may move a venue from s to next.
// Only pending venues can be decided, and decisions are final.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && (next == StatusPublished || next == StatusRejected)
}

var (
	roomTypes    = set("1BHK", "2BHK", "3BHK", "Single Room")
	sharingTypes = set("Single", "Double", "Triple", "Quadruple")
	foodTypes    = set("Veg", "Non-Veg", "Both")
	weekDays     = set("Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday")
)

func set(vals ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

type Address struct {
	Street    string  `json:"street"`
	Pincode   string  `json:"pincode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Cost struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Per string  `json:"per"`
}

// PGDetails is populated only for PG venues.
type PGDetails struct {
	AvailableRoomTypes []string `json:"availableRoomTypes"`
	SharingTypes       []string `json:"sharingTypes"`
}

type MealsProvided struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
}

type DayMenu struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// MessDetails is populated only for Mess venues.
type MessDetails struct {
	FoodType      string        `json:"foodType"`
	MealsProvided MealsProvided `json:"mealsProvided"`
	WeeklyMenu    []DayMenu     `json:"weeklyMenu"`
}

// Venue is a PG or Mess listing. Exactly one of PG and Mess is set, matching Type.
type Venue struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	OwnerName          string   `json:"ownerName"`
	ContactNo          string   `json:"contactNo"`
	Type               Type     `json:"type"`
	Description        string   `json:"description"`
	Address            Address  `json:"address"`
	DistanceFromCampus float64  `json:"distanceFromCampus"`
	Images             []string `json:"images"`
	Cost               Cost     `json:"cost"`
	Status             Status   `json:"status"`
	Rating             float64  `json:"rating"`
	AISummary          string   `json:"aiSummary"`
	SubmittedBy        *int64   `json:"submittedBy,omitempty"`

	*PGDetails
	*MessDetails

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks enumerations and the type-conditional detail invariant.
func (v *Venue) Validate() error {
	if !v.Type.Valid() {
		return fmt.Errorf("type must be PG or Mess, got %q", v.Type)
	}
	if v.Cost.Max != 0 && v.Cost.Max < v.Cost.Min {
		return errors.New("maxPrice must not be lower than minPrice")
	}

	switch v.Type {
	case TypePG:
		if v.PGDetails == nil || v.MessDetails != nil {
			return errors.New("PG venues carry room and sharing types only")
		}
		for _, rt := range v.AvailableRoomTypes {
			if _, ok := roomTypes[rt]; !ok {
				return fmt.Errorf("invalid room type %q", rt)
			}
		}
		for _, st := range v.SharingTypes {
			if _, ok := sharingTypes[st]; !ok {
				return fmt.Errorf("invalid sharing type %q", st)
			}
		}
	case TypeMess:
		if v.MessDetails == nil || v.PGDetails != nil {
			return errors.New("Mess venues carry food type, meals and menu only")
		}
		if v.FoodType != "" {
			if _, ok := foodTypes[v.FoodType]; !ok {
				return fmt.Errorf("invalid food type %q", v.FoodType)
			}
		}
		if len(v.WeeklyMenu) > 7 {
			return errors.New("weekly menu has at most 7 days")
		}
		seen := make(map[string]bool, len(v.WeeklyMenu))
		for _, d := range v.WeeklyMenu {
			if _, ok := weekDays[d.Day]; !ok {
				return fmt.Errorf("invalid menu day %q", d.Day)
			}
			if seen[d.Day] {
				return fmt.Errorf("duplicate menu day %q", d.Day)
			}
			seen[d.Day] = true
		}
	}
	return nil
}

// Filter narrows public listings. Nil fields are ignored.
type Filter struct {
	Type        *Type
	MaxDistance *float64
	MaxPrice    *float64
	MinRating   *float64
}

type Store interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, venueID int64) (*Venue, error)
	List(ctx context.Context, filter Filter) ([]Venue, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Venue, int, error)
	ListComparable(ctx context.Context, venue *Venue, limit int) ([]Venue, error)
	SetStatus(ctx context.Context, venueID int64, from, to Status) (*Venue, error)
	Lock(ctx context.Context, venueID int64) error
	UpdateRating(ctx context.Context, venueID int64, rating float64) error
	UpdateSummary(ctx context.Context, venueID int64, summary string) error
	ListNeedingSummary(ctx context.Context, limit int) ([]int64, error)
}
