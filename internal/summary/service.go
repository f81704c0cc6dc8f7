// Package summary keeps each venue's AI-written review digest up to date.
package summary

import (
	"context"
	"expvar"
	"fmt"
	"strings"
	"sync"
	"time"

	venuereviews "habitat/internal/domain/venuereview"

	"go.uber.org/zap"
)

var (
	failures = expvar.NewInt("ai_summary_failures")
	updates  = expvar.NewInt("ai_summary_updates")
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ReviewLister interface {
	ListByVenue(ctx context.Context, venueID int64) ([]venuereviews.Review, error)
}

type SummaryStore interface {
	UpdateSummary(ctx context.Context, venueID int64, summary string) error
	ListNeedingSummary(ctx context.Context, limit int) ([]int64, error)
}

type Service struct {
	gen     Generator
	reviews ReviewLister
	venues  SummaryStore
	logger  *zap.SugaredLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewService returns a Service. A nil gen disables generation.
func NewService(gen Generator, reviews ReviewLister, venues SummaryStore, logger *zap.SugaredLogger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		gen:     gen,
		reviews: reviews,
		venues:  venues,
		logger:  logger,
		timeout: timeout,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.gen != nil
}

const promptHeader = `You are a helpful assistant for students looking for housing.
Here are recent reviews for a hostel/mess:
`

const promptFooter = `

Based on these reviews, write a very short, balanced summary (max 2 sentences).
Format it like: "Pros: ... Cons: ..."
Do not include Markdown formatting or bold text.`

// BuildPrompt renders the reviews into the summary prompt.
func BuildPrompt(reviews []venuereviews.Review) string {
	lines := make([]string, len(reviews))
	for i, r := range reviews {
		lines[i] = fmt.Sprintf("- \"%s\" (%d/5)", r.Description, r.Rating)
	}
	return promptHeader + strings.Join(lines, "\n") + promptFooter
}

// Refresh regenerates the summary of one venue. Venues without reviews are left alone.
func (s *Service) Refresh(ctx context.Context, venueID int64) error {
	if !s.Enabled() {
		return nil
	}

	reviews, err := s.reviews.ListByVenue(ctx, venueID)
	if err != nil {
		failures.Add(1)
		return fmt.Errorf("load reviews: %w", err)
	}
	if len(reviews) == 0 {
		return nil
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(reviews))
	if err != nil {
		failures.Add(1)
		return fmt.Errorf("generate summary: %w", err)
	}

	if err := s.venues.UpdateSummary(ctx, venueID, text); err != nil {
		failures.Add(1)
		return fmt.Errorf("store summary: %w", err)
	}

	updates.Add(1)
	return nil
}

// Dispatch refreshes the venue summary in the background. Callers never wait
// and never see the outcome.
func (s *Service) Dispatch(venueID int64) {
	if !s.Enabled() {
		if s != nil && s.logger != nil {
			s.logger.Debugw("ai summary disabled, skipping", "venue_id", venueID)
		}
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.Refresh(ctx, venueID); err != nil {
			s.logger.Errorw("ai summary generation failed", "venue_id", venueID, "error", err)
			return
		}
		s.logger.Infow("updated ai summary", "venue_id", venueID)
	}()
}

// Wait blocks until dispatched refreshes finish.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}
