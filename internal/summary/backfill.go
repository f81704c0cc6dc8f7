package summary

import (
	"context"

	"github.com/robfig/cron/v3"
)

const backfillBatch = 50

// Backfill refreshes venues that have reviews but still show the placeholder
// summary. It returns how many were refreshed.
func (s *Service) Backfill(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}

	ids, err := s.venues.ListNeedingSummary(ctx, backfillBatch)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := s.Refresh(ctx, id); err != nil {
			s.logger.Warnw("backfill refresh failed", "venue_id", id, "error", err)
			continue
		}
		done++
	}
	return done, nil
}

// StartBackfill schedules Backfill on spec. An empty spec or a disabled
// service schedules nothing and returns nil.
func (s *Service) StartBackfill(spec string) (*cron.Cron, error) {
	if spec == "" || !s.Enabled() {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout*backfillBatch)
		defer cancel()

		n, err := s.Backfill(ctx)
		if err != nil {
			s.logger.Errorw("summary backfill failed", "error", err)
			return
		}
		if n > 0 {
			s.logger.Infow("summary backfill done", "refreshed", n)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
