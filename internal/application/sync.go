package application

import (
	"context"
	"sort"
)

// HandleStatusUpdates pulls the status histories of all sent applications
// from Allu and stores the latest status of each. Only events after the
// previous run are requested.
func (s *Service) HandleStatusUpdates(ctx context.Context) error {
	started := s.now().UTC()

	ids, err := s.repo.ListAlluIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		s.log.InfoContext(ctx, "no applications in allu, skipping status update")
		return s.repo.SetHistoryLastUpdated(ctx, started)
	}

	after, err := s.repo.HistoryLastUpdated(ctx)
	if err != nil {
		return err
	}

	histories, err := s.allu.ApplicationStatusHistories(ctx, ids, after)
	if err != nil {
		return err
	}

	updated := 0
	for _, h := range histories {
		if len(h.Events) == 0 {
			continue
		}
		events := append(h.Events[:0:0], h.Events...)
		sort.SliceStable(events, func(i, j int) bool { return events[i].EventTime.Before(events[j].EventTime) })
		latest := events[len(events)-1]

		found, err := s.repo.UpdateAlluStatus(ctx, h.ApplicationID, latest.NewStatus, latest.ApplicationIdentifier)
		if err != nil {
			return err
		}
		if !found {
			s.log.ErrorContext(ctx, "allu had events for an unknown application", "alluid", h.ApplicationID)
			continue
		}
		updated++
	}

	s.log.InfoContext(ctx, "updated application statuses from allu", "applications", updated, "events_after", after)
	return s.repo.SetHistoryLastUpdated(ctx, started)
}
