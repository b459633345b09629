// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/keiyara/memotype/internal/model"
	"github.com/keiyara/memotype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	ItemAggs []model.ItemAggregate
}

// BuildReport loads and prepares session and item data for rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.ReportConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	itemAggs, err := st.ListItemAggregates(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions: sessions,
		ItemAggs: itemAggs,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
