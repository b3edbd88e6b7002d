package notes_box

import (
	"context"
	"time"

	"github.com/2beens/notesbox/internal/telemetry/metrics"
)

var _ Store = (*MeteredStore)(nil)

// MeteredStore observes the duration of every store operation
type MeteredStore struct {
	store   Store
	metrics *metrics.Manager
}

func NewMeteredStore(store Store, metrics *metrics.Manager) *MeteredStore {
	return &MeteredStore{
		store:   store,
		metrics: metrics,
	}
}

func (s *MeteredStore) GetAll(ctx context.Context) ([]Note, error) {
	defer s.observe("get_all", time.Now())
	return s.store.GetAll(ctx)
}

func (s *MeteredStore) ReplaceAll(ctx context.Context, notes []Note) error {
	defer s.observe("replace_all", time.Now())
	return s.store.ReplaceAll(ctx, notes)
}

func (s *MeteredStore) observe(op string, begin time.Time) {
	s.metrics.HistStoreOpDuration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
}
