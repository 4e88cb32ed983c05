package search

import (
	"log/slog"
	"time"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

type Indexer interface {
	Healthy() bool
	IndexHankkeet(records []HankeRecord) error
	DeleteHanke(hankeTunnus string) error
	Search(q Query) ([]Result, int, error)
}

// Service keeps the index in step with hanke changes. Index failures are
// logged and never fail the write that caused them.
type Service struct {
	idx Indexer
	log *slog.Logger
	now func() time.Time
}

// NewService creates the search facade. idx may be nil when search is not configured.
func NewService(idx Indexer, log *slog.Logger) *Service {
	return &Service{idx: idx, log: log, now: time.Now}
}

func (s *Service) Healthy() bool {
	return s.idx != nil && s.idx.Healthy()
}

// Sync indexes h when it is public and removes it from the index otherwise.
func (s *Service) Sync(h *domain.Hanke) {
	if !s.Healthy() || h == nil || h.HankeTunnus == "" {
		return
	}
	if h.Status != domain.StatusPublic {
		s.Remove(h.HankeTunnus)
		return
	}
	if err := s.idx.IndexHankkeet([]HankeRecord{RecordOf(h, s.now())}); err != nil {
		s.log.Warn("index hanke failed", "hankeTunnus", h.HankeTunnus, "error", err)
	}
}

func (s *Service) Remove(hankeTunnus string) {
	if !s.Healthy() {
		return
	}
	if err := s.idx.DeleteHanke(hankeTunnus); err != nil {
		s.log.Warn("remove hanke from index failed", "hankeTunnus", hankeTunnus, "error", err)
	}
}

// Reindex replaces the index content with the given public hankkeet.
func (s *Service) Reindex(hankkeet []domain.Hanke) error {
	if !s.Healthy() {
		return nil
	}
	now := s.now()
	records := make([]HankeRecord, 0, len(hankkeet))
	for i := range hankkeet {
		if hankkeet[i].Status == domain.StatusPublic {
			records = append(records, RecordOf(&hankkeet[i], now))
		}
	}
	return s.idx.IndexHankkeet(records)
}

func (s *Service) Search(q Query) Response {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if !s.Healthy() {
		return Response{Results: []Result{}, Query: q.Text}
	}
	results, total, err := s.idx.Search(q)
	if err != nil {
		s.log.Warn("search failed", "error", err)
		return Response{Results: []Result{}, Query: q.Text}
	}
	if results == nil {
		results = []Result{}
	}
	return Response{Results: results, Total: total, Query: q.Text}
}
