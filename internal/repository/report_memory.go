package repository

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
)

// memoryReportStore is the reference ReportStore: a mutex-guarded map. Values
// are cloned on the way in and out so no caller ever mutates stored state
// except through Update.
type memoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]*models.Report
	logger  *zap.Logger
}

// NewMemoryReportStore creates an empty in-memory report store.
func NewMemoryReportStore(logger *zap.Logger) ReportStore {
	return &memoryReportStore{
		reports: make(map[string]*models.Report),
		logger:  logger,
	}
}

func (s *memoryReportStore) Create(report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; exists {
		return ErrDuplicateID
	}
	s.reports[report.ID] = report.Clone()
	s.logger.Debug("Report created", zap.String("report_id", report.ID))
	return nil
}

func (s *memoryReportStore) Get(id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.reports[id]
	if !exists {
		return nil, ErrNotFound
	}
	return report.Clone(), nil
}

func (s *memoryReportStore) Update(report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; !exists {
		return ErrNotFound
	}
	s.reports[report.ID] = report.Clone()
	return nil
}

func (s *memoryReportStore) List() ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]*models.Report, 0, len(s.reports))
	for _, report := range s.reports {
		reports = append(reports, report.Clone())
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].SubmissionDate.After(reports[j].SubmissionDate)
	})
	return reports, nil
}
