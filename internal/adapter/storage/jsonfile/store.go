package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
)

// Store keeps every run report in a single runs.json file.
type Store struct {
	mu      sync.RWMutex
	path    string
	reports map[string]*domain.Report
}

func NewStore(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "runs.json")

	store := &Store{
		path:    path,
		reports: make(map[string]*domain.Report),
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return store, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	var reports []*domain.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return err
	}

	for _, r := range reports {
		s.reports[r.ID] = r
	}

	return nil
}

func (s *Store) save() error {
	tmpPath := s.path + ".tmp"

	data, err := json.MarshalIndent(s.sorted(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

func (s *Store) sorted() []*domain.Report {
	reports := make([]*domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	slices.SortFunc(reports, func(a, b *domain.Report) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return reports
}

func (s *Store) SaveReport(r *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[r.ID] = r.Clone()
	return s.save()
}

func (s *Store) GetReport(id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return r.Clone(), nil
}

func (s *Store) ListReports() ([]*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := s.sorted()
	for i, r := range reports {
		reports[i] = r.Clone()
	}
	return reports, nil
}

func (s *Store) Close() error {
	return nil
}

var _ port.RunStore = (*Store)(nil)
