package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// Store keeps run reports for the life of the process. Reports are stored
// as JSON so callers cannot mutate what was saved.
type Store struct {
	mu   sync.RWMutex
	runs map[string]stored
	seq  int
}

type stored struct {
	seq     int
	summary domain.RunSummary
	raw     []byte
}

func New() *Store {
	return &Store{runs: make(map[string]stored)}
}

func (m *Store) Save(ctx context.Context, r *domain.RunReport) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.runs[r.RunID] = stored{seq: m.seq, summary: r.Summary(), raw: raw}
	return nil
}

func (m *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.sorted()
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]domain.RunSummary, 0, len(all))
	for _, s := range all {
		out = append(out, s.summary)
	}
	return out, nil
}

func (m *Store) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	m.mu.RLock()
	s, ok := m.runs[runID]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return decode(s.raw)
}

func (m *Store) Latest(ctx context.Context) (*domain.RunReport, error) {
	m.mu.RLock()
	all := m.sorted()
	m.mu.RUnlock()
	if len(all) == 0 {
		return nil, domain.ErrNotFound
	}
	return decode(all[0].raw)
}

func (m *Store) Close() error { return nil }

// sorted returns runs newest first; saves order runs with equal timestamps.
func (m *Store) sorted() []stored {
	out := make([]stored, 0, len(m.runs))
	for _, s := range m.runs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].summary.Timestamp, out[j].summary.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].seq > out[j].seq
	})
	return out
}

func decode(raw []byte) (*domain.RunReport, error) {
	var r domain.RunReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
