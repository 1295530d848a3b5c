package refresh

import (
	"sync"

	"github.com/sustainai/hazard-risk/internal/models"
)

// Store owns the live hazard snapshot. Readers get deep copies; only the
// orchestrator mutates it.
type Store struct {
	mu        sync.RWMutex
	committed models.Snapshot
	state     models.RefreshState
	ready     bool
}

func NewStore() *Store {
	return &Store{
		committed: models.Snapshot{
			State:        models.StateIdle,
			Records:      []models.RiskRecord{},
			SourceCounts: map[string]int{},
		},
		state: models.StateIdle,
	}
}

// Snapshot returns a copy of the last committed snapshot carrying the current
// refresh state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.committed.Clone()
	snap.State = s.state
	return snap
}

func (s *Store) State() models.RefreshState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready reports whether at least one snapshot has been committed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) beginLoading() {
	s.mu.Lock()
	s.state = models.StateLoading
	s.mu.Unlock()
}

func (s *Store) endLoading() {
	s.mu.Lock()
	s.state = models.StateIdle
	s.mu.Unlock()
}

// commit installs snap if its generation is newer than the committed one and
// returns the store to Idle either way.
func (s *Store) commit(snap models.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.StateIdle
	if s.ready && snap.Generation <= s.committed.Generation {
		return false
	}

	snap.State = models.StateIdle
	s.committed = snap.Clone()
	s.ready = true
	return true
}

// SelectActive returns a copy of the highest-risk record. Ties go to the
// earliest record; nil when records is empty.
func SelectActive(records []models.RiskRecord) *models.RiskRecord {
	if len(records) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(records); i++ {
		if records[i].Risk > records[best].Risk {
			best = i
		}
	}

	active := records[best].Clone()
	return &active
}
