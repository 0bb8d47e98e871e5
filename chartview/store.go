package chartview

import (
	"sync"
	"time"

	"marmot/model"
)

// Snapshot : one refresh of everything the dashboard renders.
type Snapshot struct {
	Summary   model.KPISummary             `json:"summary"`
	Frames    map[string]*model.ChartFrame `json:"-"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// SnapshotStore : latest snapshot plus the websocket subscriber registry.
type SnapshotStore struct {
	mu   sync.RWMutex
	snap Snapshot

	subMu sync.Mutex
	subs  map[chan []byte]bool
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snap: Snapshot{Frames: map[string]*model.ChartFrame{}},
		subs: make(map[chan []byte]bool),
	}
}

func (s *SnapshotStore) Set(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *SnapshotStore) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers a websocket client channel.
func (s *SnapshotStore) Subscribe() chan []byte {
	ch := make(chan []byte, 8)
	s.subMu.Lock()
	s.subs[ch] = true
	s.subMu.Unlock()
	return ch
}

func (s *SnapshotStore) Unsubscribe(ch chan []byte) {
	s.subMu.Lock()
	if s.subs[ch] {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

// Broadcast pushes a payload to every subscriber, dropping it for slow ones.
func (s *SnapshotStore) Broadcast(payload []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- payload:
		default:
		}
	}
}
