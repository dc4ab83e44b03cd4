package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"heroshot/internal/domain"
)

const sweepInterval = time.Minute

// Store keeps per-visitor studio sessions in memory. A session holds the
// uploaded portrait, the selected theme and the latest generation results;
// nothing survives a restart and idle sessions are evicted after the TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*studioSession
	ttl      time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

type studioSession struct {
	id         string
	image      *domain.UploadedImage
	theme      string
	results    []domain.Result
	generating bool
	lastSeen   time.Time
}

// NewStore creates a store and starts its eviction sweeper.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &Store{
		sessions: make(map[string]*studioSession),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Close stops the eviction sweeper.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.evictIdle(now)
		}
	}
}

// evictIdle drops sessions idle past the TTL. Sessions with a generation in
// flight are kept so the attempt can land its results.
func (s *Store) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.generating {
			continue
		}
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// get looks a session up and refreshes its idle clock. Callers must hold mu.
func (s *Store) get(id string) (*studioSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !sess.generating && time.Since(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	sess.lastSeen = time.Now()
	return sess, nil
}

func view(sess *studioSession) domain.StudioView {
	return domain.StudioView{
		ID:          sess.id,
		HasImage:    sess.image != nil,
		Theme:       sess.theme,
		Ready:       domain.Ready(sess.image, sess.theme),
		Generating:  sess.generating,
		ResultCount: len(sess.results),
	}
}

// Create opens a new empty session.
func (s *Store) Create() domain.StudioView {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &studioSession{id: uuid.NewString(), lastSeen: time.Now()}
	s.sessions[sess.id] = sess
	return view(sess)
}

// View returns the current projection of a session.
func (s *Store) View(id string) (domain.StudioView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.StudioView{}, err
	}
	return view(sess), nil
}

// PutImage replaces the session's uploaded portrait.
func (s *Store) PutImage(id string, img domain.UploadedImage) (domain.StudioView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.StudioView{}, err
	}
	sess.image = &img
	return view(sess), nil
}

// Image returns the uploaded portrait, used for preview rendering.
func (s *Store) Image(id string) (domain.UploadedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.UploadedImage{}, err
	}
	if sess.image == nil {
		return domain.UploadedImage{}, domain.ErrNotReady
	}
	return *sess.image, nil
}

// PutTheme replaces the session's selected theme.
func (s *Store) PutTheme(id, theme string) (domain.StudioView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.StudioView{}, err
	}
	sess.theme = theme
	return view(sess), nil
}

// BeginGeneration opens the in-flight window for one attempt. It fails when
// either input is missing or another attempt is already running, clears the
// previous results and returns a snapshot of the inputs the attempt will use.
func (s *Store) BeginGeneration(id string) (domain.GenerationInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.GenerationInput{}, err
	}
	if sess.generating {
		return domain.GenerationInput{}, domain.ErrGenerationInFlight
	}
	if !domain.Ready(sess.image, sess.theme) {
		return domain.GenerationInput{}, domain.ErrNotReady
	}
	sess.results = nil
	sess.generating = true
	return domain.GenerationInput{Image: *sess.image, Theme: sess.theme}, nil
}

// FinishGeneration closes the in-flight window no matter how the attempt
// ended. Results are nil for a failed attempt, leaving the results cleared by
// BeginGeneration in place.
func (s *Store) FinishGeneration(id string, results []domain.Result) (domain.StudioView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.StudioView{}, err
	}
	sess.generating = false
	sess.results = results
	return view(sess), nil
}

// Results returns the latest generation results.
func (s *Store) Results(id string) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return sess.results, nil
}

// Result returns one result by position.
func (s *Store) Result(id string, index int) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.Result{}, err
	}
	if index < 0 || index >= len(sess.results) {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return sess.results[index], nil
}

// Count reports how many sessions are currently live.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
