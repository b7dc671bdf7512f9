package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/question"
)

// SessionRepository abstracts how game sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(id string, create func(id string) *Session) *Session
	Get(id string) (*Session, bool)
	Delete(id string)
	DeleteIfEmpty(id string)
}

// PreferenceStore persists the device-wide mute toggle.
type PreferenceStore interface {
	Muted(ctx context.Context) (bool, error)
	SetMuted(ctx context.Context, muted bool) error
}

// GameService contains the game use cases.
type GameService struct {
	sessions SessionRepository
	prefs    PreferenceStore
	source   question.Strategy
	clock    Clock
	timing   Timing

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewGameService(store SessionRepository, prefs PreferenceStore, source question.Strategy, timing Timing) *GameService {
	return NewGameServiceWithClock(store, prefs, source, timing, realClock{}, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGameServiceWithClock is test-only for deterministic timers and spins.
func NewGameServiceWithClock(store SessionRepository, prefs PreferenceStore, source question.Strategy, timing Timing, clock Clock, rnd *rand.Rand) *GameService {
	return &GameService{
		sessions: store,
		prefs:    prefs,
		source:   source,
		clock:    clock,
		timing:   timing.withDefaults(),
		rnd:      rnd,
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, source question.Strategy) *Session {
	return newSession(id, source, realClock{}, DefaultTiming(), nil)
}

func (s *GameService) newSession(id string) *Session {
	s.rndMu.Lock()
	seed := s.rnd.Int63()
	s.rndMu.Unlock()
	return newSession(id, s.source, s.clock, s.timing, rand.New(rand.NewSource(seed)))
}

// CreateSession registers a new wheel using lang for questions.
func (s *GameService) CreateSession(ctx context.Context, lang domain.Language) (string, error) {
	if !lang.Valid() {
		lang = domain.DefaultLanguage
	}
	id := uuid.NewString()
	session := s.sessions.GetOrCreate(id, s.newSession)

	settings := domain.DefaultSettings()
	settings.Language = lang
	if err := session.UpdateSettings(settings); err != nil {
		return "", err
	}
	muted, err := s.prefs.Muted(ctx)
	if err != nil {
		log.Printf("read mute preference: %v", err)
	}
	session.setMuted(muted)
	return id, nil
}

// Session looks up a registered session.
func (s *GameService) Session(_ context.Context, id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// AddParticipant puts a name on the wheel. ok is false when the name is
// blank or a round is in progress.
func (s *GameService) AddParticipant(ctx context.Context, id, name string) (domain.Participant, bool, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return domain.Participant{}, false, err
	}
	p, ok := session.AddParticipant(name)
	return p, ok, nil
}

func (s *GameService) RemoveParticipant(ctx context.Context, id, participantID string) (bool, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return false, err
	}
	return session.RemoveParticipant(participantID)
}

func (s *GameService) SetCategory(ctx context.Context, id string, c domain.Category) error {
	return s.updateSettings(ctx, id, func(st *domain.Settings) { st.Category = c })
}

func (s *GameService) SetDifficulty(ctx context.Context, id string, d domain.Difficulty) error {
	return s.updateSettings(ctx, id, func(st *domain.Settings) { st.Difficulty = d })
}

func (s *GameService) SetLanguage(ctx context.Context, id string, l domain.Language) error {
	return s.updateSettings(ctx, id, func(st *domain.Settings) { st.Language = l })
}

func (s *GameService) updateSettings(ctx context.Context, id string, apply func(*domain.Settings)) error {
	session, err := s.Session(ctx, id)
	if err != nil {
		return err
	}
	settings := session.Settings()
	apply(&settings)
	return session.UpdateSettings(settings)
}

// Spin starts a round; false means the preconditions were not met.
func (s *GameService) Spin(ctx context.Context, id string) (bool, error) {
	return s.do(ctx, id, (*Session).Spin)
}

// Reveal skips to the answer.
func (s *GameService) Reveal(ctx context.Context, id string) (bool, error) {
	return s.do(ctx, id, (*Session).Reveal)
}

// Score records the host's verdict for the revealed answer.
func (s *GameService) Score(ctx context.Context, id string, correct bool) (bool, error) {
	return s.do(ctx, id, func(session *Session) bool { return session.Score(correct) })
}

// Dismiss abandons the current round.
func (s *GameService) Dismiss(ctx context.Context, id string) (bool, error) {
	return s.do(ctx, id, (*Session).Dismiss)
}

func (s *GameService) do(ctx context.Context, id string, op func(*Session) bool) (bool, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return false, err
	}
	return op(session), nil
}

func (s *GameService) AdjustScore(ctx context.Context, id, participantID string, delta int) (domain.Participant, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}
	return session.AdjustScore(participantID, delta)
}

func (s *GameService) Snapshot(ctx context.Context, id string) (domain.GameSnapshot, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Round returns the winner and question of the round in progress; ok is
// false while no winner has been picked.
func (s *GameService) Round(ctx context.Context, id string) (domain.RoundResult, bool, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return domain.RoundResult{}, false, err
	}
	res, ok := session.Result()
	return res, ok, nil
}

func (s *GameService) Leaderboard(ctx context.Context, id string) (domain.Leaderboard, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return session.Leaderboard(), nil
}

// Subscribe returns a channel that receives snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(ctx context.Context, id string) (<-chan domain.GameSnapshot, func(), error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Leave drops the session once nobody is on the wheel or watching it.
func (s *GameService) Leave(_ context.Context, id string) {
	session, ok := s.sessions.Get(id)
	if !ok || !session.IsEmpty() {
		return
	}
	session.Close()
	s.sessions.DeleteIfEmpty(id)
}

// ToggleMute flips the stored preference and pushes it to the session.
func (s *GameService) ToggleMute(ctx context.Context, id string) (bool, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return false, err
	}
	muted, err := s.prefs.Muted(ctx)
	if err != nil {
		return false, err
	}
	muted = !muted
	if err := s.prefs.SetMuted(ctx, muted); err != nil {
		return false, err
	}
	session.setMuted(muted)
	return muted, nil
}

func (s *GameService) Muted(ctx context.Context) (bool, error) {
	return s.prefs.Muted(ctx)
}

// Close tears a session down and forgets it.
func (s *GameService) Close(_ context.Context, id string) error {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Close()
	s.sessions.Delete(id)
	return nil
}
