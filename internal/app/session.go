package app

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/question"
	"wisdom-spin/internal/wheel"
)

// Session is one wheel with its participants and the round in progress.
// Every state change happens under mu; timer callbacks and the question
// fetch carry the generation they were started in and drop themselves once
// the session has moved on.
type Session struct {
	id        string
	createdAt time.Time
	clock     Clock
	source    question.Strategy
	timing    Timing
	rnd       *rand.Rand

	mu           sync.Mutex
	participants []*domain.Participant
	wheel        domain.WheelState
	state        domain.RoundState
	generation   uint64
	winner       *domain.Participant
	question     *domain.QuestionData
	timeLeft     int
	history      []string
	settings     domain.Settings
	muted        bool
	timer        Timer
	cancelFetch  context.CancelFunc
	closed       bool
	subscribers  map[chan domain.GameSnapshot]struct{}

	fetches sync.WaitGroup
}

func newSession(id string, source question.Strategy, clock Clock, timing Timing, rnd *rand.Rand) *Session {
	if clock == nil {
		clock = realClock{}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		id:          id,
		createdAt:   clock.Now(),
		clock:       clock,
		source:      source,
		timing:      timing.withDefaults(),
		rnd:         rnd,
		state:       domain.StateIdle,
		settings:    domain.DefaultSettings(),
		subscribers: make(map[chan domain.GameSnapshot]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// AddParticipant appends a name to the wheel. Blank names and changes during
// a round are ignored.
func (s *Session) AddParticipant(name string) (domain.Participant, bool) {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" || s.closed || s.state != domain.StateIdle {
		return domain.Participant{}, false
	}
	p := &domain.Participant{
		ID:          uuid.NewString(),
		Name:        name,
		Color:       domain.Palette[len(s.participants)%len(domain.Palette)],
		LastUpdated: s.clock.Now(),
	}
	s.participants = append(s.participants, p)
	s.broadcastLocked()
	return *p, true
}

// RemoveParticipant drops a participant by id. It is ignored during a round.
func (s *Session) RemoveParticipant(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != domain.StateIdle {
		return false, nil
	}
	for i, p := range s.participants {
		if p.ID == id {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			s.broadcastLocked()
			return true, nil
		}
	}
	return false, domain.ErrParticipantNotFound
}

// Spin starts a round. It needs an idle session with at least two
// participants and reports whether the wheel started turning.
func (s *Session) Spin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != domain.StateIdle || len(s.participants) < 2 {
		return false
	}
	s.generation++
	s.winner = nil
	s.question = nil
	s.timeLeft = 0
	s.wheel.Rotation = wheel.NextRotationTurns(s.wheel.Rotation, s.timing.FullTurns, s.rnd.Float64())
	s.wheel.Spinning = true
	s.state = domain.StateSpinning
	s.scheduleLocked(s.timing.SpinDuration, s.finishSpinLocked)
	s.broadcastLocked()
	return true
}

func (s *Session) finishSpinLocked() {
	s.wheel.Spinning = false
	idx := wheel.Resolve(s.wheel.Rotation, len(s.participants))
	if idx < 0 {
		s.resetLocked()
		return
	}
	s.winner = s.participants[idx]
	s.state = domain.StateWinnerAnnounced
	s.scheduleLocked(s.timing.RevealDelay, s.beginQuestionLocked)
	s.broadcastLocked()
}

func (s *Session) beginQuestionLocked() {
	s.state = domain.StateQuestionLoading
	gen := s.generation
	req := question.Request{
		Category:   s.settings.Category,
		Difficulty: s.settings.Difficulty,
		Language:   s.settings.Language,
		History:    append([]string(nil), s.history...),
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timing.FetchTimeout)
	s.cancelFetch = cancel
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		defer cancel()
		q, err := s.source.Fetch(ctx, req)
		s.applyQuestion(gen, q, err)
	}()
	s.broadcastLocked()
}

func (s *Session) applyQuestion(gen uint64, q domain.QuestionData, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generation != gen || s.state != domain.StateQuestionLoading {
		return
	}
	s.cancelFetch = nil
	if err != nil {
		log.Printf("session %s: question fetch: %v", s.id, err)
		s.resetLocked()
		s.broadcastLocked()
		return
	}
	s.question = &q
	s.history = append(s.history, q.Question)
	s.state = domain.StateQuestionShown
	s.timeLeft = s.timing.Countdown
	s.state = domain.StateTimerRunning
	s.scheduleLocked(s.timing.TickInterval, s.tickLocked)
	s.broadcastLocked()
}

func (s *Session) tickLocked() {
	s.timeLeft--
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		s.timer = nil
		s.state = domain.StateAnswerRevealed
	} else {
		s.scheduleLocked(s.timing.TickInterval, s.tickLocked)
	}
	s.broadcastLocked()
}

// Reveal skips the rest of the countdown.
func (s *Session) Reveal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateQuestionShown && s.state != domain.StateTimerRunning {
		return false
	}
	s.stopTimerLocked()
	s.state = domain.StateAnswerRevealed
	s.broadcastLocked()
	return true
}

// Score closes a revealed round, awarding a point to the winner when the
// answer was correct.
func (s *Session) Score(correct bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateAnswerRevealed || s.winner == nil {
		return false
	}
	if correct {
		s.winner.Score++
		s.winner.LastUpdated = s.clock.Now()
	}
	s.resetLocked()
	s.broadcastLocked()
	return true
}

// Dismiss abandons the current round from any state.
func (s *Session) Dismiss() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateIdle {
		return false
	}
	s.resetLocked()
	s.broadcastLocked()
	return true
}

// AdjustScore applies a manual correction. Scores never go below zero.
func (s *Session) AdjustScore(participantID string, delta int) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants {
		if p.ID != participantID {
			continue
		}
		p.Score += delta
		if p.Score < 0 {
			p.Score = 0
		}
		p.LastUpdated = s.clock.Now()
		s.broadcastLocked()
		return *p, nil
	}
	return domain.Participant{}, domain.ErrParticipantNotFound
}

// UpdateSettings replaces the question preferences used by the next fetch.
func (s *Session) UpdateSettings(settings domain.Settings) error {
	if !settings.Category.Valid() {
		return domain.ErrInvalidCategory
	}
	if !settings.Difficulty.Valid() {
		return domain.ErrInvalidDifficulty
	}
	if !settings.Language.Valid() {
		return domain.ErrInvalidLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.broadcastLocked()
	return nil
}

// Settings returns the current question preferences.
func (s *Session) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) setMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	s.broadcastLocked()
}

// Result returns a copy of the active round, if a winner has been picked.
func (s *Session) Result() (domain.RoundResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return domain.RoundResult{}, false
	}
	winner := *s.winner
	res := domain.RoundResult{Winner: &winner}
	if s.question != nil {
		res.Question = *s.question
	}
	return res, true
}

// History returns the question texts asked so far, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Snapshot returns the client view of the session.
func (s *Session) Snapshot() domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Leaderboard returns the ordered scoreboard.
func (s *Session) Leaderboard() domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboardLocked()
}

// Participants returns a copy of the wheel in slice order.
func (s *Session) Participants() []domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participantsLocked()
}

// Wheel returns the wheel position.
func (s *Session) Wheel() domain.WheelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wheel
}

// IsEmpty reports whether nobody is on the wheel or watching it.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants) == 0 && len(s.subscribers) == 0
}

// Close stops the timers, invalidates any in-flight fetch, closes every
// subscriber channel and waits for the fetch goroutine to return.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	s.stopTimerLocked()
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
	s.fetches.Wait()
}

// Subscribe returns a channel of snapshots, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.GameSnapshot, func()) {
	ch := make(chan domain.GameSnapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// ch is empty, so this cannot block; sending under mu keeps Close from
	// closing it first.
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// scheduleLocked replaces the pending timer. The callback runs under mu and
// only if neither the generation nor the state changed in the meantime.
func (s *Session) scheduleLocked(d time.Duration, fn func()) {
	s.stopTimerLocked()
	gen, want := s.generation, s.state
	s.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.generation != gen || s.state != want {
			return
		}
		fn()
	})
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) resetLocked() {
	s.stopTimerLocked()
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.generation++
	s.winner = nil
	s.question = nil
	s.timeLeft = 0
	s.wheel.Spinning = false
	s.state = domain.StateIdle
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// slow subscriber: drop its oldest snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) participantsLocked() []domain.Participant {
	out := make([]domain.Participant, len(s.participants))
	for i, p := range s.participants {
		out[i] = *p
	}
	return out
}

func (s *Session) snapshotLocked() domain.GameSnapshot {
	round := domain.RoundView{
		State:      s.state,
		Generation: s.generation,
		TimeLeft:   s.timeLeft,
	}
	if s.winner != nil {
		w := *s.winner
		round.Winner = &w
	}
	if s.question != nil {
		round.Question = s.question.Question
		round.Category = s.question.Category
		round.Difficulty = s.question.Difficulty
		if s.state == domain.StateAnswerRevealed {
			round.Answer = s.question.Answer
			round.Explanation = s.question.Explanation
		}
	}
	return domain.GameSnapshot{
		SessionID:    s.id,
		Participants: s.participantsLocked(),
		Wheel:        s.wheel,
		Round:        round,
		Settings:     s.settings,
		Muted:        s.muted,
		Leaderboard:  s.leaderboardLocked(),
	}
}

func (s *Session) leaderboardLocked() domain.Leaderboard {
	ordered := make([]*domain.Participant, len(s.participants))
	copy(ordered, s.participants)
	// score desc, then whoever reached the score first, then name
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		if !ordered[i].LastUpdated.Equal(ordered[j].LastUpdated) {
			return ordered[i].LastUpdated.Before(ordered[j].LastUpdated)
		}
		return ordered[i].Name < ordered[j].Name
	})

	entries := make([]domain.LeaderboardEntry, len(ordered))
	for i, p := range ordered {
		entries[i] = domain.LeaderboardEntry{
			ParticipantID: p.ID,
			Name:          p.Name,
			Score:         p.Score,
			Rank:          i + 1,
		}
	}
	return domain.Leaderboard{
		SessionID: s.id,
		Entries:   entries,
		UpdatedAt: s.clock.Now(),
	}
}
