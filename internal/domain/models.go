package domain

import "time"

// Palette assigns slice colors to participants in join order.
var Palette = []string{"#d4af37", "#f59e0b", "#92400e", "#7c3aed", "#6366f1", "#10b981", "#ef4444", "#3b82f6"}

// HistoryWindow is how many recent questions are sent as a uniqueness hint.
const HistoryWindow = 10

// Participant is one name on the wheel and their accumulated score.
type Participant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"-"`
}

// WheelState tracks the cumulative rotation; it is never reduced modulo 360.
type WheelState struct {
	Rotation float64 `json:"rotation"`
	Spinning bool    `json:"spinning"`
}

// BankItem is a locally bundled question.
type BankItem struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// QuestionOrigin tells where a question came from.
type QuestionOrigin string

const (
	OriginRemote QuestionOrigin = "remote"
	OriginLocal  QuestionOrigin = "local"
)

// QuestionData is the question presented during a round.
type QuestionData struct {
	Question    string         `json:"question"`
	Answer      string         `json:"answer"`
	Explanation string         `json:"explanation,omitempty"`
	Category    Category       `json:"category"`
	Difficulty  Difficulty     `json:"difficulty"`
	Origin      QuestionOrigin `json:"origin"`
}

// RoundResult is the winner of the active round and the question put to them.
// Question is zero until the question has arrived.
type RoundResult struct {
	Winner   *Participant `json:"winner"`
	Question QuestionData `json:"question"`
}

// RoundState is a step of the round lifecycle.
type RoundState string

const (
	StateIdle            RoundState = "idle"
	StateSpinning        RoundState = "spinning"
	StateWinnerAnnounced RoundState = "winner_announced"
	StateQuestionLoading RoundState = "question_loading"
	StateQuestionShown   RoundState = "question_shown"
	StateTimerRunning    RoundState = "timer_running"
	StateAnswerRevealed  RoundState = "answer_revealed"
)

// Settings are the per-session question preferences.
type Settings struct {
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Language   Language   `json:"language"`
}

// DefaultSettings mirrors the game's initial selections.
func DefaultSettings() Settings {
	return Settings{
		Category:   CategoryRandom,
		Difficulty: DifficultyMedium,
		Language:   DefaultLanguage,
	}
}

// LeaderboardEntry is a snapshot-friendly view of a participant.
type LeaderboardEntry struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Rank          int    `json:"rank"`
}

// Leaderboard captures the ordered scoreboard for a session.
type Leaderboard struct {
	SessionID string             `json:"sessionId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// RoundView is the client-facing part of an active round. Answer and
// Explanation stay empty until the answer is revealed.
type RoundView struct {
	State       RoundState   `json:"state"`
	Generation  uint64       `json:"generation"`
	Winner      *Participant `json:"winner,omitempty"`
	Question    string       `json:"question,omitempty"`
	Answer      string       `json:"answer,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Category    Category     `json:"category,omitempty"`
	Difficulty  Difficulty   `json:"difficulty,omitempty"`
	TimeLeft    int          `json:"timeLeft"`
}

// GameSnapshot is pushed to subscribers after every transition.
type GameSnapshot struct {
	SessionID    string        `json:"sessionId"`
	Participants []Participant `json:"participants"`
	Wheel        WheelState    `json:"wheel"`
	Round        RoundView     `json:"round"`
	Settings     Settings      `json:"settings"`
	Muted        bool          `json:"muted"`
	Leaderboard  Leaderboard   `json:"leaderboard"`
}
