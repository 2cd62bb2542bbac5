package domain

import "time"

// Status is the lifecycle phase of a game. Transitions are monotonic:
// waiting -> playing -> finished.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

const (
	// MaxPlayers caps the roster of a single game, host included.
	MaxPlayers = 6
	// QuestionsPerGame is how many questions are drawn when a game starts.
	QuestionsPerGame = 10
	// QuestionTimeLimit is the per-question answer window used for both
	// scoring and client-side expiry display.
	QuestionTimeLimit = 15 * time.Second
)

// Question is a single trivia item: a prompt with exactly four options.
// Once sampled into a game it is a frozen copy; the bank is never mutated
// by gameplay.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Category     string   `json:"category,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
}

// IsValidOption reports whether idx points at one of the question's options.
func (q Question) IsValidOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}

// IsCorrect reports whether idx is the authoritative correct option.
func (q Question) IsCorrect(idx int) bool {
	return idx == q.CorrectIndex
}

// AnswerRecord captures one player's answer to one question. It is created
// once and never mutated afterwards.
type AnswerRecord struct {
	QuestionIndex int       `json:"questionIndex"`
	SelectedIndex int       `json:"selectedIndex"`
	IsCorrect     bool      `json:"isCorrect"`
	PointsAwarded int       `json:"pointsAwarded"`
	ElapsedMillis int64     `json:"elapsedMillis"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Player is a participant in a single game, identified by a client-supplied
// opaque id. Score only ever grows within a game.
type Player struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Score    int                  `json:"score"`
	JoinedAt time.Time            `json:"joinedAt"`
	Answers  map[int]AnswerRecord `json:"answers,omitempty"`
}

// Game is the root document for one trivia session. Players and their answer
// records are owned by the game and die with it.
type Game struct {
	ID                   string     `json:"id"`
	HostID               string     `json:"hostId"`
	Status               Status     `json:"status"`
	Players              []Player   `json:"players"`
	Questions            []Question `json:"questions,omitempty"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	QuestionStartTime    *time.Time `json:"questionStartTime,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	StartedAt            *time.Time `json:"startedAt,omitempty"`
	FinishedAt           *time.Time `json:"finishedAt,omitempty"`
}

// AnswerResult is what a player gets back from submitting an answer. The
// correct index is revealed so clients can show immediate feedback.
type AnswerResult struct {
	IsCorrect       bool  `json:"isCorrect"`
	PointsAwarded   int   `json:"pointsAwarded"`
	CorrectIndex    int   `json:"correctIndex"`
	ElapsedMillis   int64 `json:"elapsedMillis"`
	AlreadyAnswered bool  `json:"alreadyAnswered"`
}

// AdvanceResult reports the outcome of moving to the next question.
type AdvanceResult struct {
	Finished  bool `json:"finished"`
	NextIndex int  `json:"nextIndex"`
}

// LoggedAnswer is one row of the append-only answer history kept alongside
// the game documents for post-game review.
type LoggedAnswer struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	AnswerRecord
}

// LeaderboardEntry is one row of the ranked scoreboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}
