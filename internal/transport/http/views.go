package http

import (
	"time"

	"trivia-game-service/internal/domain"
)

// questionView is what polling clients see of the live question: prompt and
// options only. The correct index stays server-side until the answer result
// or the finished-game review.
type questionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// playerView flattens a player for display; per-question records stay out of
// the snapshot except for whether the current question was answered.
type playerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Answered bool   `json:"answered"`
}

// gameView is the polled snapshot. ServerTime and QuestionStartTime together
// let clients recompute remaining time from the fixed anchor on every local
// tick instead of trusting their own elapsed counters.
type gameView struct {
	ID                   string                    `json:"id"`
	HostID               string                    `json:"hostId"`
	Status               domain.Status             `json:"status"`
	Players              []playerView              `json:"players"`
	Leaderboard          []domain.LeaderboardEntry `json:"leaderboard"`
	TotalQuestions       int                       `json:"totalQuestions"`
	CurrentQuestionIndex int                       `json:"currentQuestionIndex"`
	CurrentQuestion      *questionView             `json:"currentQuestion,omitempty"`
	Questions            []domain.Question         `json:"questions,omitempty"`
	QuestionStartTime    *time.Time                `json:"questionStartTime,omitempty"`
	ServerTime           time.Time                 `json:"serverTime"`
	TimeRemainingMs      int64                     `json:"timeRemainingMs"`
	CreatedAt            time.Time                 `json:"createdAt"`
	StartedAt            *time.Time                `json:"startedAt,omitempty"`
	FinishedAt           *time.Time                `json:"finishedAt,omitempty"`
}

func newGameView(g *domain.Game, now time.Time) gameView {
	view := gameView{
		ID:                   g.ID,
		HostID:               g.HostID,
		Status:               g.Status,
		Players:              make([]playerView, 0, len(g.Players)),
		Leaderboard:          domain.Leaderboard(g.Players),
		TotalQuestions:       len(g.Questions),
		CurrentQuestionIndex: g.CurrentQuestionIndex,
		QuestionStartTime:    g.QuestionStartTime,
		ServerTime:           now,
		TimeRemainingMs:      g.TimeRemaining(now).Milliseconds(),
		CreatedAt:            g.CreatedAt,
		StartedAt:            g.StartedAt,
		FinishedAt:           g.FinishedAt,
	}
	for _, p := range g.Players {
		_, answered := p.Answers[g.CurrentQuestionIndex]
		view.Players = append(view.Players, playerView{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Answered: answered && g.Status == domain.StatusPlaying,
		})
	}
	if question, ok := g.CurrentQuestion(); ok {
		view.CurrentQuestion = &questionView{
			ID:      question.ID,
			Prompt:  question.Prompt,
			Options: question.Options,
		}
	}
	// Full question set, correct answers included, is only revealed once the
	// game is over.
	if g.Status == domain.StatusFinished {
		view.Questions = g.Questions
	}
	return view
}
