package domain

import "time"

// NewGame builds a fresh waiting game with the host as its first player.
func NewGame(id, hostID, hostName string, now time.Time) *Game {
	return &Game{
		ID:     id,
		HostID: hostID,
		Status: StatusWaiting,
		Players: []Player{{
			ID:       hostID,
			Name:     hostName,
			JoinedAt: now,
			Answers:  make(map[int]AnswerRecord),
		}},
		CreatedAt: now,
	}
}

// FindPlayer returns the player with the given id and whether they exist.
func (g *Game) FindPlayer(playerID string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// CurrentQuestion returns the live question while the game is playing.
func (g *Game) CurrentQuestion() (Question, bool) {
	if g.Status != StatusPlaying {
		return Question{}, false
	}
	if g.CurrentQuestionIndex < 0 || g.CurrentQuestionIndex >= len(g.Questions) {
		return Question{}, false
	}
	return g.Questions[g.CurrentQuestionIndex], true
}

// Join adds a player to a waiting game. Joining twice with the same id is
// idempotent: the existing player is returned and the roster is unchanged.
func (g *Game) Join(playerID, name string, now time.Time) (Player, error) {
	if existing, ok := g.FindPlayer(playerID); ok {
		return *existing, nil
	}
	if g.Status != StatusWaiting {
		return Player{}, ErrGameStarted
	}
	if len(g.Players) >= MaxPlayers {
		return Player{}, ErrGameFull
	}
	player := Player{
		ID:       playerID,
		Name:     name,
		JoinedAt: now,
		Answers:  make(map[int]AnswerRecord),
	}
	g.Players = append(g.Players, player)
	return player, nil
}

// Start moves a waiting game into the playing phase with the given question
// snapshot. Starting a game twice fails with ErrInvalidTransition.
func (g *Game) Start(questions []Question, now time.Time) error {
	if g.Status != StatusWaiting {
		return ErrInvalidTransition
	}
	if len(questions) == 0 {
		return ErrInsufficientQuestions
	}
	g.Questions = questions
	g.Status = StatusPlaying
	g.CurrentQuestionIndex = 0
	start := now
	g.QuestionStartTime = &start
	g.StartedAt = &start
	return nil
}

// Submit records a player's answer to the current question and awards points.
// Elapsed time is measured against the server-stamped question start, never a
// client clock. A repeat submit for the same question returns the original
// record untouched, so client retries can never double-score.
func (g *Game) Submit(playerID string, selectedIndex int, now time.Time) (AnswerResult, error) {
	if g.Status != StatusPlaying {
		return AnswerResult{}, ErrGameNotPlaying
	}
	player, ok := g.FindPlayer(playerID)
	if !ok {
		return AnswerResult{}, ErrPlayerNotFound
	}
	question, ok := g.CurrentQuestion()
	if !ok || g.QuestionStartTime == nil {
		return AnswerResult{}, ErrGameNotPlaying
	}
	if !question.IsValidOption(selectedIndex) {
		return AnswerResult{}, ErrInvalidOption
	}

	if prior, ok := player.Answers[g.CurrentQuestionIndex]; ok {
		return AnswerResult{
			IsCorrect:       prior.IsCorrect,
			PointsAwarded:   prior.PointsAwarded,
			CorrectIndex:    question.CorrectIndex,
			ElapsedMillis:   prior.ElapsedMillis,
			AlreadyAnswered: true,
		}, nil
	}

	elapsed := now.Sub(*g.QuestionStartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	isCorrect := question.IsCorrect(selectedIndex)
	points := Score(isCorrect, elapsed, QuestionTimeLimit)

	if player.Answers == nil {
		player.Answers = make(map[int]AnswerRecord)
	}
	player.Answers[g.CurrentQuestionIndex] = AnswerRecord{
		QuestionIndex: g.CurrentQuestionIndex,
		SelectedIndex: selectedIndex,
		IsCorrect:     isCorrect,
		PointsAwarded: points,
		ElapsedMillis: elapsed.Milliseconds(),
		SubmittedAt:   now,
	}
	player.Score += points

	return AnswerResult{
		IsCorrect:     isCorrect,
		PointsAwarded: points,
		CorrectIndex:  question.CorrectIndex,
		ElapsedMillis: elapsed.Milliseconds(),
	}, nil
}

// Advance moves the game to the next question or, past the last one, into the
// finished phase. Advancing a finished game is a no-op reporting finished, so
// racing timer triggers cannot double-advance past the boundary.
func (g *Game) Advance(now time.Time) (AdvanceResult, error) {
	switch g.Status {
	case StatusFinished:
		return AdvanceResult{Finished: true, NextIndex: g.CurrentQuestionIndex}, nil
	case StatusPlaying:
	default:
		return AdvanceResult{}, ErrGameNotPlaying
	}

	g.CurrentQuestionIndex++
	if g.CurrentQuestionIndex >= len(g.Questions) {
		g.Status = StatusFinished
		finished := now
		g.FinishedAt = &finished
		g.QuestionStartTime = nil
		return AdvanceResult{Finished: true, NextIndex: g.CurrentQuestionIndex}, nil
	}
	start := now
	g.QuestionStartTime = &start
	return AdvanceResult{NextIndex: g.CurrentQuestionIndex}, nil
}

// TimeRemaining reports how long the current question stays open, clamped at
// zero. Clients recompute this from the fixed start anchor on every tick
// instead of counting down locally, so paused tabs self-correct.
func (g *Game) TimeRemaining(now time.Time) time.Duration {
	if g.Status != StatusPlaying || g.QuestionStartTime == nil {
		return 0
	}
	remaining := QuestionTimeLimit - now.Sub(*g.QuestionStartTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}
