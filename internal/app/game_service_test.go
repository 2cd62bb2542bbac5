package app_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service *app.GameService
	store   *memory.GameStore
	bank    *memory.QuestionBank
	answers *memory.AnswerLog
	clock   *time.Time
}

func newFixture(questions []domain.Question) *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	now := t0
	f := &fixture{
		store:   memory.NewGameStore(),
		bank:    memory.NewQuestionBank(questions),
		answers: memory.NewAnswerLog(),
		clock:   &now,
	}
	f.service = app.NewGameServiceWithClock(f.store, f.bank, f.answers, log, func() time.Time { return *f.clock })
	return f
}

func (f *fixture) advanceClock(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

// fixedBank always answers index 2 so scenario tests know what's correct.
func fixedBank() []domain.Question {
	questions := make([]domain.Question, domain.QuestionsPerGame)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           "q" + string(rune('a'+i)),
			Prompt:       "pick the third option",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 2,
		}
	}
	return questions
}

func TestCreateGameHostIsFirstPlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, err := f.service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(game.ID) != 6 {
		t.Fatalf("expected 6-char code, got %q", game.ID)
	}
	if game.Status != domain.StatusWaiting || game.HostID != "host-1" {
		t.Fatalf("unexpected game: %+v", game)
	}
	if len(game.Players) != 1 || game.Players[0].Name != "Alice" {
		t.Fatalf("host not on roster: %+v", game.Players)
	}
}

// collidingStore forces code collisions for the first few creates.
type collidingStore struct {
	app.GameStore
	collisions int
	attempts   int
}

func (s *collidingStore) Create(ctx context.Context, game *domain.Game) error {
	s.attempts++
	if s.attempts <= s.collisions {
		return domain.ErrGameIDTaken
	}
	return s.GameStore.Create(ctx, game)
}

func TestCreateGameRetriesOnCodeCollision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())
	store := &collidingStore{GameStore: f.store, collisions: 3}
	log := logrus.New()
	log.SetOutput(io.Discard)
	service := app.NewGameServiceWithClock(store, f.bank, f.answers, log, func() time.Time { return t0 })

	game, err := service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", store.attempts)
	}
	if game == nil {
		t.Fatalf("expected game after retries")
	}
}

func TestCreateGameGivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())
	store := &collidingStore{GameStore: f.store, collisions: 100}
	log := logrus.New()
	log.SetOutput(io.Discard)
	service := app.NewGameServiceWithClock(store, f.bank, f.answers, log, func() time.Time { return t0 })

	if _, err := service.CreateGame(ctx, "host-1", "Alice"); !errors.Is(err, domain.ErrGameIDTaken) {
		t.Fatalf("expected ErrGameIDTaken, got %v", err)
	}
}

func TestJoinGameIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, err := f.service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, player, err := f.service.JoinGame(ctx, game.ID, "p2", "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	updated, again, err := f.service.JoinGame(ctx, game.ID, "p2", "Bob")
	if err != nil {
		t.Fatalf("re-join: %v", err)
	}
	if again.ID != player.ID || len(updated.Players) != 2 {
		t.Fatalf("re-join not idempotent: %+v", updated.Players)
	}

	if _, _, err := f.service.JoinGame(ctx, "NOPE42", "p3", "Cara"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestStartGameSeedsEmptyBank(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	game, err := f.service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	started, err := f.service.StartGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != domain.StatusPlaying {
		t.Fatalf("expected playing, got %s", started.Status)
	}
	if len(started.Questions) != domain.QuestionsPerGame {
		t.Fatalf("expected %d questions, got %d", domain.QuestionsPerGame, len(started.Questions))
	}
	if started.QuestionStartTime == nil || !started.QuestionStartTime.Equal(t0) {
		t.Fatalf("question start not stamped: %v", started.QuestionStartTime)
	}
	if f.bank.Len() != len(domain.DefaultQuestions()) {
		t.Fatalf("bank not seeded: %d", f.bank.Len())
	}
}

// seedCountingBank records SeedIfEmpty calls around a real bank.
type seedCountingBank struct {
	app.QuestionBank
	seeds int
}

func (b *seedCountingBank) SeedIfEmpty(ctx context.Context, defaults []domain.Question) error {
	b.seeds++
	return b.QuestionBank.SeedIfEmpty(ctx, defaults)
}

func TestStartGameDoesNotReseedStockedBank(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())
	bank := &seedCountingBank{QuestionBank: f.bank}
	log := logrus.New()
	log.SetOutput(io.Discard)
	service := app.NewGameServiceWithClock(f.store, bank, f.answers, log, func() time.Time { return t0 })

	game, err := service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if bank.seeds != 0 {
		t.Fatalf("stocked bank was reseeded %d times", bank.seeds)
	}
}

func TestStartGameTwiceFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, _ := f.service.CreateGame(ctx, "host-1", "Alice")
	if _, err := f.service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.service.StartGame(ctx, game.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSubmitAnswerScoresAndLogs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, _ := f.service.CreateGame(ctx, "host-1", "Alice")
	if _, _, err := f.service.JoinGame(ctx, game.ID, "p2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := f.service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Host answers instantly and correctly; the client-claimed elapsed time
	// is deliberately nonsense and must not affect scoring.
	result, _, err := f.service.SubmitAnswer(ctx, game.ID, "host-1", 2, 99999)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.IsCorrect || result.PointsAwarded != 1000 {
		t.Fatalf("host result: %+v", result)
	}

	// Bob answers wrong five seconds in.
	f.advanceClock(5 * time.Second)
	result, updated, err := f.service.SubmitAnswer(ctx, game.ID, "p2", 1, 0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.IsCorrect || result.PointsAwarded != 0 || result.CorrectIndex != 2 {
		t.Fatalf("bob result: %+v", result)
	}
	if result.ElapsedMillis != 5000 {
		t.Fatalf("server elapsed = %d, want 5000", result.ElapsedMillis)
	}

	host, _ := updated.FindPlayer("host-1")
	bob, _ := updated.FindPlayer("p2")
	if host.Score != 1000 || bob.Score != 0 {
		t.Fatalf("scores host=%d bob=%d", host.Score, bob.Score)
	}

	entries, err := f.service.ListAnswers(ctx, game.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 logged answers, got %d", len(entries))
	}
}

func TestSubmitAnswerDuplicateDoesNotDoubleScore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, _ := f.service.CreateGame(ctx, "host-1", "Alice")
	if _, err := f.service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	first, _, err := f.service.SubmitAnswer(ctx, game.ID, "host-1", 2, 0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	retry, updated, err := f.service.SubmitAnswer(ctx, game.ID, "host-1", 0, 0)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !retry.AlreadyAnswered || retry.PointsAwarded != first.PointsAwarded {
		t.Fatalf("retry result: %+v", retry)
	}

	host, _ := updated.FindPlayer("host-1")
	if host.Score != first.PointsAwarded {
		t.Fatalf("duplicate changed score: %d", host.Score)
	}
	entries, _ := f.service.ListAnswers(ctx, game.ID)
	if len(entries) != 1 {
		t.Fatalf("duplicate reached the answer log: %d entries", len(entries))
	}
}

func TestAdvanceQuestionRacesAtTheEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, _ := f.service.CreateGame(ctx, "host-1", "Alice")
	if _, err := f.service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	var last domain.AdvanceResult
	for i := 0; i < domain.QuestionsPerGame; i++ {
		res, _, err := f.service.AdvanceQuestion(ctx, game.ID)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		last = res
	}
	if !last.Finished {
		t.Fatalf("expected finished after %d advances", domain.QuestionsPerGame)
	}

	snapshot, _ := f.service.GetGame(ctx, game.ID)
	finishedAt := *snapshot.FinishedAt

	// A racing expiry trigger fires again: still finished, nothing moves.
	res, updated, err := f.service.AdvanceQuestion(ctx, game.ID)
	if err != nil {
		t.Fatalf("advance on finished: %v", err)
	}
	if !res.Finished || !updated.FinishedAt.Equal(finishedAt) {
		t.Fatalf("no-op advance mutated the game: %+v", updated)
	}
}

func TestFullGameScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, err := f.service.CreateGame(ctx, "a", "A")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := f.service.JoinGame(ctx, game.ID, "b", "B"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := f.service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if res, _, err := f.service.SubmitAnswer(ctx, game.ID, "a", 2, 0); err != nil || !res.IsCorrect || res.PointsAwarded != 1000 {
		t.Fatalf("A's answer: res=%+v err=%v", res, err)
	}
	f.advanceClock(5 * time.Second)
	if res, _, err := f.service.SubmitAnswer(ctx, game.ID, "b", 1, 5000); err != nil || res.IsCorrect || res.PointsAwarded != 0 {
		t.Fatalf("B's answer: res=%+v err=%v", res, err)
	}

	var finished *domain.Game
	for {
		res, g, err := f.service.AdvanceQuestion(ctx, game.ID)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res.Finished {
			finished = g
			break
		}
	}

	board := domain.Leaderboard(finished.Players)
	if len(board) != 2 || board[0].PlayerID != "a" || board[0].Score != 1000 || board[1].PlayerID != "b" || board[1].Score != 0 {
		t.Fatalf("final leaderboard: %+v", board)
	}
}

func TestWatchReceivesSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(fixedBank())

	game, err := f.service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updates, cancel := f.service.Watch(game.ID)
	defer cancel()

	if _, _, err := f.service.JoinGame(ctx, game.ID, "p2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	select {
	case snapshot := <-updates:
		if len(snapshot.Players) != 2 {
			t.Fatalf("expected join snapshot, got %+v", snapshot.Players)
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot delivered")
	}
}
