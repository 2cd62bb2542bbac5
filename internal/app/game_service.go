package app

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"trivia-game-service/internal/domain"
)

// GameStore is the single authoritative owner of game documents. Every
// mutation goes through Update, which the implementation must apply as one
// atomic conditional write so racing callers never lose each other's changes.
type GameStore interface {
	// Create inserts a new game document, failing with
	// domain.ErrGameIDTaken if the code is already in use.
	Create(ctx context.Context, game *domain.Game) error
	Get(ctx context.Context, id string) (*domain.Game, error)
	// Update loads the document, applies mutate, and writes it back
	// conditionally on the document not having changed underneath. If
	// mutate returns an error nothing is written and the error surfaces
	// unchanged.
	Update(ctx context.Context, id string, mutate func(*domain.Game) error) (*domain.Game, error)
	ListWaiting(ctx context.Context) ([]*domain.Game, error)
}

// QuestionBank supplies random question samples for new games.
type QuestionBank interface {
	// Sample returns n questions drawn without replacement, failing with
	// domain.ErrInsufficientQuestions when the bank is too small.
	Sample(ctx context.Context, n int) ([]domain.Question, error)
	// SeedIfEmpty inserts defaults only when the bank holds nothing yet.
	// Must be a no-op once any data exists, even under concurrent callers.
	SeedIfEmpty(ctx context.Context, defaults []domain.Question) error
}

// AnswerLog keeps an append-only history of scored answers for post-game
// review. Failures here never fail the gameplay path.
type AnswerLog interface {
	Append(ctx context.Context, entry domain.LoggedAnswer) error
	ListByGame(ctx context.Context, gameID string) ([]domain.LoggedAnswer, error)
}

// GameService contains the trivia game use cases: room lifecycle, answer
// scoring, and question progression.
type GameService struct {
	store       GameStore
	bank        QuestionBank
	answers     AnswerLog
	broadcaster *Broadcaster
	log         *logrus.Logger
	now         func() time.Time
}

func NewGameService(store GameStore, bank QuestionBank, answers AnswerLog, log *logrus.Logger) *GameService {
	return &GameService{
		store:       store,
		bank:        bank,
		answers:     answers,
		broadcaster: NewBroadcaster(),
		log:         log,
		now:         time.Now,
	}
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(store GameStore, bank QuestionBank, answers AnswerLog, log *logrus.Logger, now func() time.Time) *GameService {
	s := NewGameService(store, bank, answers, log)
	s.now = now
	return s
}

// createAttempts bounds retries on game code collisions.
const createAttempts = 5

// CreateGame allocates a fresh shareable code and stores a waiting game with
// the host as its first player. Code collisions are detected by the store
// and retried here with a new code rather than overwriting.
func (s *GameService) CreateGame(ctx context.Context, hostID, hostName string) (*domain.Game, error) {
	if hostName == "" {
		hostName = "Anonymous Host"
	}
	var lastErr error
	for i := 0; i < createAttempts; i++ {
		game := domain.NewGame(newGameCode(), hostID, hostName, s.now())
		if err := s.store.Create(ctx, game); err != nil {
			if errors.Is(err, domain.ErrGameIDTaken) {
				lastErr = err
				continue
			}
			return nil, err
		}
		s.log.WithFields(logrus.Fields{"game": game.ID, "host": hostID}).Info("game created")
		s.broadcaster.Publish(game)
		return game, nil
	}
	return nil, lastErr
}

// GetGame fetches the current snapshot of a game.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.Get(ctx, gameID)
}

// ListOpenGames returns games still in the waiting phase, for the lobby
// browser.
func (s *GameService) ListOpenGames(ctx context.Context) ([]*domain.Game, error) {
	return s.store.ListWaiting(ctx)
}

// JoinGame adds a player to a waiting game. Re-joining with the same player
// id is idempotent and succeeds even on a full or started game.
func (s *GameService) JoinGame(ctx context.Context, gameID, playerID, playerName string) (*domain.Game, domain.Player, error) {
	if playerName == "" {
		playerName = "Anonymous"
	}
	var player domain.Player
	game, err := s.store.Update(ctx, gameID, func(g *domain.Game) error {
		p, err := g.Join(playerID, playerName, s.now())
		if err != nil {
			return err
		}
		player = p
		return nil
	})
	if err != nil {
		return nil, domain.Player{}, err
	}
	s.log.WithFields(logrus.Fields{"game": gameID, "player": playerID}).Info("player joined")
	s.broadcaster.Publish(game)
	return game, player, nil
}

// StartGame samples the question set and moves the game into the playing
// phase, stamping the first question's start time with the server clock. A
// bank too small to fill a game is seeded with the built-in set and sampled
// again.
func (s *GameService) StartGame(ctx context.Context, gameID string) (*domain.Game, error) {
	questions, err := s.bank.Sample(ctx, domain.QuestionsPerGame)
	if errors.Is(err, domain.ErrInsufficientQuestions) {
		if seedErr := s.bank.SeedIfEmpty(ctx, domain.DefaultQuestions()); seedErr != nil {
			return nil, seedErr
		}
		questions, err = s.bank.Sample(ctx, domain.QuestionsPerGame)
	}
	if err != nil {
		return nil, err
	}

	game, err := s.store.Update(ctx, gameID, func(g *domain.Game) error {
		return g.Start(questions, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"game": gameID, "questions": len(questions)}).Info("game started")
	s.broadcaster.Publish(game)
	return game, nil
}

// SubmitAnswer scores a player's answer to the current question against the
// server clock. clientElapsedMs is what the client's own timer claimed; it is
// logged for drift diagnostics and never trusted for scoring. Duplicate
// submits return the original result without touching state.
func (s *GameService) SubmitAnswer(ctx context.Context, gameID, playerID string, selectedIndex int, clientElapsedMs int64) (domain.AnswerResult, *domain.Game, error) {
	var result domain.AnswerResult
	game, err := s.store.Update(ctx, gameID, func(g *domain.Game) error {
		res, err := g.Submit(playerID, selectedIndex, s.now())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.AnswerResult{}, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"game":          gameID,
		"player":        playerID,
		"correct":       result.IsCorrect,
		"points":        result.PointsAwarded,
		"elapsedMs":     result.ElapsedMillis,
		"clientElapsed": clientElapsedMs,
		"duplicate":     result.AlreadyAnswered,
	}).Info("answer submitted")

	if !result.AlreadyAnswered {
		record := domain.LoggedAnswer{
			GameID:   gameID,
			PlayerID: playerID,
			AnswerRecord: domain.AnswerRecord{
				QuestionIndex: game.CurrentQuestionIndex,
				SelectedIndex: selectedIndex,
				IsCorrect:     result.IsCorrect,
				PointsAwarded: result.PointsAwarded,
				ElapsedMillis: result.ElapsedMillis,
				SubmittedAt:   s.now(),
			},
		}
		if err := s.answers.Append(ctx, record); err != nil {
			s.log.WithError(err).WithField("game", gameID).Warn("answer log append failed")
		}
	}

	s.broadcaster.Publish(game)
	return result, game, nil
}

// AdvanceQuestion moves the game to the next question, finishing it past the
// last one. Advancing an already finished game reports finished without
// error, since multiple expiry triggers racing is expected.
func (s *GameService) AdvanceQuestion(ctx context.Context, gameID string) (domain.AdvanceResult, *domain.Game, error) {
	var result domain.AdvanceResult
	game, err := s.store.Update(ctx, gameID, func(g *domain.Game) error {
		res, err := g.Advance(s.now())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.AdvanceResult{}, nil, err
	}
	s.log.WithFields(logrus.Fields{"game": gameID, "next": result.NextIndex, "finished": result.Finished}).Info("question advanced")
	s.broadcaster.Publish(game)
	return result, game, nil
}

// ListAnswers returns the append-only answer history for a game.
func (s *GameService) ListAnswers(ctx context.Context, gameID string) ([]domain.LoggedAnswer, error) {
	if _, err := s.store.Get(ctx, gameID); err != nil {
		return nil, err
	}
	return s.answers.ListByGame(ctx, gameID)
}

// Watch subscribes to snapshot updates for a game. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *GameService) Watch(gameID string) (<-chan *domain.Game, func()) {
	return s.broadcaster.Subscribe(gameID)
}

// Now exposes the service clock so transports stamp snapshots consistently.
func (s *GameService) Now() time.Time {
	return s.now()
}

// codeAlphabet omits 0/O/1/I so codes stay easy to read out loud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// newGameCode produces a short human-shareable room code. Uniqueness is not
// guaranteed here; the store's conditional insert catches collisions.
func newGameCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
