package domain

import "errors"

var (
	// ErrGameNotFound is returned when no game exists for the given code.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameIDTaken is returned when a freshly generated game code collides
	// with an existing document. Callers retry with a new code.
	ErrGameIDTaken = errors.New("game id already taken")
	// ErrGameStarted is returned when a new player tries to join a game that
	// has left the waiting phase.
	ErrGameStarted = errors.New("game already started")
	// ErrGameFull is returned when the roster is at capacity.
	ErrGameFull = errors.New("game is full")
	// ErrGameNotPlaying is returned when an in-game operation hits a game
	// that is not in the playing phase.
	ErrGameNotPlaying = errors.New("game not in progress")
	// ErrInvalidTransition is returned for lifecycle moves the state machine
	// forbids, such as starting an already started game.
	ErrInvalidTransition = errors.New("invalid game state transition")
	// ErrPlayerNotFound is returned when a player acts in a game they never
	// joined.
	ErrPlayerNotFound = errors.New("player not found in game")
	// ErrInvalidOption is returned when a submitted option index is out of
	// range for the current question.
	ErrInvalidOption = errors.New("selected option out of range")
	// ErrInsufficientQuestions is returned when the bank cannot supply the
	// requested sample size.
	ErrInsufficientQuestions = errors.New("not enough questions in bank")
)
