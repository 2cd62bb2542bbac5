package domain

import (
	"math"
	"time"
)

// MaxPointsPerQuestion is the score for an instant correct answer.
const MaxPointsPerQuestion = 1000

// Score maps an answer's correctness and latency to points. Wrong answers
// earn nothing. Correct answers earn half the points as a base plus a speed
// bonus that decays linearly over the time limit: 1000 at elapsed zero down
// to 500 at the limit. Past the limit the bonus clamps to zero, so a
// correct-but-late answer still keeps the 500 floor.
func Score(isCorrect bool, elapsed, timeLimit time.Duration) int {
	if !isCorrect {
		return 0
	}
	if timeLimit <= 0 {
		timeLimit = QuestionTimeLimit
	}
	bonus := float64(timeLimit-elapsed) / float64(timeLimit)
	if bonus < 0 {
		bonus = 0
	}
	if bonus > 1 {
		bonus = 1
	}
	return int(math.Round(MaxPointsPerQuestion * (0.5 + 0.5*bonus)))
}
