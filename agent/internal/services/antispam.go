package services

import (
	"math"
	"time"
)

// ShouldSuppress decides whether a fresh qualification for an
// already-called pair is a duplicate. Inside the cool-down window every
// repost is suppressed regardless of score; after it, the score still has
// to move by at least minJump to bypass suppression, which filters re-alerts
// caused by score jitter. Callers pass the most recent prior call; a pair
// with no prior call is never a duplicate.
func ShouldSuppress(lastScore float64, lastCalledAt time.Time, newScore float64, now time.Time, cooldown time.Duration, minJump float64) bool {
	if now.Sub(lastCalledAt) < cooldown {
		return true
	}
	return math.Abs(lastScore-newScore) < minJump
}
