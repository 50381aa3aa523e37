package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldSuppressWithinCooldown(t *testing.T) {
	cooldown := 30 * time.Minute
	calledAt := testNow()

	// inside the window even a huge jump stays suppressed
	now := calledAt.Add(cooldown - time.Second)
	assert.True(t, ShouldSuppress(60, calledAt, 99, now, cooldown, 5.0))
	assert.True(t, ShouldSuppress(60, calledAt, 60, now, cooldown, 5.0))
}

func TestShouldSuppressAfterCooldownNeedsScoreJump(t *testing.T) {
	cooldown := 30 * time.Minute
	calledAt := testNow()
	now := calledAt.Add(cooldown + time.Second)

	assert.True(t, ShouldSuppress(60, calledAt, 64.9, now, cooldown, 5.0))
	assert.False(t, ShouldSuppress(60, calledAt, 65, now, cooldown, 5.0))
	assert.False(t, ShouldSuppress(60, calledAt, 66, now, cooldown, 5.0))
}

func TestShouldSuppressJumpIsSymmetric(t *testing.T) {
	cooldown := 30 * time.Minute
	calledAt := testNow()
	now := calledAt.Add(time.Hour)

	// a collapse of 5+ points also clears the repost bar
	assert.False(t, ShouldSuppress(70, calledAt, 64, now, cooldown, 5.0))
	assert.True(t, ShouldSuppress(70, calledAt, 67, now, cooldown, 5.0))
}

func TestShouldSuppressExactCooldownBoundary(t *testing.T) {
	cooldown := 30 * time.Minute
	calledAt := testNow()

	// at exactly T+cooldown the window has elapsed; jump rule decides
	now := calledAt.Add(cooldown)
	assert.False(t, ShouldSuppress(60, calledAt, 70, now, cooldown, 5.0))
	assert.True(t, ShouldSuppress(60, calledAt, 62, now, cooldown, 5.0))
}
