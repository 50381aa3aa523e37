package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	batches [][]ScoredCard
	err     error
}

func (c *captureSink) Post(cards []ScoredCard) error {
	c.batches = append(c.batches, cards)
	return c.err
}

func TestDispatchDeliveryFailureRecordsNothing(t *testing.T) {
	sink := &captureSink{err: errors.New("discord webhook responded 500 Internal Server Error")}
	// stores deliberately absent: touching one after a failed delivery
	// would panic, which is exactly what must not happen
	s := &Scanner{notifier: sink}

	card := ScoredCard{Pair: pairWith(30, 5000, 40000, 5, 10, 7, 3, 1000, 57600), Score: 72}

	var err error
	require.NotPanics(t, func() { err = s.dispatch([]ScoredCard{card}) })
	require.Error(t, err)
	assert.Len(t, sink.batches, 1)
}

func TestTallyRejectsCountsEachReason(t *testing.T) {
	tally := map[string]int{}
	tallyRejects(tally, []string{"liq<2000", "fdv<30000"})
	tallyRejects(tally, []string{"liq<2000"})
	tallyRejects(tally, []string{"rules_fail"})

	assert.Equal(t, map[string]int{"liq<2000": 2, "fdv<30000": 1, "rules_fail": 1}, tally)
}
