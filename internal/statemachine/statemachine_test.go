package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukydev/fleet-ops-ledger/internal/faults"
)

type stage string

const (
	stageNew    stage = "new"
	stageActive stage = "active"
	stageDone   stage = "done"
)

func testMachine() *Machine[stage] {
	return New("widget", map[stage][]stage{
		stageNew:    {stageActive},
		stageActive: {stageDone},
	})
}

func TestMachine_Can(t *testing.T) {
	m := testMachine()

	assert.True(t, m.Can(stageNew, stageActive))
	assert.True(t, m.Can(stageActive, stageDone))
	assert.False(t, m.Can(stageNew, stageDone))
	assert.False(t, m.Can(stageDone, stageActive))
	assert.False(t, m.Can(stageActive, stageActive))
}

func TestMachine_Terminal(t *testing.T) {
	m := testMachine()

	assert.False(t, m.Terminal(stageNew))
	assert.False(t, m.Terminal(stageActive))
	assert.True(t, m.Terminal(stageDone))
	// Unknown states have no outgoing transitions.
	assert.True(t, m.Terminal(stage("bogus")))
}

func TestMachine_Check(t *testing.T) {
	m := testMachine()

	assert.NoError(t, m.Check(stageNew, stageActive))

	err := m.Check(stageDone, stageNew)
	assert.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrInvalidTransition)

	var terr *faults.TransitionError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, "widget", terr.Entity)
	assert.Equal(t, "done", terr.From)
	assert.Equal(t, "new", terr.To)
}
