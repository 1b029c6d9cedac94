package ir

import (
	"testing"

	"github.com/dekarrin/gudgeon/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// digitPlusAutomaton builds the automaton for "one or more digits": state 0
// is the entry, state 1 accepts with action "INT" and loops on digits, and
// state 2 is the dead/terminal state every other input falls into.
func digitPlusAutomaton() *automaton.Automaton[string] {
	a := automaton.New(automaton.NormalState[string]())
	accept := a.AddState(automaton.ActionState("INT"))
	dead := a.AddState(automaton.NormalState[string]())

	digits := automaton.NewRange('0', '9')
	before := automaton.NewRange(automaton.Min, '0'-1)
	after := automaton.NewRange('9'+1, automaton.Max)

	a.AddEdge(0, accept, digits)
	a.AddEdge(0, dead, before)
	a.AddEdge(0, dead, after)

	a.AddEdge(accept, accept, digits)
	a.AddEdge(accept, dead, before)
	a.AddEdge(accept, dead, after)

	a.AddEdge(dead, dead, automaton.Full())

	return a
}

func Test_FromAutomaton_ClassifiesAndEmits(t *testing.T) {
	assert := assert.New(t)

	a := digitPlusAutomaton()
	prog := FromAutomaton(a)
	code := prog.Flatten()
	assert.NotEmpty(code)
}

func Test_Vm_MatchesLongestRunOfDigits(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	code := FromAutomaton(digitPlusAutomaton()).Flatten()
	vm := NewVm(code, "12a")

	res := vm.Run()
	require.Equal(ResultAction, res.Kind)
	assert.Equal(0, res.Start)
	assert.Equal(2, res.End)
	assert.Equal("INT", res.Value)
}

func Test_Vm_ErrorSpanConsumesAtLeastOneChar(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	code := FromAutomaton(digitPlusAutomaton()).Flatten()
	vm := NewVm(code, "a1")

	res := vm.Run()
	require.Equal(ResultError, res.Kind)
	assert.Equal(0, res.Start)
	assert.Greater(res.End, res.Start)

	// the VM must have advanced past the bad character so the next run
	// starts fresh rather than looping on the same position.
	res2 := vm.Run()
	require.Equal(ResultAction, res2.Kind)
	assert.Equal(res.End, res2.Start)
	assert.Equal("INT", res2.Value)
}

func Test_Vm_EoiAtEndOfInput(t *testing.T) {
	assert := assert.New(t)

	code := FromAutomaton(digitPlusAutomaton()).Flatten()
	vm := NewVm(code, "")

	res := vm.Run()
	assert.Equal(ResultEoi, res.Kind)
}

func Test_Vm_RewindRestoresPosition(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	code := FromAutomaton(digitPlusAutomaton()).Flatten()
	vm := NewVm(code, "12 34")

	first := vm.Run()
	require.Equal(ResultAction, first.Kind)

	pos := vm.Position()
	vm.Rewind(0)
	assert.Equal(0, vm.Position())

	vm.Rewind(pos)
	assert.Equal(pos, vm.Position())
}

func Test_Cursor_TracksByteOffsetsAcrossMultibyteRunes(t *testing.T) {
	assert := assert.New(t)

	c := NewCursor("aéb") // 'a', 'é' (2 bytes in UTF-8), 'b'
	assert.Equal(0, c.Position())

	c.advance()
	assert.Equal(1, c.Position())

	c.advance()
	assert.Equal(3, c.Position())

	c.advance()
	assert.Equal(4, c.Position())
}
