package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maple/internal/langvalue"
	"maple/internal/symbol"
)

func TestNewStackStartsWithGlobalFrame(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, "$_globalScope", s.Top().Name)
}

func TestDeclareVariableRejectsDuplicateInSameFrame(t *testing.T) {
	s := New()
	sym := symbol.Symbol(1)

	require.NoError(t, s.DeclareVariable(sym, langvalue.NewVariable(sym, "int")))
	err := s.DeclareVariable(sym, langvalue.NewVariable(sym, "int"))
	assert.Error(t, err)
}

func TestDeclareFunctionSharesNamespaceWithVariables(t *testing.T) {
	s := New()
	sym := symbol.Symbol(1)

	require.NoError(t, s.DeclareVariable(sym, langvalue.NewVariable(sym, "int")))
	err := s.DeclareFunction(sym, langvalue.FunctionSlot(&langvalue.Function{}))
	assert.Error(t, err, "variable and function names share one namespace per frame")
}

func TestLookupWalksInnermostOutward(t *testing.T) {
	s := New()
	outer := symbol.Symbol(1)
	require.NoError(t, s.DeclareVariable(outer, langvalue.NewVariable(outer, "int")))

	s.Push("inner")
	v, ok := s.LookupVariable(outer)
	require.True(t, ok)
	assert.Equal(t, "int", v.TypeName())
}

func TestInnerFrameShadowsOuter(t *testing.T) {
	s := New()
	sym := symbol.Symbol(1)
	outerVar := langvalue.NewVariable(sym, "int")
	outerVar.Assign(langvalue.Int(1))
	require.NoError(t, s.DeclareVariable(sym, outerVar))

	s.Push("inner")
	innerVar := langvalue.NewVariable(sym, "int")
	innerVar.Assign(langvalue.Int(2))
	require.NoError(t, s.DeclareVariable(sym, innerVar))

	v, ok := s.LookupVariable(sym)
	require.True(t, ok)
	assert.Equal(t, langvalue.Int(2), v.Value())

	s.Pop()
	v, ok = s.LookupVariable(sym)
	require.True(t, ok)
	assert.Equal(t, langvalue.Int(1), v.Value())
}

func TestPopWithExitPropagationCarriesExitUpward(t *testing.T) {
	s := New()
	s.Push("while")
	carried := langvalue.Slot{}
	s.SetExit(ExitBreak, &carried, 7)

	s.PopWithExitPropagation()

	exit := s.GetExit()
	assert.Equal(t, ExitBreak, exit.Kind)
	assert.Equal(t, 7, exit.Line)
}

func TestPopWithExitPropagationIsNoopWhenExitIsNone(t *testing.T) {
	s := New()
	s.Push("if")
	s.PopWithExitPropagation()

	assert.Equal(t, ExitNone, s.GetExit().Kind)
}

func TestClearExitResetsTopFrame(t *testing.T) {
	s := New()
	carried := langvalue.Slot{}
	s.SetExit(ExitContinue, &carried, 3)
	s.ClearExit()

	assert.Equal(t, ExitNone, s.GetExit().Kind)
}

func TestExitKindString(t *testing.T) {
	assert.Equal(t, "return", ExitReturn.String())
	assert.Equal(t, "break", ExitBreak.String())
	assert.Equal(t, "continue", ExitContinue.String())
	assert.Equal(t, "none", ExitNone.String())
}
