package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maple/internal/ast"
	"maple/internal/lexer"
	"maple/internal/parser"
)

// TestAssignmentLeavesOperandsEqual covers spec.md §8's "x = y leaves
// x == y" round-trip law.
func TestAssignmentLeavesOperandsEqual(t *testing.T) {
	f := newFixture()
	_, err := f.run(t, "int x = 1\nint y = 2\ny = x\nbool same = x == y\n")
	require.NoError(t, err)
	assert.True(t, f.global(t, "same").AsBool())
}

// TestNumericRoundTripForEachTag covers "for numeric T and value v
// expressible in both: T x = v; x == v" for each numeric tag.
func TestNumericRoundTripForEachTag(t *testing.T) {
	cases := []string{
		"int x = 7\nbool ok = x == 7\n",
		"int64 x = 7l\nbool ok = x == 7l\n",
		"float x = 7.5\nbool ok = x == 7.5\n",
	}
	for _, src := range cases {
		f := newFixture()
		_, err := f.run(t, src)
		require.NoError(t, err)
		assert.True(t, f.global(t, "ok").AsBool(), "source: %s", src)
	}
}

// TestDoubleNegationOfBoolIsIdentity covers "!!b == b for bool b".
func TestDoubleNegationOfBoolIsIdentity(t *testing.T) {
	f := newFixture()
	_, err := f.run(t, "bool b = false\nbool ok = !!b == b\n")
	require.NoError(t, err)
	assert.True(t, f.global(t, "ok").AsBool())
}

// TestDoubleNegationOfNumberIsIdentity covers "-(-n) == n for
// int/int64/float within range".
func TestDoubleNegationOfNumberIsIdentity(t *testing.T) {
	cases := []string{
		"int n = 5\nbool ok = -(-n) == n\n",
		"int64 n = 5l\nbool ok = -(-n) == n\n",
		"float n = 5.5\nbool ok = -(-n) == n\n",
	}
	for _, src := range cases {
		f := newFixture()
		_, err := f.run(t, src)
		require.NoError(t, err)
		assert.True(t, f.global(t, "ok").AsBool(), "source: %s", src)
	}
}

// TestWhileFalseNeverRunsBody covers "a while(false){...} body runs
// zero times".
func TestWhileFalseNeverRunsBody(t *testing.T) {
	f := newFixture()
	_, err := f.run(t, "int x = 0\nwhile false {\n  x = 99\n}\n")
	require.NoError(t, err)
	assert.Equal(t, int32(0), f.global(t, "x").AsInt())
}

// TestMissingReturnOnReachablePathIsAnError covers "a function with
// declared return type and no return on the reachable path is an
// error", distinct from interp_test.go's unconditional-fallthrough
// case: here the only statement in the body is an if with no else, so
// the fallthrough path is reachable even though a return exists inside
// the branch.
func TestMissingReturnOnReachablePathIsAnError(t *testing.T) {
	f := newFixture()
	src := `fn f(bool cond) int {
  if cond {
    return 1
  }
}
int y = f(false)
`
	_, err := f.run(t, src)
	assert.Error(t, err)
}

// TestEveryParsedNodeCarriesALineNumberOfAtLeastOne covers the
// invariant that every AST node's line number is >= 1, by walking a
// parsed program's statements and their immediate expression operands.
func TestEveryParsedNodeCarriesALineNumberOfAtLeastOne(t *testing.T) {
	syms := newFixture().syms
	src := "int x = 2 + 3 * 4\nif x > 0 {\n  x = x - 1\n}\n"
	p, err := parser.New(lexer.New([]byte(src)), syms)
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)

	for _, stmt := range prog.Stmts {
		assert.GreaterOrEqual(t, stmt.Line(), 1)
		if es, ok := stmt.(*ast.ExprStmt); ok {
			assert.GreaterOrEqual(t, es.Value.Line(), 1)
		}
	}
}

// TestScopeDepthUnchangedAfterFunctionCallReturns extends
// interp_test.go's block-level depth invariant to a full function
// call, which pushes and pops its own frame.
func TestScopeDepthUnchangedAfterFunctionCallReturns(t *testing.T) {
	f := newFixture()
	before := f.scopes.Depth()
	_, err := f.run(t, "fn one() int {\n  return 1\n}\nint x = one()\n")
	require.NoError(t, err)
	assert.Equal(t, before, f.scopes.Depth())
}
