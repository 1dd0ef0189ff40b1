package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableBindsNilToEmptyString(t *testing.T) {
	tab := NewTable()
	assert.Equal(t, "", tab.Text(Nil))
}

func TestInternIsStableAndDeduplicates(t *testing.T) {
	tab := NewTable()

	a := tab.Intern([]byte("fib"))
	b := tab.Intern([]byte("fib"))
	c := tab.InternString("fib")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.NotEqual(t, Nil, a)
}

func TestInternDistinctStringsGetDistinctHandles(t *testing.T) {
	tab := NewTable()

	x := tab.InternString("x")
	y := tab.InternString("y")

	assert.NotEqual(t, x, y)
	assert.Equal(t, "x", tab.Text(x))
	assert.Equal(t, "y", tab.Text(y))
}

func TestTextPanicsOnUnknownHandle(t *testing.T) {
	tab := NewTable()
	require.Panics(t, func() {
		tab.Text(Symbol(999))
	})
}

func TestInternedSymbolEqualityIsReflexiveSymmetricTransitive(t *testing.T) {
	tab := NewTable()
	a := tab.InternString("shared")
	b := tab.InternString("shared")
	c := tab.InternString("shared")

	assert.Equal(t, a, a)
	assert.Equal(t, a == b, b == a)
	if a == b && b == c {
		assert.Equal(t, a, c)
	}
}

func TestHandlesSurviveGrowth(t *testing.T) {
	tab := NewTable()
	first := tab.InternString("a")
	for i := 0; i < 64; i++ {
		tab.InternString(string(rune('b' + i)))
	}
	assert.Equal(t, "a", tab.Text(first))
}
