package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) []Token {
	t.Helper()
	lx := New([]byte(src))
	var toks []Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == EndOfFile {
			return toks
		}
	}
}

func TestLexesPrimitiveTypeAndAssignment(t *testing.T) {
	toks := collect(t, "int x = 5\n")

	require.Len(t, toks, 6)
	assert.Equal(t, Identifier, toks[0].Kind)
	assert.Equal(t, Name, toks[1].Kind)
	assert.Equal(t, Operator, toks[2].Kind)
	assert.Equal(t, IntLiteral, toks[3].Kind)
	assert.Equal(t, EndOfStatement, toks[4].Kind)
	assert.Equal(t, EndOfFile, toks[5].Kind)
}

func TestCollapsesBlankLinesIntoOneEndOfStatement(t *testing.T) {
	toks := collect(t, "x\n\n\ny\n")
	// Name, EOS, Name, EOS, EOF
	require.Len(t, toks, 5)
	assert.Equal(t, EndOfStatement, toks[1].Kind)
	assert.Equal(t, Name, toks[2].Kind)
}

func TestKeywordTablesDispatchCorrectly(t *testing.T) {
	toks := collect(t, "fn void if while break continue return const static global true false")
	kinds := make([]Kind, 0, len(toks)-1)
	for _, tok := range toks[:len(toks)-1] {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		FunctionDefinition, Void, ControlFlow, ControlFlow,
		Exit, Exit, Exit,
		IdentifierModifier, IdentifierModifier, IdentifierModifier,
		BooleanLiteral, BooleanLiteral,
	}, kinds)
}

func TestIntLiteralOverflowRequiresInt64Suffix(t *testing.T) {
	lx := New([]byte("99999999999"))
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestInt64SuffixAccepted(t *testing.T) {
	toks := collect(t, "99999999999l")
	assert.Equal(t, Int64Literal, toks[0].Kind)
}

func TestFloatLiteralSkipsIntOverflowCheck(t *testing.T) {
	toks := collect(t, "99999999999.5")
	assert.Equal(t, FloatLiteral, toks[0].Kind)
}

func TestStringEscapeSequences(t *testing.T) {
	toks := collect(t, `"a\nb"`)
	assert.Equal(t, StringLiteral, toks[0].Kind)
	assert.Equal(t, "a\nb", toks[0].Text)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	lx := New([]byte(`"abc`))
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestCharLiteral(t *testing.T) {
	toks := collect(t, "'a'")
	assert.Equal(t, CharacterLiteral, toks[0].Kind)
	assert.Equal(t, "a", toks[0].Text)
}

func TestOperatorGreedyLongestMatch(t *testing.T) {
	toks := collect(t, ">= > == = != !")
	kinds := make([]string, 0)
	for _, tok := range toks[:len(toks)-1] {
		kinds = append(kinds, tok.Text)
	}
	assert.Equal(t, []string{">=", ">", "==", "=", "!=", "!"}, kinds)
}

func TestLineCommentsAndBlockCommentsAreSkipped(t *testing.T) {
	toks := collect(t, "x // trailing\n/* block */ y\n")
	require.Len(t, toks, 5)
	assert.Equal(t, "x", toks[0].Text)
	assert.Equal(t, "y", toks[2].Text)
}

func TestUnterminatedBlockCommentIsAnError(t *testing.T) {
	lx := New([]byte("/* never closes"))
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestPushFakeIsDrainedBeforeRealScan(t *testing.T) {
	lx := New([]byte("x"))
	lx.PushFake(Token{Kind: EndOfStatement, Line: 0})

	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, EndOfStatement, tok.Kind)

	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, Name, tok.Kind)
	assert.Equal(t, "x", tok.Text)
}

func TestUnknownCharacterIsAnError(t *testing.T) {
	lx := New([]byte("@"))
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestInt32MaxLiteralSucceeds(t *testing.T) {
	toks := collect(t, "2147483647")
	assert.Equal(t, IntLiteral, toks[0].Kind)
}

func TestInt32MaxPlusOneWithoutSuffixIsAnError(t *testing.T) {
	lx := New([]byte("2147483648"))
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestInt32MaxPlusOneWithSuffixSucceedsAsInt64(t *testing.T) {
	toks := collect(t, "2147483648l")
	assert.Equal(t, Int64Literal, toks[0].Kind)
}

func TestFloatLiteralWithTwoDotsIsAnError(t *testing.T) {
	lx := New([]byte("1.2.3"))
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestEachNewlineVariantAdvancesLineByOne(t *testing.T) {
	for _, variant := range []string{"\r\n", "\n\r", "\n", "\r"} {
		toks := collect(t, "x"+variant+"y")
		require.Len(t, toks, 4, "variant %q", variant)
		assert.Equal(t, 1, toks[0].Line, "variant %q", variant)
		assert.Equal(t, 2, toks[2].Line, "variant %q", variant)
	}
}
