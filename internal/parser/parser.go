// Package parser implements Maple's recursive-descent statement parser
// and Pratt-style expression parser (spec.md §4.E), grounded on the
// teacher's precedence-climbing parseExpression loop but reshaped
// around Maple's own grammar, operator table, and closed AST sum.
package parser

import (
	"fmt"
	"strconv"

	"maple/internal/ast"
	"maple/internal/lexer"
	"maple/internal/symbol"
)

// Operator precedence table (spec.md §4.E). Lower binds tighter.
var binaryPrecedence = map[string]int{
	"*": 5, "/": 5,
	"+": 6, "-": 6,
	">": 9, "<": 9, ">=": 9,
	"==": 10, "!=": 10,
	"&&": 14,
	"||": 15,
	"=":  16,
}

const unaryPrecedence = 3

// maxPrecedence is the loosest threshold, large enough to admit every
// real operator including assignment (rank 16).
const maxPrecedence = 1 << 30

// Parser turns a token stream into an ast.Program.
type Parser struct {
	lx   *lexer.Lexer
	syms *symbol.Table
	cur  lexer.Token
}

// New builds a parser over lx, interning identifiers through syms.
func New(lx *lexer.Lexer, syms *symbol.Table) (*Parser, error) {
	p := &Parser{lx: lx, syms: syms}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	t, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", p.cur.Line, fmt.Sprintf(format, args...))
}

// ParseProgram parses the full token stream into a Program, per
// spec.md §4.E "At the top level the parser consumes until
// EndOfFile; unmatched '}' at top level is an error."
func (p *Parser) ParseProgram() (*ast.Program, error) {
	stmts, err := p.parseStatements(true)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Stmts: stmts}, nil
}

// parseStatements parses statements until EndOfFile (topLevel) or an
// unconsumed '}' (nested block), skipping blank EndOfStatement-only
// lines between statements.
func (p *Parser) parseStatements(topLevel bool) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		switch {
		case p.cur.Kind == lexer.EndOfFile:
			if !topLevel {
				return nil, p.errf("unexpected end of file inside block (unmatched '{')")
			}
			return stmts, nil
		case p.cur.Kind == lexer.Punct && p.cur.Text == "}":
			if topLevel {
				return nil, p.errf("unexpected top level '}'")
			}
			return stmts, nil
		case p.cur.Kind == lexer.EndOfStatement:
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.cur.Kind != lexer.EndOfStatement && p.cur.Kind != lexer.EndOfFile {
			return nil, p.errf("expected newline after statement, got %q", p.cur.Text)
		}
		if p.cur.Kind == lexer.EndOfStatement {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
}

// parseBlock requires '{' immediately followed by EndOfStatement, per
// spec.md §4.E "Block entry requires a '{' followed immediately by
// EOS; block exit eats '}'."
func (p *Parser) parseBlock() (*ast.Block, error) {
	line := p.cur.Line
	if p.cur.Kind != lexer.Punct || p.cur.Text != "{" {
		return nil, p.errf("expected '{' to start block, got %q", p.cur.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.EndOfStatement {
		return nil, p.errf("expected newline after '{'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Punct || p.cur.Text != "}" {
		return nil, p.errf("expected '}' at end of block")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts, Base: ast.At(line)}, nil
}

func (p *Parser) skipBlankLines() error {
	for p.cur.Kind == lexer.EndOfStatement {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Kind {
	case lexer.ControlFlow:
		switch p.cur.Text {
		case "if":
			return p.parseIfChain()
		case "while":
			return p.parseWhile()
		default:
			return nil, p.errf("%q is reserved but has no statement form", p.cur.Text)
		}
	case lexer.Exit:
		return p.parseExit()
	case lexer.Identifier, lexer.IdentifierModifier:
		return p.parseDefnStatement()
	case lexer.FunctionDefinition:
		return p.parseFuncDef()
	default:
		line := p.cur.Line
		expr, err := p.parseExpr(maxPrecedence)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: expr, Base: ast.At(line)}, nil
	}
}

// parseIfChain parses 'if' expr block ('elseif' expr block)*
// ('else' block)? and, on success, injects a synthetic EndOfStatement
// into the lexer's fake-token queue so the outer statement loop sees
// the whole chain as a single statement (spec.md §4.E, §9).
func (p *Parser) parseIfChain() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil { // eat 'if'
		return nil, err
	}
	cond, err := p.parseExpr(maxPrecedence)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.skipBlankLines(); err != nil {
		return nil, err
	}

	var elseifs []*ast.ElseIf
	for p.cur.Kind == lexer.Name && p.cur.Text == "elseif" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		econd, err := p.parseExpr(maxPrecedence)
		if err != nil {
			return nil, err
		}
		eblock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseifs = append(elseifs, &ast.ElseIf{Cond: econd, Then: eblock})
		if err := p.skipBlankLines(); err != nil {
			return nil, err
		}
	}

	var elseBlock *ast.Block
	if p.cur.Kind == lexer.Name && p.cur.Text == "else" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.skipBlankLines(); err != nil {
			return nil, err
		}
		eb, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseBlock = eb
	}

	// The token already read past the chain (skipBlankLines may have
	// consumed the chain's own newline) is re-queued behind the synthetic
	// EndOfStatement so it is returned right after it instead of lost.
	p.lx.PushFake(lexer.Token{Kind: lexer.EndOfStatement, Line: line})
	p.lx.PushFake(p.cur)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.IfChain{Cond: cond, Then: then, ElseIfs: elseifs, Else: elseBlock, Base: ast.At(line)}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil { // eat 'while'
		return nil, err
	}
	cond, err := p.parseExpr(maxPrecedence)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Base: ast.At(line)}, nil
}

func (p *Parser) parseExit() (ast.Stmt, error) {
	line := p.cur.Line
	var kind ast.ExitKind
	switch p.cur.Text {
	case "break":
		kind = ast.ExitBreak
	case "continue":
		kind = ast.ExitContinue
	default:
		kind = ast.ExitReturn
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == lexer.EndOfStatement || p.cur.Kind == lexer.EndOfFile {
		return &ast.Exit{Kind: kind, Base: ast.At(line)}, nil
	}
	if kind == ast.ExitContinue {
		return nil, p.errf("continue cannot carry a value")
	}
	val, err := p.parseExpr(maxPrecedence)
	if err != nil {
		return nil, err
	}
	return &ast.Exit{Kind: kind, Value: val, Base: ast.At(line)}, nil
}

// parseDefnStatement parses modifier* type name ('=' expr)?, shaping
// `type name = expr` as a BinaryOp "=" whose left is the declaration
// (spec.md §4.F "Variable declaration").
func (p *Parser) parseDefnStatement() (ast.Stmt, error) {
	line := p.cur.Line
	decl, err := p.parseVarDecl()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == lexer.Operator && p.cur.Text == "=" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(maxPrecedence)
		if err != nil {
			return nil, err
		}
		assign := &ast.BinaryOp{Op: "=", Left: decl, Right: val, Base: ast.At(line)}
		return &ast.ExprStmt{Value: assign, Base: ast.At(line)}, nil
	}
	if p.cur.Kind == lexer.Operator {
		return nil, p.errf("invalid operator after variable declaration: %q", p.cur.Text)
	}
	return &ast.ExprStmt{Value: decl, Base: ast.At(line)}, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	line := p.cur.Line
	var mods []symbol.Symbol
	for p.cur.Kind == lexer.IdentifierModifier {
		mods = append(mods, p.syms.InternString(p.cur.Text))
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind != lexer.Identifier {
		return nil, p.errf("expected a type name in declaration, got %q", p.cur.Text)
	}
	typeName := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Name {
		return nil, p.errf("expected a name in declaration, got %q", p.cur.Text)
	}
	name := p.syms.InternString(p.cur.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Modifiers: mods, TypeName: typeName, Name: name, Base: ast.At(line)}, nil
}

func (p *Parser) parseFuncDef() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil { // eat 'fn'
		return nil, err
	}
	if p.cur.Kind != lexer.Name {
		return nil, p.errf("expected a name after 'fn'")
	}
	name := p.syms.InternString(p.cur.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Punct || p.cur.Text != "(" {
		return nil, p.errf("expected '(' after function name")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []*ast.ParamDecl
	if !(p.cur.Kind == lexer.Punct && p.cur.Text == ")") {
		for {
			param, err := p.parseParamDecl()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if p.cur.Kind == lexer.Punct && p.cur.Text == "," {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.Kind == lexer.Punct && p.cur.Text == ")" {
				break
			}
			return nil, p.errf("expected ',' or ')' after function parameter")
		}
	}
	if err := p.advance(); err != nil { // eat ')'
		return nil, err
	}
	var returnType string
	switch p.cur.Kind {
	case lexer.Identifier:
		returnType = p.cur.Text
	case lexer.Void:
		returnType = "void"
	default:
		return nil, p.errf("expected a return type after function parameters")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Name: name, Params: params, ReturnType: returnType, Body: body, Base: ast.At(line)}, nil
}

// parseParamDecl parses a partial-defn (modifier* type name); any
// modifiers are consumed but not retained — parameter binding has no
// modifier-dependent behavior in this implementation.
func (p *Parser) parseParamDecl() (*ast.ParamDecl, error) {
	line := p.cur.Line
	for p.cur.Kind == lexer.IdentifierModifier {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind != lexer.Identifier {
		return nil, p.errf("expected a type name in parameter, got %q", p.cur.Text)
	}
	typeName := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Name {
		return nil, p.errf("expected a parameter name, got %q", p.cur.Text)
	}
	name := p.syms.InternString(p.cur.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.ParamDecl{TypeName: typeName, Name: name, Base: ast.At(line)}, nil
}

// parseExpr is the Pratt/precedence-climbing loop. maxPrec is the
// loosest operator precedence this call may fold into its result;
// recursion narrows it per spec.md §4.E's associativity rule.
func (p *Parser) parseExpr(maxPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.Operator {
		op := p.cur.Text
		prec, ok := binaryPrecedence[op]
		if !ok || prec > maxPrec {
			break
		}
		line := p.cur.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		nextMax := prec - 1
		if op == "=" {
			nextMax = prec // right-associative
		}
		right, err := p.parseExpr(nextMax)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Base: ast.At(line)}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Kind == lexer.Operator && (p.cur.Text == "!" || p.cur.Text == "-") {
		op := p.cur.Text
		line := p.cur.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr(unaryPrecedence)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand, Base: ast.At(line)}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.FloatLiteral:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errf("invalid float literal %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.FloatLit{Value: v, Base: ast.At(tok.Line)}, nil
	case lexer.IntLiteral:
		v, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			return nil, p.errf("invalid int literal %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.IntLit{Value: int32(v), Base: ast.At(tok.Line)}, nil
	case lexer.Int64Literal:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errf("invalid int64 literal %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Int64Lit{Value: v, Base: ast.At(tok.Line)}, nil
	case lexer.BooleanLiteral:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Value: tok.Text == "true", Base: ast.At(tok.Line)}, nil
	case lexer.CharacterLiteral:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var b byte
		if len(tok.Text) > 0 {
			b = tok.Text[0]
		}
		return &ast.CharLit{Value: b, Base: ast.At(tok.Line)}, nil
	case lexer.StringLiteral:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StringLit{Raw: tok.Text, Base: ast.At(tok.Line)}, nil
	case lexer.Name:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == lexer.Punct && p.cur.Text == "(" {
			return p.parseCallArgs(tok)
		}
		return &ast.VarRef{Name: p.syms.InternString(tok.Text), Base: ast.At(tok.Line)}, nil
	case lexer.Punct:
		if tok.Text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.parseExpr(maxPrecedence)
			if err != nil {
				return nil, err
			}
			if p.cur.Kind != lexer.Punct || p.cur.Text != ")" {
				return nil, p.errf("expected ')' to close parenthesized expression")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			return inner, nil
		}
		return nil, p.errf("unexpected token %q", tok.Text)
	default:
		return nil, p.errf("unexpected token %q", tok.Text)
	}
}

func (p *Parser) parseCallArgs(nameTok lexer.Token) (ast.Expr, error) {
	if err := p.advance(); err != nil { // eat '('
		return nil, err
	}
	var args []ast.Expr
	if !(p.cur.Kind == lexer.Punct && p.cur.Text == ")") {
		for {
			arg, err := p.parseExpr(maxPrecedence)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Kind == lexer.Punct && p.cur.Text == "," {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if p.cur.Kind == lexer.Punct && p.cur.Text == ")" {
				break
			}
			return nil, p.errf("expected ',' or ')' in call argument list, got %q", p.cur.Text)
		}
	}
	if err := p.advance(); err != nil { // eat ')'
		return nil, err
	}
	return &ast.Call{Callee: p.syms.InternString(nameTok.Text), Args: args, Base: ast.At(nameTok.Line)}, nil
}
