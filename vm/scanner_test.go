package vm_test

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/loxide-lang/loxide/vm"
	"github.com/stretchr/testify/assert"
)

func scanAll(src string) (tokens []vm.Token) {
	s := vm.NewScanner(src)
	for {
		tk := s.ScanToken()
		tokens = append(tokens, tk)
		if tk.Type == vm.TEOF {
			return
		}
	}
}

func types(tokens []vm.Token) (res []vm.TokenType) {
	for _, tk := range tokens {
		res = append(res, tk.Type)
	}
	return
}

func TestScanOperators(t *testing.T) {
	t.Parallel()
	tokens := scanAll("(){},.-+;/* ! != = == > >= < <=")
	assert.Equal(t, []vm.TokenType{
		vm.TLParen, vm.TRParen, vm.TLBrace, vm.TRBrace, vm.TComma, vm.TDot,
		vm.TMinus, vm.TPlus, vm.TSemi, vm.TSlash, vm.TStar,
		vm.TBang, vm.TBangEqual, vm.TEqual, vm.TEqualEqual,
		vm.TGreater, vm.TGreaterEqual, vm.TLess, vm.TLessEqual,
		vm.TEOF,
	}, types(tokens))
}

func TestScanLiterals(t *testing.T) {
	t.Parallel()
	tokens := scanAll(`12 3.25 4. "hi there" and orchid _x1 nil`)
	assert.Equal(t, []vm.TokenType{
		vm.TNum, vm.TNum, vm.TNum, vm.TDot, vm.TStr, vm.TAnd, vm.TIdent, vm.TIdent, vm.TNil, vm.TEOF,
	}, types(tokens))
	assert.Equal(t, "3.25", tokens[1].Lexeme)
	assert.Equal(t, "4", tokens[2].Lexeme)
	assert.Equal(t, `"hi there"`, tokens[4].Lexeme)
	assert.Equal(t, "orchid", tokens[6].Lexeme)
	assert.Equal(t, "_x1", tokens[7].Lexeme)
}

func TestScanLinesAndComments(t *testing.T) {
	t.Parallel()
	tokens := scanAll(heredoc.Doc(`
		1 // one
		// nothing here
		"two
		lines" 3
	`))
	assert.Equal(t, []vm.TokenType{vm.TNum, vm.TStr, vm.TNum, vm.TEOF}, types(tokens))
	assert.Equal(t, 1, tokens[0].Line)
	// Strings report the line they start on.
	assert.Equal(t, 3, tokens[1].Line)
	assert.Equal(t, 4, tokens[2].Line)
	assert.Equal(t, 5, tokens[3].Line)
}

func TestScanErrors(t *testing.T) {
	t.Parallel()
	tokens := scanAll("1 @ 2")
	assert.Equal(t, []vm.TokenType{vm.TNum, vm.TErr, vm.TNum, vm.TEOF}, types(tokens))
	assert.Equal(t, "unexpected character", tokens[1].String())
	assert.Equal(t, "@", tokens[1].Lexeme)

	tokens = scanAll("\n\"open")
	assert.Equal(t, []vm.TokenType{vm.TErr, vm.TEOF}, types(tokens))
	assert.Equal(t, "unterminated string", tokens[0].String())
	assert.Equal(t, 2, tokens[0].Line)

	// An unterminated string is reported where it starts, not at EOF.
	tokens = scanAll("\"a\nb\n")
	assert.Equal(t, []vm.TokenType{vm.TErr, vm.TEOF}, types(tokens))
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, "\"a\nb\n", tokens[0].Lexeme)
}

func TestScanPastEOF(t *testing.T) {
	t.Parallel()
	s := vm.NewScanner("")
	for i := 0; i < 3; i++ {
		assert.Equal(t, vm.TEOF, s.ScanToken().Type)
	}
}
