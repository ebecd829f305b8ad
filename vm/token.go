package vm

import "github.com/josharian/intern"

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int

	// Error message for TErr.
	Error *string
}

func (t Token) String() string {
	if t.Type == TErr && t.Error != nil {
		return *t.Error
	}
	return t.Lexeme
}

//go:generate stringer -type=TokenType
type TokenType int

const (
	TLParen TokenType = iota
	TRParen
	TLBrace
	TRBrace
	TComma
	TDot
	TMinus
	TPlus
	TSemi
	TSlash
	TStar
	TBang
	TBangEqual
	TEqual
	TEqualEqual
	TGreater
	TGreaterEqual
	TLess
	TLessEqual
	TIdent
	TStr
	TNum
	TAnd
	TBreak
	TClass
	TContinue
	TElse
	TFalse
	TFor
	TFun
	TIf
	TNil
	TOr
	TPrint
	TReturn
	TSuper
	TThis
	TTrue
	TVar
	TWhile
	TErr
	TEOF
)

var keywords = map[string]TokenType{
	"and":      TAnd,
	"break":    TBreak,
	"class":    TClass,
	"continue": TContinue,
	"else":     TElse,
	"false":    TFalse,
	"for":      TFor,
	"fun":      TFun,
	"if":       TIf,
	"nil":      TNil,
	"or":       TOr,
	"print":    TPrint,
	"return":   TReturn,
	"super":    TSuper,
	"this":     TThis,
	"true":     TTrue,
	"var":      TVar,
	"while":    TWhile,
}

// identType classifies an identifier-shaped lexeme, returning it interned.
func identType(lexeme string) (TokenType, string) {
	lexeme = intern.String(lexeme)
	if ty, ok := keywords[lexeme]; ok {
		return ty, lexeme
	}
	return TIdent, lexeme
}
