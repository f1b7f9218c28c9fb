package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token produced during error recovery.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline terminates a statement, matching Auto's line-oriented grammar.
	// Consecutive blank lines collapse into a single Newline token.
	Newline

	// Ident represents an identifier token.
	Ident

	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwUse represents the 'use' import directive keyword.
	KwUse // use
	// KwAs represents the 'as' keyword (spec conformance, aliasing).
	KwAs // as
	// KwType represents the 'type' keyword.
	KwType // type
	// KwTag represents the 'tag' keyword (tagged union declaration).
	KwTag // tag
	// KwSpec represents the 'spec' keyword (method-signature set).
	KwSpec // spec
	// KwHas represents the 'has' keyword (delegation field).
	KwHas // has
	// KwIs represents the 'is' pattern-match keyword.
	KwIs // is
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false
	// KwNil represents the 'nil' keyword.
	KwNil // nil

	// IntLit represents a plain signed integer literal.
	IntLit
	// UintLit represents an unsigned integer literal ('u' suffix).
	UintLit
	// U8Lit represents an 8-bit unsigned literal ('u8' suffix).
	U8Lit
	// I8Lit represents an 8-bit signed literal ('i8' suffix).
	I8Lit
	// FloatLit represents a 32-bit float literal ('f' suffix).
	FloatLit
	// DoubleLit represents a 64-bit float literal (decimal point or exponent).
	DoubleLit
	// StrLit represents a double-quoted string literal.
	StrLit
	// CStrLit represents a raw C string literal (c"...").
	CStrLit
	// CharLit represents a single-quoted char literal.
	CharLit

	// FStrStart opens an interpolated string (f"..." or backtick form).
	FStrStart
	// FStrPart holds literal text between interpolations.
	FStrPart
	// FStrEnd closes an interpolated string; distinct from the closing quote.
	FStrEnd

	// Plus represents the '+' operator.
	Plus // +
	// Minus represents the '-' operator.
	Minus // -
	// Star represents the '*' operator.
	Star // *
	// Slash represents the '/' operator.
	Slash // /
	// Percent represents the '%' operator.
	Percent // %
	// Assign represents the '=' operator.
	Assign // =
	// PlusAssign represents the '+=' operator.
	PlusAssign // +=
	// MinusAssign represents the '-=' operator.
	MinusAssign // -=
	// StarAssign represents the '*=' operator.
	StarAssign // *=
	// SlashAssign represents the '/=' operator.
	SlashAssign // /=
	// EqEq represents the '==' operator.
	EqEq // ==
	// Bang represents the '!' operator.
	Bang // !
	// BangEq represents the '!=' operator.
	BangEq // !=
	// Lt represents the '<' operator.
	Lt // <
	// LtEq represents the '<=' operator.
	LtEq // <=
	// Gt represents the '>' operator.
	Gt // >
	// GtEq represents the '>=' operator.
	GtEq // >=
	// AndAnd represents the '&&' operator.
	AndAnd // &&
	// OrOr represents the '||' operator.
	OrOr // ||
	// Amp represents the '&' operator.
	Amp // &
	// Pipe represents the '|' operator.
	Pipe // |
	// Colon represents the ':' operator.
	Colon // :
	// Semicolon represents the ';' statement terminator.
	Semicolon // ;
	// Comma represents the ',' separator.
	Comma // ,
	// Dot represents the '.' operator.
	Dot // .
	// DotDot represents the '..' range operator.
	DotDot // ..
	// DotDotEq represents the inclusive '..=' range operator.
	DotDotEq // ..=
	// Arrow represents the '->' operator.
	Arrow // ->
	// FatArrow represents the '=>' operator.
	FatArrow // =>
	// Question represents the '?' operator.
	Question // ?
	// At represents the '@' marker.
	At // @
	// Hash represents the '#' marker.
	Hash // #
	// Dollar introduces an interpolation inside an f-string.
	Dollar // $
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid: "invalid", EOF: "eof", Newline: "newline", Ident: "ident",
	KwFn: "fn", KwLet: "let", KwVar: "var", KwMut: "mut", KwIf: "if",
	KwElse: "else", KwWhile: "while", KwFor: "for", KwIn: "in",
	KwBreak: "break", KwContinue: "continue", KwReturn: "return",
	KwUse: "use", KwAs: "as", KwType: "type", KwTag: "tag", KwSpec: "spec",
	KwHas: "has", KwIs: "is", KwTrue: "true", KwFalse: "false", KwNil: "nil",
	IntLit: "int", UintLit: "uint", U8Lit: "u8", I8Lit: "i8",
	FloatLit: "float", DoubleLit: "double", StrLit: "str", CStrLit: "cstr",
	CharLit: "char", FStrStart: "fstr-start", FStrPart: "fstr-part",
	FStrEnd: "fstr-end",
	Plus:   "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", AndAnd: "&&", OrOr: "||",
	Amp: "&", Pipe: "|", Colon: ":", Semicolon: ";", Comma: ",",
	Dot: ".", DotDot: "..", DotDotEq: "..=", Arrow: "->", FatArrow: "=>",
	Question: "?", At: "@", Hash: "#", Dollar: "$",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
