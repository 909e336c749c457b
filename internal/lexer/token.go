package lexer

import "github.com/vexel-lang/vexelc/internal/source"

// TokenType enumerates the lexical token kinds (spec §6 "Tokens include...").
type TokenType int

const (
	EOF TokenType = iota
	IntLiteral
	FloatLiteral
	StringLiteral
	CharLiteral
	Identifier

	// Keywords
	Mut

	// Sigils
	Dollar      // $ — expression-parameter reference / process binding
	At          // @ — iteration
	DoubleAt    // @@ — sorted iteration
	Hash        // # — type sigil

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	BitXor
	BitNot
	Ampersand
	AmpersandBang // &! — external function sigil
	AmpersandCaret // &^ — exported function sigil
	LogicalAnd
	BitOr
	LogicalOr
	LogicalNot
	Equal
	NotEqual
	Assign
	Less
	LessEqual
	LeftShift
	Greater
	GreaterEqual
	RightShift
	Arrow         // ->
	BreakArrow    // ->|
	ContinueArrow // ->>
	DotDot
	Dot
	DoubleColon
	Colon
	Comma
	Semicolon
	Question

	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
)

var names = map[TokenType]string{
	EOF: "EOF", IntLiteral: "int", FloatLiteral: "float", StringLiteral: "string",
	CharLiteral: "char", Identifier: "identifier", Mut: "mut", Dollar: "$", At: "@",
	DoubleAt: "@@", Hash: "#", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	BitXor: "^", BitNot: "~", Ampersand: "&", AmpersandBang: "&!", AmpersandCaret: "&^",
	LogicalAnd: "&&", BitOr: "|", LogicalOr: "||", LogicalNot: "!", Equal: "==",
	NotEqual: "!=", Assign: "=", Less: "<", LessEqual: "<=", LeftShift: "<<",
	Greater: ">", GreaterEqual: ">=", RightShift: ">>", Arrow: "->", BreakArrow: "->|",
	ContinueArrow: "->>", DotDot: "..", Dot: ".", DoubleColon: "::", Colon: ":",
	Comma: ",", Semicolon: ";", Question: "?", LeftParen: "(", RightParen: ")",
	LeftBrace: "{", RightBrace: "}", LeftBracket: "[", RightBracket: "]",
}

func (t TokenType) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "unknown"
}

// Token is a single lexeme plus the literal value the lexer decoded for it
// (IntValue/UintValue/FloatValue/StringValue, one of which is populated
// depending on Type) and its source location.
type Token struct {
	Type        TokenType
	Lexeme      string
	Location    source.Location
	IntValue    int64
	UintValue   uint64
	FloatValue  float64
	StringValue string
	IsUnsigned  bool
}
