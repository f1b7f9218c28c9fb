package diag

import (
	"fmt"
)

// Code is a stable identifier for one diagnostic shape. Codes are
// grouped by phase: 1xxx lexical, 2xxx syntax, 3xxx binding, 4xxx
// code generation. Values never change once released.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedChar         Code = 1003
	LexUnterminatedBlockComment Code = 1004
	LexBadNumber                Code = 1005
	LexUnterminatedFStr         Code = 1006

	// Syntax.
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectType         Code = 2005
	SynUnclosedBlock      Code = 2006
	SynExpectTerminator   Code = 2007
	SynForMissingIn       Code = 2008
	SynIfExprMissingElse  Code = 2009
	SynDuplicateVariant   Code = 2010
	SynExpectVariant      Code = 2011
	SynExpectSpecMethod   Code = 2012
	SynBadUseDirective    Code = 2013
	SynExpectField        Code = 2014

	// Binding / resolution.
	SemaUnresolvedIdent     Code = 3001
	SemaDuplicateSymbol     Code = 3002
	SemaSpecNotSatisfied    Code = 3003
	SemaSpecMethodMismatch  Code = 3004
	SemaDuplicateVariant    Code = 3005
	SemaBadDelegationTarget Code = 3006
	SemaNotASpec            Code = 3007
	SemaNotAGeneric         Code = 3008
	SemaArityMismatch       Code = 3009
	SemaTypeMismatch        Code = 3010
	SemaNonExhaustiveMatch  Code = 3011
	SemaUnknownVariant      Code = 3012

	// Code generation. A GenError on a validated AST is an internal
	// invariant failure, not a user-facing diagnostic.
	GenUnsupportedConstruct Code = 4001
	GenInstantiationCycle   Code = 4002
)

var codeIDs = map[Code]string{
	UnknownCode:                 "AUTO0000",
	LexUnknownChar:              "LEX1001",
	LexUnterminatedString:       "LEX1002",
	LexUnterminatedChar:         "LEX1003",
	LexUnterminatedBlockComment: "LEX1004",
	LexBadNumber:                "LEX1005",
	LexUnterminatedFStr:         "LEX1006",
	SynUnexpectedToken:          "SYN2001",
	SynUnexpectedTopLevel:       "SYN2002",
	SynExpectIdentifier:         "SYN2003",
	SynExpectExpression:         "SYN2004",
	SynExpectType:               "SYN2005",
	SynUnclosedBlock:            "SYN2006",
	SynExpectTerminator:         "SYN2007",
	SynForMissingIn:             "SYN2008",
	SynIfExprMissingElse:        "SYN2009",
	SynDuplicateVariant:         "SYN2010",
	SynExpectVariant:            "SYN2011",
	SynExpectSpecMethod:         "SYN2012",
	SynBadUseDirective:          "SYN2013",
	SynExpectField:              "SYN2014",
	SemaUnresolvedIdent:         "SEMA3001",
	SemaDuplicateSymbol:         "SEMA3002",
	SemaSpecNotSatisfied:        "SEMA3003",
	SemaSpecMethodMismatch:      "SEMA3004",
	SemaDuplicateVariant:        "SEMA3005",
	SemaBadDelegationTarget:     "SEMA3006",
	SemaNotASpec:                "SEMA3007",
	SemaNotAGeneric:             "SEMA3008",
	SemaArityMismatch:           "SEMA3009",
	SemaTypeMismatch:            "SEMA3010",
	SemaNonExhaustiveMatch:      "SEMA3011",
	SemaUnknownVariant:          "SEMA3012",
	GenUnsupportedConstruct:     "GEN4001",
	GenInstantiationCycle:       "GEN4002",
}

// ID returns the stable printable identifier, e.g. "SYN2001".
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("AUTO%04d", uint16(c))
}

func (c Code) String() string { return c.ID() }

// Phase returns the pipeline stage a code belongs to.
func (c Code) Phase() string {
	switch {
	case c >= 1000 && c < 2000:
		return "lex"
	case c >= 2000 && c < 3000:
		return "parse"
	case c >= 3000 && c < 4000:
		return "bind"
	case c >= 4000 && c < 5000:
		return "codegen"
	default:
		return "unknown"
	}
}
