package neta

import (
	"fmt"

	"github.com/disorderedmaterials/neta/pkg/errors"
)

// ErrorKind classifies a compile failure.
type ErrorKind int

const (
	ErrLexical ErrorKind = iota + 1
	ErrSyntax
	ErrUnknownKeyword
	ErrUnknownElement
	ErrUnresolvedType
	ErrBadOperator
)

var errorKindNames = map[ErrorKind]string{
	ErrLexical:        "lexical error",
	ErrSyntax:         "syntax error",
	ErrUnknownKeyword: "unknown keyword",
	ErrUnknownElement: "unknown element",
	ErrUnresolvedType: "unresolved type",
	ErrBadOperator:    "bad operator",
}

var errorKindCodes = map[ErrorKind]errors.ErrorCode{
	ErrLexical:        errors.CodeNETALexical,
	ErrSyntax:         errors.CodeNETASyntax,
	ErrUnknownKeyword: errors.CodeNETAUnknownKeyword,
	ErrUnknownElement: errors.CodeNETAUnknownElement,
	ErrUnresolvedType: errors.CodeNETAUnresolvedType,
	ErrBadOperator:    errors.CodeNETABadOperator,
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "compile error"
}

// Code returns the AppError code reported for this kind.
func (k ErrorKind) Code() errors.ErrorCode {
	if c, ok := errorKindCodes[k]; ok {
		return c
	}
	return errors.CodeNETASyntax
}

// CompileError describes why a definition failed to compile.  Pos is the
// zero-based byte offset into the definition text.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Pos     int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos, e.Message)
}

// appError wraps e into the module-wide error type, carrying the definition
// text as detail.
func (e *CompileError) appError(text string) *errors.AppError {
	return errors.Wrap(e, e.Kind.Code(), e.Error()).WithDetail(fmt.Sprintf("definition=%q", text))
}
