package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeConflict        ErrorCode = "COMMON_006"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeNotImplemented  ErrorCode = "COMMON_016"
	ErrCodeConfigInvalid   ErrorCode = "COMMON_017"
	ErrCodeFileReadFailed  ErrorCode = "COMMON_018"
	ErrCodeFileParseFailed ErrorCode = "COMMON_019"
)

// Aliases used at call sites.
const (
	CodeInternal        = ErrCodeInternal
	CodeInvalidParam    = ErrCodeBadRequest
	CodeNotFound        = ErrCodeNotFound
	CodeConflict        = ErrCodeConflict
	CodeValidation      = ErrCodeValidation
	CodeNotImplemented  = ErrCodeNotImplemented
	CodeConfigInvalid   = ErrCodeConfigInvalid
	CodeSerialization   = ErrCodeSerialization
	CodeFileReadFailed  = ErrCodeFileReadFailed
	CodeFileParseFailed = ErrCodeFileParseFailed
	CodeOK              = ErrorCode("OK")
	CodeUnknown         = ErrorCode("UNKNOWN")
)

// NETA compile error codes.  One code per compile error kind.
const (
	ErrCodeNETALexical        ErrorCode = "NETA_001"
	ErrCodeNETASyntax         ErrorCode = "NETA_002"
	ErrCodeNETAUnknownKeyword ErrorCode = "NETA_003"
	ErrCodeNETAUnknownElement ErrorCode = "NETA_004"
	ErrCodeNETAUnresolvedType ErrorCode = "NETA_005"
	ErrCodeNETABadOperator    ErrorCode = "NETA_006"

	CodeNETALexical        = ErrCodeNETALexical
	CodeNETASyntax         = ErrCodeNETASyntax
	CodeNETAUnknownKeyword = ErrCodeNETAUnknownKeyword
	CodeNETAUnknownElement = ErrCodeNETAUnknownElement
	CodeNETAUnresolvedType = ErrCodeNETAUnresolvedType
	CodeNETABadOperator    = ErrCodeNETABadOperator
)

// Molecule model error codes.
const (
	ErrCodeAtomNotFound      ErrorCode = "MOL_001"
	ErrCodeBondInvalid       ErrorCode = "MOL_002"
	ErrCodeElementUnknown    ErrorCode = "MOL_003"
	ErrCodeSpeciesInvalid    ErrorCode = "MOL_004"
	ErrCodeBondAlreadyExists ErrorCode = "MOL_005"

	CodeAtomNotFound      = ErrCodeAtomNotFound
	CodeBondInvalid       = ErrCodeBondInvalid
	CodeElementUnknown    = ErrCodeElementUnknown
	CodeSpeciesInvalid    = ErrCodeSpeciesInvalid
	CodeBondAlreadyExists = ErrCodeBondAlreadyExists
)

// Forcefield and fragment error codes.
const (
	ErrCodeAtomTypeNotFound     ErrorCode = "FF_001"
	ErrCodeAtomTypeDuplicate    ErrorCode = "FF_002"
	ErrCodeAtomTypeInvalidNETA  ErrorCode = "FF_003"
	ErrCodeFragmentInvalidNETA  ErrorCode = "FRG_001"
	ErrCodeFragmentNoDefinition ErrorCode = "FRG_002"

	CodeAtomTypeNotFound     = ErrCodeAtomTypeNotFound
	CodeAtomTypeDuplicate    = ErrCodeAtomTypeDuplicate
	CodeAtomTypeInvalidNETA  = ErrCodeAtomTypeInvalidNETA
	CodeFragmentInvalidNETA  = ErrCodeFragmentInvalidNETA
	CodeFragmentNoDefinition = ErrCodeFragmentNoDefinition
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal error",
	ErrCodeBadRequest:      "bad request",
	ErrCodeNotFound:        "resource not found",
	ErrCodeConflict:        "resource conflict",
	ErrCodeValidation:      "validation failed",
	ErrCodeSerialization:   "serialization failed",
	ErrCodeNotImplemented:  "not implemented",
	ErrCodeConfigInvalid:   "invalid configuration",
	ErrCodeFileReadFailed:  "failed to read file",
	ErrCodeFileParseFailed: "failed to parse file",

	ErrCodeNETALexical:        "invalid character in NETA definition",
	ErrCodeNETASyntax:         "NETA syntax error",
	ErrCodeNETAUnknownKeyword: "unknown NETA keyword",
	ErrCodeNETAUnknownElement: "unknown element in NETA definition",
	ErrCodeNETAUnresolvedType: "unresolved atom type reference",
	ErrCodeNETABadOperator:    "invalid comparison operator",

	ErrCodeAtomNotFound:      "atom not found",
	ErrCodeBondInvalid:       "invalid bond",
	ErrCodeElementUnknown:    "unknown element",
	ErrCodeSpeciesInvalid:    "invalid species",
	ErrCodeBondAlreadyExists: "bond already exists",

	ErrCodeAtomTypeNotFound:     "atom type not found",
	ErrCodeAtomTypeDuplicate:    "duplicate atom type",
	ErrCodeAtomTypeInvalidNETA:  "atom type has an invalid NETA definition",
	ErrCodeFragmentInvalidNETA:  "fragment has an invalid NETA definition",
	ErrCodeFragmentNoDefinition: "fragment has no definition",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
