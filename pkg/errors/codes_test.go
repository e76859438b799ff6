package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "NETA_002", ErrCodeNETASyntax.String())
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown NETA keyword", DefaultMessageForCode(ErrCodeNETAUnknownKeyword))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_999")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "NETA", ModuleForCode(ErrCodeNETAUnresolvedType))
	assert.Equal(t, "MOL", ModuleForCode(ErrCodeAtomNotFound))
	assert.Equal(t, "FF", ModuleForCode(ErrCodeAtomTypeDuplicate))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestEveryNETACodeHasMessage(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeNETALexical, ErrCodeNETASyntax, ErrCodeNETAUnknownKeyword,
		ErrCodeNETAUnknownElement, ErrCodeNETAUnresolvedType, ErrCodeNETABadOperator,
	} {
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing message for %s", code)
	}
}
