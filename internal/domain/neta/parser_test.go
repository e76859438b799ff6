package neta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

var validDefinitions = []string{
	"",
	"?C",
	"?[C,N,O]",
	"-C",
	"-C(-H)",
	"-[C,N](n=2)",
	"?C,-H(n=3),nh=0",
	"ring()",
	"ring(size=6)",
	"ring(size>=5,n=2)",
	"ring(C(n=3),N,#r)",
	"ring(!N,C)",
	"!ring(size=6)",
	"ring(n=0)",
	"nbonds>=2",
	"nh<=1",
	"nbonds!=3",
	"geometry=tetrahedral",
	"geometry!='linear'",
	`geometry="tshape"`,
	"-O(root)",
	"?O,#cog,-C(#x),-H(-O(root),#y)",
	"#[a,b]",
	"-C|-N",
	"(-C,-H)|(-N)",
	"-C(-H|-N,n>1)",
	"!(-C,-H)",
	"?&CT",
	"-&1",
	"-[C,&HC](n<=2)",
	"  ?C ,  -H ",
	"-C(-C(-C(-C(-H))))",
	"-C()",
}

func TestCompile_Valid(t *testing.T) {
	lookup := newFakeLookup("CT", "HC")
	for _, text := range validDefinitions {
		text := text
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			root, err := compile(text, lookup)
			require.Nil(t, err)
			require.NotNil(t, root)
			assert.Equal(t, KindRoot, root.Kind)
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	lookup := newFakeLookup("CT")
	tests := []struct {
		text string
		kind ErrorKind
		pos  int
	}{
		{"-C(", ErrSyntax, 3},
		{"-C)", ErrSyntax, 2},
		{"--C", ErrSyntax, 1},
		{"-C,,-H", ErrSyntax, 3},
		{"-C,", ErrSyntax, 3},
		{"|-C", ErrSyntax, 0},
		{"C", ErrSyntax, 0},
		{"?C(-H)", ErrSyntax, 2},
		{"[C,N]", ErrSyntax, 0},
		{"-[C,N", ErrSyntax, 5},
		{"!#x", ErrSyntax, 0},
		{"nbonds=2.5", ErrSyntax, 7},
		{"ring(C(n=0))", ErrSyntax, 9},
		{"-Xx", ErrUnknownElement, 1},
		{"-ring", ErrUnknownElement, 1},
		{"ring(Xx)", ErrUnknownElement, 5},
		{"?C,foo=2", ErrUnknownKeyword, 3},
		{"-C(size=3)", ErrUnknownKeyword, 3},
		{"ring(nbonds=2)", ErrUnknownKeyword, 5},
		{"ring(root)", ErrUnknownKeyword, 5},
		{"?C,root", ErrUnknownKeyword, 3},
		{"geometry=bent", ErrUnknownKeyword, 9},
		{"nbonds=>2", ErrBadOperator, 7},
		{"nbonds 2", ErrBadOperator, 7},
		{"nh<>1", ErrBadOperator, 3},
		{"geometry>linear", ErrBadOperator, 8},
		{"ring(C(n>2))", ErrBadOperator, 7},
		{"?C$", ErrLexical, 2},
		{"nbonds=1e", ErrLexical, 8},
		{"?&nosuch", ErrUnresolvedType, 2},
		{"-&7", ErrUnresolvedType, 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			root, err := compile(tt.text, lookup)
			assert.Nil(t, root)
			require.NotNil(t, err)
			assert.Equal(t, tt.kind, err.Kind, err.Error())
			assert.Equal(t, tt.pos, err.Pos, err.Error())
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestCompile_TypeReferenceWithoutLookup(t *testing.T) {
	_, err := compile("?&CT", nil)
	require.NotNil(t, err)
	assert.Equal(t, ErrUnresolvedType, err.Kind)
	assert.Contains(t, err.Message, "without a type lookup")
}

func TestCompile_UnknownKeywordNamesNodeKind(t *testing.T) {
	_, err := compile("-C(size=3)", nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "'size'")
	assert.Contains(t, err.Message, "connection")
}

type panickingLookup struct{}

func (panickingLookup) ResolveName(string) (molecule.TypeHandle, bool) { panic("boom") }
func (panickingLookup) ResolveID(int) (molecule.TypeHandle, bool)      { panic("boom") }

func TestCompile_ForeignPanicIsRaised(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = compile("?&CT", panickingLookup{})
	})
}

func TestCompile_Structure(t *testing.T) {
	root, err := compile("?O,#cog,-C(#x),-H(-O(root),#y)", nil)
	require.Nil(t, err)

	assert.Equal(t, []string{"cog"}, root.Identifiers)
	require.Len(t, root.Children, 3)

	presence := root.Children[0]
	assert.Equal(t, KindPresence, presence.Kind)

	c := root.Children[1]
	assert.Equal(t, KindConnection, c.Kind)
	assert.Equal(t, []string{"x"}, c.Identifiers)
	assert.Empty(t, c.Children)

	h := root.Children[2]
	assert.Equal(t, []string{"y"}, h.Identifiers)
	require.Len(t, h.Children, 1)
	assert.True(t, h.Children[0].Flags["root"])
}

func TestCompile_OrStructure(t *testing.T) {
	root, err := compile("-C,-H|-N", nil)
	require.Nil(t, err)
	require.Len(t, root.Children, 1)

	or := root.Children[0]
	assert.Equal(t, KindOr, or.Kind)
	assert.Len(t, or.Primary, 2)
	assert.Len(t, or.Alternative, 1)
}

func TestCompile_ContextKeywordInsideOrAppliesToConnection(t *testing.T) {
	root, err := compile("-C(-H|-N,n>1)", nil)
	require.Nil(t, err)
	conn := root.Children[0]
	assert.Equal(t, Modifier{Op: OpGreater, Value: 1}, conn.Modifiers["n"])
	require.Len(t, conn.Children, 1)
	assert.Equal(t, KindOr, conn.Children[0].Kind)
}

func TestNode_String(t *testing.T) {
	lookup := newFakeLookup("CT")
	tests := []struct {
		text string
		want string
	}{
		{"?O,#cog,-C(#x),-H(-O(root),#y)", "?O,-C(#x),-H(-O(root),#y),#cog"},
		{"-C(-H|-N,n>1)", "-C(-H|-N,n>1)"},
		{"ring(C(n=3),N,#r,size=6)", "ring(size=6,C(n=3),N,#r)"},
		{"!(-C,-H)", "!(-C,-H)"},
		{"#[b,a]", "#[b,a]"},
		{"geometry!='linear'", "geometry!=linear"},
		{"-[C,N](n>=2)", "-[C,N](n>=2)"},
		{" ?[C,&CT] , nh = 2 ", "?[C,&CT],nh=2"},
		{"ring()", "ring()"},
		{"!ring(!N,C)", "!ring(!N,C)"},
		{"-C()", "-C"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			root, err := compile(tt.text, lookup)
			require.Nil(t, err)
			got := root.String()
			assert.Equal(t, tt.want, got)

			again, err := compile(got, lookup)
			require.Nil(t, err, "canonical text must recompile")
			assert.Equal(t, got, again.String())
		})
	}
}

func TestCompileError_AppError(t *testing.T) {
	d := NewDefinition()
	err := d.Create("-C(", nil)
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.CodeNETASyntax))
	assert.True(t, errors.IsCompileError(err))

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrSyntax, ce.Kind)
	assert.Equal(t, 3, ce.Pos)
	assert.Contains(t, err.Error(), `definition="-C("`)
}

func TestErrorKind_Code(t *testing.T) {
	assert.Equal(t, errors.CodeNETALexical, ErrLexical.Code())
	assert.Equal(t, errors.CodeNETABadOperator, ErrBadOperator.Code())
	assert.Equal(t, errors.CodeNETAUnresolvedType, ErrUnresolvedType.Code())
	assert.Equal(t, "unknown element", ErrUnknownElement.String())
}
