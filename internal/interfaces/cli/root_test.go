package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/disorderedmaterials/neta/pkg/errors"
	dto "github.com/disorderedmaterials/neta/pkg/types/molecule"
)

const speciesYAML = `species:
  - name: methanol
    atoms:
      - {element: C, r: [0.000, 0.000, 0.000]}
      - {element: O, r: [0.826, 0.826, 0.826]}
      - {element: H, r: [0.629, -0.629, -0.629]}
      - {element: H, r: [-0.629, 0.629, -0.629]}
      - {element: H, r: [-0.629, -0.629, 0.629]}
      - {element: H, r: [1.786, 0.826, 0.826]}
    bonds: [[0, 1], [0, 2], [0, 3], [0, 4], [1, 5]]
  - name: water
    atoms:
      - {element: O, r: [0.000, 0.000, 0.000]}
      - {element: H, r: [0.759, 0.586, 0.000]}
      - {element: H, r: [-0.759, 0.586, 0.000]}
    bonds: [[0, 1], [0, 2]]
`

const forcefieldYAML = `name: mini
types:
  - {id: 1, name: CT, element: C, neta: "nbonds=4"}
  - {id: 2, name: HC, element: H, neta: "-C"}
  - {id: 3, name: OH, element: O, neta: "-H,-C"}
  - {id: 4, name: HO, element: H, neta: "-O"}
  - {id: 5, name: CTO, element: C, neta: "nbonds=4,-O(-H)"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type fixtures struct {
	species    string
	forcefield string
	dir        string
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	return fixtures{
		species:    writeFile(t, dir, "species.yaml", speciesYAML),
		forcefield: writeFile(t, dir, "forcefield.yaml", forcefieldYAML),
		dir:        dir,
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand(nil)
	assert.Equal(t, "neta", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"check", "match", "generate", "assign", "fragments"}, names)

	for _, flag := range []string{"config", "log-level", "output", "verbose", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, OutputText, cmd.PersistentFlags().Lookup("output").DefValue)
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	out, err := run(t, "check", "?C , -H(n=3),#cog")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "?C,-H(n=3),#cog")
	assert.Contains(t, out, "identifiers: cog")

	out, err = run(t, "check", "--", "-C(")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNETASyntax))
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, "   ^")
	assert.Contains(t, out, "[NETA_002]")
}

func TestCheckCmd_JSONWithForcefield(t *testing.T) {
	t.Parallel()
	fx := newFixtures(t)

	out, err := run(t, "-o", "json", "check", "--forcefield", fx.forcefield, "--", "-&CTO")
	require.NoError(t, err)

	var res dto.CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Valid)
	assert.Equal(t, "-&CTO", res.Canonical)
}

func TestMatchCmd(t *testing.T) {
	t.Parallel()
	fx := newFixtures(t)

	out, err := run(t, "-o", "json", "match", "-s", fx.species, "--matched-only", "?O,#origin,-H(#h)")
	require.NoError(t, err)

	var res []dto.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.Equal(t, "methanol", res[0].Species)
	assert.Equal(t, []int{1, 5}, res[0].Path)
	assert.Equal(t, []int{1}, res[0].Identifiers["origin"])
	assert.Equal(t, "water", res[1].Species)

	out, err = run(t, "match", "-s", fx.species, "-n", "water", "?H")
	require.NoError(t, err)
	assert.Contains(t, out, "water 0 O score=nomatch")
	assert.Contains(t, out, "water 1 H score=1 path=1")

	out, err = run(t, "-o", "json", "match", "-s", fx.species, "-n", "methanol", "--matched-only", "--", "-O(-H)")
	require.NoError(t, err)
	res = nil
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 1)
	assert.Equal(t, 0, res[0].Atom)
	assert.Equal(t, 2, res[0].Score)
}

func TestCheckCmd_DefinitionLooksLikeFlag(t *testing.T) {
	t.Parallel()

	_, err := run(t, "check", "-C(")
	require.Error(t, err)
	assert.False(t, errors.IsCompileError(err))

	out, err := run(t, "check", "--", "-C(-H")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNETASyntax))
	assert.Contains(t, out, "-C(-H")
	assert.Contains(t, out, "     ^")
}

func TestMatchCmd_Errors(t *testing.T) {
	t.Parallel()
	fx := newFixtures(t)

	_, err := run(t, "match", "?C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "species")

	_, err = run(t, "match", "-s", filepath.Join(fx.dir, "missing.yaml"), "?C")
	assert.True(t, errors.IsCode(err, errors.CodeFileReadFailed))

	_, err = run(t, "match", "-s", fx.species, "-n", "ammonia", "?C")
	assert.True(t, errors.IsNotFound(err))

	_, err = run(t, "-o", "xml", "match", "-s", fx.species, "?C")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestGenerateCmd(t *testing.T) {
	t.Parallel()
	fx := newFixtures(t)

	out, err := run(t, "-o", "yaml", "generate", "-s", fx.species, "-n", "methanol", "--atom", "0", "--depth", "1")
	require.NoError(t, err)

	var res dto.GenerateResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "nbonds=4,nh=3,-O", res.Definition)
	assert.Equal(t, []int{0}, res.Matches)

	out, err = run(t, "generate", "-s", fx.species, "-n", "water", "--atom", "1", "--depth", "0", "--root-element")
	require.NoError(t, err)
	assert.Contains(t, out, "?H,nbonds=1,nh=0")
	assert.Contains(t, out, "matches water atoms 1,2")

	_, err = run(t, "generate", "-s", fx.species, "--atom", "0")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = run(t, "generate", "-s", fx.species, "-n", "water", "--atom", "0", "--depth", "-1")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestAssignCmd(t *testing.T) {
	t.Parallel()
	fx := newFixtures(t)

	out, err := run(t, "-o", "json", "assign", "-s", fx.species, "-f", fx.forcefield, "-n", "methanol")
	require.NoError(t, err)

	var res []dto.AssignmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	var types []string
	for _, r := range res {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{"CTO", "OH", "HC", "HC", "HC", "HO"}, types)

	out, err = run(t, "-o", "table", "assign", "-s", fx.species, "-f", fx.forcefield)
	require.NoError(t, err)
	assert.Contains(t, out, "Species")
	assert.Contains(t, out, "CTO")
	assert.Contains(t, out, "nomatch")

	_, err = run(t, "assign", "-s", fx.species)
	require.Error(t, err)
}

func TestFragmentsCmd(t *testing.T) {
	t.Parallel()
	fx := newFixtures(t)

	out, err := run(t, "-o", "json", "fragments", "-s", fx.species, "--require-origin", "?O,#origin,-C(#x),-H(#y)")
	require.NoError(t, err)

	var res []dto.FragmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 1)
	assert.Equal(t, "methanol", res[0].Species)
	assert.Equal(t, []int{0, 1, 5}, res[0].Indices)
	assert.NotEmpty(t, res[0].ID)
	require.NotNil(t, res[0].Axes)

	out, err = run(t, "fragments", "-s", fx.species, "?O,#origin,-C(#x),-H(#y)")
	require.NoError(t, err)
	assert.Contains(t, out, "methanol root=1 atoms=0,1,5")
	assert.Contains(t, out, "  z (")
}

func TestRootCommand_MetricsTextfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	textfile := filepath.Join(dir, "neta.prom")
	cfgPath := writeFile(t, dir, "neta.yaml", "metrics:\n  enabled: true\n  namespace: netatest\n  textfile: "+textfile+"\n")

	_, err := run(t, "--config", cfgPath, "check", "?C")
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `netatest_compile_total{code="",result="ok"} 1`)
}

func TestRootCommand_BadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "neta.yaml", "engine:\n  max_ring_size: 40\n")

	_, err := run(t, "--config", cfgPath, "check", "?C")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
}

func TestCaret(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "   ^", caret("-C(", 3))
	assert.Equal(t, "^", caret("-C(", 0))
	assert.Equal(t, "   ^", caret("-C(", 99))
}
