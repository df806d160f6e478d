package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `package game

//ecs:component
type Position struct{ X, Y float32 }

// Velocity is marked in a grouped declaration.
type (
	//ecs:component
	Velocity struct{ DX, DY float32 }

	helper struct{}
)

// Health is a component.
//
//ecs:component
type Health struct{ Current int }

// Plain is not a component.
type Plain struct{}

//ecs:component
type Box[T any] struct{ V T }
`

func TestComponentTypes(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", sample, parser.ParseComments)
	require.NoError(t, err)

	components, err := componentTypes([]*ast.File{file})
	require.NoError(t, err)
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Health", "Position", "Velocity"}, names)
}

func TestComponentTypesReferenceFields(t *testing.T) {
	parse := func(t *testing.T, src string) *ast.File {
		file, err := parser.ParseFile(token.NewFileSet(), "sample.go", "package game\n"+src, parser.ParseComments)
		require.NoError(t, err)
		return file
	}

	t.Run("slices and maps of values are copied", func(t *testing.T) {
		file := parse(t, `
//ecs:component
type Path struct {
	Points    [][2]float32
	Costs     map[string]int
	Remaining int
}
`)
		components, err := componentTypes([]*ast.File{file})
		require.NoError(t, err)
		require.Len(t, components, 1)
		assert.Equal(t, component{Name: "Path", Slices: []string{"Points"}, Maps: []string{"Costs"}}, components[0])
	})

	for name, src := range map[string]string{
		"pointer":         "type Target struct{ Next *Target }",
		"slice of slices": "type Grid struct{ Cells [][]int }",
		"map of pointers": "type Index struct{ ByName map[string]*int }",
		"interface":       "type Payload struct{ Value any }",
		"func":            "type Hook struct{ Fn func() }",
		"not a struct":    "type Count int",
	} {
		t.Run(name, func(t *testing.T) {
			file := parse(t, "//ecs:component\n"+src)
			_, err := componentTypes([]*ast.File{file})
			assert.Error(t, err)
		})
	}
}

func TestGenerateDeepCopies(t *testing.T) {
	src, err := generate("game", "", []component{
		{Name: "Path", Slices: []string{"Points"}, Maps: []string{"Costs"}},
		{Name: "Position"},
	})
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, `"maps"`)
	assert.Contains(t, out, `"slices"`)
	assert.Contains(t, out, "clone.Points = slices.Clone(c.Points)")
	assert.Contains(t, out, "clone.Costs = maps.Clone(c.Costs)")
	assert.Contains(t, out, "c.Points = slices.Clone(other.Points)")
	assert.Contains(t, out, "*c = *ecs.MustCast[*Position](src)")

	_, err = parser.ParseFile(token.NewFileSet(), "out.go", src, 0)
	assert.NoError(t, err)
}

func TestGenerate(t *testing.T) {
	src, err := generate("game", "game.", []component{{Name: "Health"}, {Name: "Position"}})
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, "// Code generated by ecs-kindgen. DO NOT EDIT.")
	assert.Contains(t, out, "package game")
	assert.Contains(t, out, `import "github.com/plus3/keystone/ecs"`)
	assert.Contains(t, out, `PositionKind = ecs.NewKind("game.Position")`)
	assert.Contains(t, out, "func (*Health) Kind() ecs.KindID { return HealthKind }")
	assert.Contains(t, out, "*c = *ecs.MustCast[*Position](src)")
	assert.Contains(t, out, `ecs.RegisterComponent(r, "game.Health", func() *Health { return new(Health) })`)

	// The output must parse as Go.
	_, err = parser.ParseFile(token.NewFileSet(), "out.go", src, 0)
	assert.NoError(t, err)
}
