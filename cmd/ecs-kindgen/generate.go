package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"sort"
	"strings"
	"text/template"
)

const marker = "//ecs:component"

// component describes one marked struct. Slices and Maps name the fields that
// Clone and Update must copy rather than share.
type component struct {
	Name   string
	Slices []string
	Maps   []string
}

// componentTypes returns the struct types whose doc comment carries the marker
// line, sorted by name. Slice and map fields are supported when their elements
// are plain values; any other reference-typed field is an error, since the
// generated Clone could not produce an independent copy.
func componentTypes(files []*ast.File) ([]component, error) {
	var components []component
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if ts.TypeParams != nil {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				if !hasMarker(doc) {
					continue
				}
				c, err := describe(ts)
				if err != nil {
					return nil, err
				}
				components = append(components, c)
			}
		}
	}
	sort.Slice(components, func(i, j int) bool { return components[i].Name < components[j].Name })
	return components, nil
}

func describe(ts *ast.TypeSpec) (component, error) {
	c := component{Name: ts.Name.Name}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return c, fmt.Errorf("%s: only struct types can be components", c.Name)
	}

	for _, field := range st.Fields.List {
		names := fieldNames(field)
		switch t := field.Type.(type) {
		case *ast.ArrayType:
			if !isValueType(t.Elt) {
				return c, fmt.Errorf("%s.%s: element type holds references; write Clone and Update by hand", c.Name, names[0])
			}
			if t.Len == nil {
				c.Slices = append(c.Slices, names...)
			}
		case *ast.MapType:
			if !isValueType(t.Key) || !isValueType(t.Value) {
				return c, fmt.Errorf("%s.%s: map holds references; write Clone and Update by hand", c.Name, names[0])
			}
			c.Maps = append(c.Maps, names...)
		default:
			if !isValueType(field.Type) {
				return c, fmt.Errorf("%s.%s: reference-typed field; write Clone and Update by hand", c.Name, names[0])
			}
		}
	}
	return c, nil
}

func fieldNames(field *ast.Field) []string {
	if len(field.Names) == 0 {
		// Embedded field.
		switch t := field.Type.(type) {
		case *ast.Ident:
			return []string{t.Name}
		case *ast.SelectorExpr:
			return []string{t.Sel.Name}
		case *ast.StarExpr:
			return fieldNames(&ast.Field{Type: t.X})
		}
		return []string{"<embedded>"}
	}
	names := make([]string, len(field.Names))
	for i, name := range field.Names {
		names[i] = name.Name
	}
	return names
}

// isValueType reports whether copying a value of type expr yields an
// independent copy. Named types are taken to be values.
func isValueType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name != "any" && t.Name != "error"
	case *ast.SelectorExpr:
		return true
	case *ast.ParenExpr:
		return isValueType(t.X)
	case *ast.ArrayType:
		return t.Len != nil && isValueType(t.Elt)
	case *ast.StructType:
		for _, field := range t.Fields.List {
			if !isValueType(field.Type) {
				return false
			}
		}
		return true
	}
	return false
}

func hasMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == marker {
			return true
		}
	}
	return false
}

var fileTemplate = template.Must(template.New("components").Parse(`// Code generated by ecs-kindgen. DO NOT EDIT.

package {{.Package}}

{{if or .UsesMaps .UsesSlices -}}
import (
{{- if .UsesMaps}}
	"maps"
{{- end}}
{{- if .UsesSlices}}
	"slices"
{{- end}}

	"github.com/plus3/keystone/ecs"
)
{{- else -}}
import "github.com/plus3/keystone/ecs"
{{- end}}

var (
{{- range .Components}}
	{{.Name}}Kind = ecs.NewKind("{{$.Prefix}}{{.Name}}")
{{- end}}
)
{{range .Components}}
func (*{{.Name}}) Kind() ecs.KindID { return {{.Name}}Kind }

func (c *{{.Name}}) Clone() ecs.Component {
	clone := *c
{{- range .Slices}}
	clone.{{.}} = slices.Clone(c.{{.}})
{{- end}}
{{- range .Maps}}
	clone.{{.}} = maps.Clone(c.{{.}})
{{- end}}
	return &clone
}
{{if or .Slices .Maps}}
func (c *{{.Name}}) Update(src ecs.Component) {
	other := ecs.MustCast[*{{.Name}}](src)
	*c = *other
{{- range .Slices}}
	c.{{.}} = slices.Clone(other.{{.}})
{{- end}}
{{- range .Maps}}
	c.{{.}} = maps.Clone(other.{{.}})
{{- end}}
}
{{else}}
func (c *{{.Name}}) Update(src ecs.Component) {
	*c = *ecs.MustCast[*{{.Name}}](src)
}
{{end}}
{{- end}}
// RegisterComponents registers every generated component with r.
func RegisterComponents(r *ecs.ComponentRegistry) {
{{- range .Components}}
	ecs.RegisterComponent(r, "{{$.Prefix}}{{.Name}}", func() *{{.Name}} { return new({{.Name}}) })
{{- end}}
}
`))

// generate renders the methods for the given components and gofmts the result.
func generate(pkg, prefix string, components []component) ([]byte, error) {
	data := struct {
		Package    string
		Prefix     string
		Components []component
		UsesSlices bool
		UsesMaps   bool
	}{Package: pkg, Prefix: prefix, Components: components}
	for _, c := range components {
		data.UsesSlices = data.UsesSlices || len(c.Slices) > 0
		data.UsesMaps = data.UsesMaps || len(c.Maps) > 0
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}
