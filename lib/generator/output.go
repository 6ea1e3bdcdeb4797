package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/pthm/formbuilder"
)

// Generate renders Go source that builds the form described by s. The
// generated function is named New<Form>Form and takes a
// *formbuilder.Factory.
func Generate(s *Schema, pkg string) ([]byte, error) {
	tmpl, err := template.New("form").Funcs(template.FuncMap{
		"funcName": funcName,
		"literal":  literal,
		"quote":    strconv.Quote,
	}).Parse(formTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package string
		Schema  *Schema
		Fields  []Field
	}{
		Package: pkg,
		Schema:  s,
		Fields:  s.Fields(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}

// funcName converts "user_account" to "UserAccount".
func funcName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// literal renders an option or attribute map as a Go composite literal.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case formbuilder.Options:
		if len(x) == 0 {
			return "nil"
		}
		return "formbuilder.Options{" + entries(x) + "}"
	case formbuilder.Attrs:
		if len(x) == 0 {
			return "nil"
		}
		return "formbuilder.Attrs{" + entries(x) + "}"
	case formbuilder.Items:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, fmt.Sprintf("{Value: %s, Label: %s}", strconv.Quote(item.Value), strconv.Quote(item.Label)))
		}
		return "formbuilder.Items{" + strings.Join(parts, ", ") + "}"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	}
	return strconv.Quote(fmt.Sprint(v))
}

func entries[M ~map[string]any](m M) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strconv.Quote(k)+": "+literal(m[k]))
	}
	return strings.Join(parts, ", ")
}

const formTemplate = `// Code generated by formbuilder generate. DO NOT EDIT.

package {{.Package}}

import "github.com/pthm/formbuilder"

// New{{funcName .Schema.Form}}Form builds the {{.Schema.Form}} form.
func New{{funcName .Schema.Form}}Form(f *formbuilder.Factory) *formbuilder.Form {
	form := f.Form(formbuilder.Options{"name": {{quote .Schema.Form}}}, nil)
{{- range .Fields}}
	form.Begin({{quote .Type}}, {{literal .Options}}, {{literal .Attrs}})
{{- end}}
{{- if .Schema.Submit}}
	form.Begin("button", formbuilder.Options{"description": {{quote .Schema.Submit}}}, formbuilder.Attrs{"type": "submit"})
{{- end}}
	return form
}
`
