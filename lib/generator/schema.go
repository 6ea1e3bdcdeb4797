package generator

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm/formbuilder"
)

// Schema describes a database table to build a form for.
//
//	form: user
//	submit: Save
//	columns:
//	  - name: id
//	    type: int
//	    auto_increment: true
//	  - name: email
//	    type: varchar(255)
//	  - name: role
//	    type: enum('admin','editor')
//	    default: editor
type Schema struct {
	Form    string   `yaml:"form"`
	Submit  string   `yaml:"submit,omitempty"`
	Columns []Column `yaml:"columns"`
}

// Column is one table column.
type Column struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Nullable      bool   `yaml:"nullable,omitempty"`
	AutoIncrement bool   `yaml:"auto_increment,omitempty"`
	Default       any    `yaml:"default,omitempty"`
	Description   string `yaml:"description,omitempty"`
}

// Field is the factory call a column maps to.
type Field struct {
	Type    string
	Options formbuilder.Options
	Attrs   formbuilder.Attrs
}

// sqlTypes maps SQL column types to factory type names.
var sqlTypes = map[string]string{
	"bit":              "number",
	"bit(1)":           "boolean",
	"bool":             "boolean",
	"boolean":          "boolean",
	"tinyint(1)":       "boolean",
	"tinyint":          "number",
	"smallint":         "number",
	"mediumint":        "number",
	"int":              "number",
	"integer":          "number",
	"bigint":           "number",
	"decimal":          "decimal",
	"dec":              "decimal",
	"numeric":          "decimal",
	"fixed":            "decimal",
	"float":            "decimal",
	"double":           "decimal",
	"double precision": "decimal",
	"real":             "decimal",
	"date":             "date",
	"datetime":         "datetime",
	"timestamp":        "datetime",
	"time":             "time",
	"year":             "number",
	"char":             "text",
	"varchar":          "text",
	"binary":           "textarea",
	"varbinary":        "textarea",
	"tinyblob":         "textarea",
	"tinytext":         "textarea",
	"blob":             "textarea",
	"text":             "textarea",
	"mediumblob":       "textarea",
	"mediumtext":       "textarea",
	"longblob":         "textarea",
	"longtext":         "textarea",
	"enum":             "choice",
	"set":              "multi",
}

// Parse decodes a YAML schema.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if s.Form == "" {
		return nil, fmt.Errorf("parse schema: %w: missing form name", formbuilder.ErrInvalidConfig)
	}
	for i, c := range s.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("parse schema: %w: column %d has no name", formbuilder.ErrInvalidConfig, i)
		}
	}
	return &s, nil
}

// Load reads and parses a YAML schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Fields maps every column to a factory call.
func (s *Schema) Fields() []Field {
	fields := make([]Field, 0, len(s.Columns))
	for _, c := range s.Columns {
		fields = append(fields, c.Field())
	}
	return fields
}

// Field maps the column to a factory type name, options and attributes.
// Auto-increment columns become hidden fields. Length-limited types get a
// maxlength, enum and set columns get their items, and NOT NULL columns
// are required unless hidden.
func (c Column) Field() Field {
	f := Field{Options: formbuilder.Options{}, Attrs: formbuilder.Attrs{"name": c.Name}}
	sqlType := strings.ToLower(strings.TrimSpace(c.Type))

	switch {
	case c.AutoIncrement:
		f.Type = "hidden"
	case sqlTypes[sqlType] != "":
		f.Type = sqlTypes[sqlType]
	default:
		base, arg, _ := strings.Cut(sqlType, "(")
		base = strings.TrimSpace(base)
		arg = strings.TrimSuffix(strings.TrimSpace(arg), ")")

		f.Type = sqlTypes[base]
		if f.Type == "" {
			f.Type = "text"
		}
		switch base {
		case "enum", "set":
			// Keep the original casing of the item labels.
			_, rawArg, _ := strings.Cut(c.Type, "(")
			f.Options["items"] = parseItems(strings.TrimSuffix(strings.TrimSpace(rawArg), ")"), base == "set")
		default:
			if n, err := strconv.Atoi(arg); err == nil && (f.Type == "text" || f.Type == "textarea") {
				f.Attrs["maxlength"] = n
			}
		}
	}

	if f.Type != "hidden" && !c.Nullable {
		f.Attrs["required"] = true
	}
	if c.Default != nil {
		f.Options["value"] = fmt.Sprint(c.Default)
	}
	if c.Description != "" {
		f.Options["description"] = c.Description
	}
	return f
}

// parseItems splits an enum or set definition like 'a','b\'c'. Set items
// take bit values (1, 2, 4, ...) as in the database.
func parseItems(def string, bits bool) formbuilder.Items {
	var items formbuilder.Items
	for i, raw := range splitQuoted(def) {
		value := raw
		if bits {
			value = strconv.Itoa(1 << i)
		}
		items = append(items, formbuilder.Item{Value: value, Label: raw})
	}
	return items
}

func splitQuoted(def string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range def {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '\'':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			if inQuote || r != ' ' {
				cur.WriteRune(r)
			}
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" || len(out) > 0 {
		out = append(out, s)
	}
	return out
}

// Build creates the form described by s through f.
func Build(f *formbuilder.Factory, s *Schema) (*formbuilder.Form, error) {
	form := f.Form(formbuilder.Options{"name": s.Form}, nil)
	for _, field := range s.Fields() {
		el, err := f.Element(field.Type, field.Options, field.Attrs)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", s.Form, err)
		}
		form.Add(el)
	}
	if s.Submit != "" {
		btn, err := f.Element("button", formbuilder.Options{"description": s.Submit}, formbuilder.Attrs{"type": "submit"})
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", s.Form, err)
		}
		form.Add(btn)
	}
	return form, nil
}
