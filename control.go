package formbuilder

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"
)

// Control is an element that holds a user-editable value and takes part in
// validation.
type Control interface {
	Element

	Value() any
	SetValue(value any)

	Description() string
	SetDescription(desc string)

	// ErrorMessage returns the message of the last failed validation, or ""
	// when the last validation passed or none ran yet.
	ErrorMessage() string
	SetError(message string)

	LabelHTML() string
	ControlHTML() string
	FieldHTML() string
	ValidationScript() string
}

type controlGenerator interface {
	generateControl() string
}

// ControlBase carries the description and error state of a control and
// implements the label, control, field and container rendering stages.
//
// Each stage generates its HTML and then threads it through the matching
// decorator hook:
//
//	container( label + field( prepend + control + append + script ) + error )
type ControlBase struct {
	Node
	desc string
	err  string
}

// initControl initializes the node and description. Attributes in first
// are stored before those in attrs. It returns the initial value from the
// "value" option so the concrete type can apply it once it is set up.
func (c *ControlBase) initControl(self Control, opts Options, first, attrs Attrs) (any, bool) {
	opts = opts.Clone()
	desc, hasDesc := opts["description"].(string)
	delete(opts, "description")
	value, hasValue := opts["value"]
	delete(opts, "value")

	c.Node.init(self, opts, first)
	c.attrs.SetAll(attrs)
	if !hasDesc {
		desc = describe(c.Name())
	}
	c.desc = desc
	return value, hasValue
}

func (c *ControlBase) control() Control {
	return c.self.(Control)
}

// Description returns the label text.
func (c *ControlBase) Description() string { return c.desc }

// SetDescription sets the label text.
func (c *ControlBase) SetDescription(desc string) { c.desc = desc }

// ErrorMessage returns the last validation error.
func (c *ControlBase) ErrorMessage() string { return c.err }

// SetError stores message with its placeholders resolved and surrounding
// whitespace trimmed.
func (c *ControlBase) SetError(message string) {
	c.err = strings.TrimSpace(c.Parse(message))
}

func (c *ControlBase) special(name string) (string, bool) {
	switch name {
	case "value":
		return valueString(c.control().Value()), true
	case "length":
		return strconv.Itoa(utf8.RuneCountInString(valueString(c.control().Value()))), true
	case "desc":
		return c.desc, true
	}
	return "", false
}

type labelMode int

const (
	labelNone labelMode = iota
	labelSeparate
	labelContain
)

func (c *ControlBase) labelMode() labelMode {
	switch v := c.Option("label").(type) {
	case nil:
		return labelSeparate
	case bool:
		if v {
			return labelSeparate
		}
		return labelNone
	case string:
		switch v {
		case "contain", "inside":
			return labelContain
		case "", "0", "false", "none":
			return labelNone
		}
	}
	return labelSeparate
}

func (c *ControlBase) requiredSuffix() string {
	if !c.attrs.Has("required") {
		return ""
	}
	return c.OptionString("required-suffix")
}

// LabelHTML returns the decorated <label> or "" when the label is disabled,
// contained in the field, or the description is empty.
func (c *ControlBase) LabelHTML() string {
	html := c.generateLabel()
	for _, d := range c.Decorators() {
		html = d.RenderLabel(c.control(), html)
	}
	return html
}

func (c *ControlBase) generateLabel() string {
	if c.labelMode() != labelSeparate || c.desc == "" {
		return ""
	}
	return `<label for="` + templ.EscapeString(c.self.ID()) + `">` +
		templ.EscapeString(c.desc) + templ.EscapeString(c.requiredSuffix()) + "</label>"
}

// ControlHTML returns the decorated control markup alone.
func (c *ControlBase) ControlHTML() string {
	// The label and script refer to the id, so it must exist before the
	// control is written.
	c.self.ID()
	html := c.self.(controlGenerator).generateControl()
	for _, d := range c.Decorators() {
		html = d.RenderControl(c.control(), html)
	}
	return html
}

// FieldHTML returns the decorated control with prepend and append text, a
// containing label when the label mode is "contain", and the client-side
// validation script.
func (c *ControlBase) FieldHTML() string {
	html := c.generateField()
	for _, d := range c.Decorators() {
		html = d.RenderField(c.control(), html)
	}
	return html
}

func (c *ControlBase) generateField() string {
	html := c.ControlHTML()
	if prepend := c.OptionString("prepend"); prepend != "" {
		html = c.Parse(prepend) + " " + html
	}
	if appendix := c.OptionString("append"); appendix != "" {
		html = html + " " + c.Parse(appendix)
	}
	if c.labelMode() == labelContain && c.desc != "" {
		html = "<label>" + html + " " + templ.EscapeString(c.desc) + templ.EscapeString(c.requiredSuffix()) + "</label>"
	}
	if script := c.control().ValidationScript(); script != "" {
		html += "\n" + script
	}
	return html
}

func (c *ControlBase) renderContainer(inner string) string {
	html := c.generateContainer(inner)
	for _, d := range c.Decorators() {
		html = d.RenderContainer(c.control(), inner, html)
	}
	return html
}

func (c *ControlBase) generateContainer(inner string) string {
	html := inner
	if label := c.LabelHTML(); label != "" {
		html = label + "\n" + html
	}
	if c.err != "" {
		html += "\n" + `<span class="error">` + templ.EscapeString(c.err) + "</span>"
	}
	if c.OptionBool("container") {
		html = `<div id="` + templ.EscapeString(c.self.ID()) + `-container">` + "\n" + html + "\n</div>"
	}
	return html
}

func (c *ControlBase) generate() string {
	return c.renderContainer(c.FieldHTML())
}

// describe derives a description from a field name: "first_name" becomes
// "First name".
func describe(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// valueString renders a control value as text for placeholders and
// comparisons.
func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case *Upload:
		if x == nil {
			return ""
		}
		return x.Filename
	}
	s, _ := stringify(v)
	return s
}

// isEmpty reports whether a value counts as not filled in.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case *Upload:
		return x == nil || x.Error == UploadNoFile
	}
	return false
}
