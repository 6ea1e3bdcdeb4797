package formbuilder

import "github.com/a-h/templ"

// Textarea is a multi-line text control.
type Textarea struct {
	ControlBase
	value any
}

// NewTextarea creates a textarea.
func NewTextarea(opts Options, attrs Attrs) *Textarea {
	ta := &Textarea{}
	value, hasValue := ta.initControl(ta, opts, nil, attrs)
	ta.attrs.setDefault("placeholder", Computed(func(Element) any {
		if ta.labelMode() != labelNone {
			return nil
		}
		return ta.desc
	}))
	for _, name := range []string{"minlength", "maxlength"} {
		ta.attrs.setDefault(name, Computed(func(Element) any { return ta.Option(name) }))
	}
	if hasValue {
		ta.SetValue(value)
	}
	return ta
}

// Value returns the current text.
func (ta *Textarea) Value() any { return ta.value }

// SetValue sets the current text.
func (ta *Textarea) SetValue(value any) {
	if list, ok := value.([]string); ok {
		value = ""
		if len(list) > 0 {
			value = list[len(list)-1]
		}
	}
	ta.value = value
}

func (ta *Textarea) generateControl() string {
	return "<textarea" + ta.attrs.Render(nil) + ">" + templ.EscapeString(valueString(ta.value)) + "</textarea>"
}

func (ta *Textarea) validate() bool {
	ta.err = ""
	if !validationEnabled(ta) {
		return true
	}
	if !checkRequired(ta) {
		return false
	}
	if isEmpty(ta.value) {
		return true
	}
	s := valueString(ta.value)
	return checkLength(ta, s) && checkPattern(ta, s) && checkMatch(ta, s)
}
