package formbuilder

import (
	"context"
	"fmt"
	"slices"
)

var (
	noPlaceholderTypes = []string{"hidden", "button", "submit", "reset", "checkbox", "radio", "file"}
	buttonTypes        = []string{"button", "submit", "reset"}
	mirroredOptions    = []string{"min", "max", "minlength", "maxlength", "pattern"}
)

// Input is an <input> control of any type.
//
// Checkbox and radio inputs hold their "on" value in the value attribute
// (default "1"); SetValue checks them when the given value equals it.
// File inputs hold an *Upload.
type Input struct {
	ControlBase
	value any
}

// NewInput creates an input. The type comes from the "type" attribute or
// option and defaults to "text".
//
//	email := formbuilder.NewInput(
//	    formbuilder.Options{"description": "E-mail"},
//	    formbuilder.Attrs{"type": "email", "name": "email", "required": true},
//	)
func NewInput(opts Options, attrs Attrs) *Input {
	in := &Input{}
	typ := "text"
	if t, ok := attrs["type"].(string); ok && t != "" {
		typ = t
	} else if t, ok := opts["type"].(string); ok && t != "" {
		typ = t
	}
	opts = inputDefaults(typ).Merge(opts)
	delete(opts, "type")

	value, hasValue := in.initControl(in, opts, Attrs{"type": typ}, attrs)

	switch {
	case typ == "checkbox" || typ == "radio":
		in.attrs.setDefault("value", "1")
	case slices.Contains(buttonTypes, typ):
		in.attrs.setDefault("value", Computed(func(Element) any { return in.desc }))
	case typ != "file" && typ != "password":
		in.attrs.setDefault("value", Computed(func(Element) any { return in.value }))
	}
	if !slices.Contains(noPlaceholderTypes, typ) {
		in.attrs.setDefault("placeholder", Computed(func(Element) any {
			if in.labelMode() != labelNone {
				return nil
			}
			return in.desc
		}))
	}
	for _, name := range mirroredOptions {
		in.attrs.setDefault(name, Computed(func(Element) any { return in.Option(name) }))
	}

	if hasValue {
		in.SetValue(value)
	}
	return in
}

func inputDefaults(typ string) Options {
	switch typ {
	case "hidden":
		return Options{"label": false, "container": false}
	case "checkbox", "radio":
		return Options{"label": "inside"}
	case "button", "submit", "reset":
		return Options{"label": false}
	}
	return Options{}
}

// Type returns the input type.
func (in *Input) Type() string {
	return in.attrs.Get("type")
}

func (in *Input) checkable() bool {
	t := in.Type()
	return t == "checkbox" || t == "radio"
}

// Value returns the current value. A checkbox or radio returns its "on"
// value when checked and nil otherwise.
func (in *Input) Value() any {
	if in.checkable() {
		if in.attrs.Has("checked") {
			return in.attrs.Get("value")
		}
		return nil
	}
	return in.value
}

// SetValue sets the current value. Submitted values arrive as strings or
// string lists; a list sets a checkbox when any entry matches.
func (in *Input) SetValue(value any) {
	if in.checkable() {
		in.attrs.Set("checked", matchesOn(value, in.attrs.Get("value")))
		return
	}
	if in.Type() == "file" {
		switch v := value.(type) {
		case *Upload:
			in.value = v
		case []*Upload:
			if len(v) > 0 {
				in.value = v[0]
			}
		case nil:
			in.value = nil
		}
		return
	}
	if list, ok := value.([]string); ok {
		if len(list) == 0 {
			value = ""
		} else {
			value = list[len(list)-1]
		}
	}
	in.value = value
}

func matchesOn(value any, on string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case []string:
		return slices.Contains(v, on)
	}
	return valueString(value) == on
}

func (in *Input) generateControl() string {
	html := "<input" + in.attrs.Render(nil) + ">"
	if in.Type() == "checkbox" && in.OptionBool("add-hidden") && in.Name() != "" {
		html = `<input type="hidden"` + in.attrs.RenderOnly("name") + ` value="">` + "\n" + html
	}
	return html
}

func (in *Input) validate() bool {
	in.err = ""
	if !validationEnabled(in) {
		return true
	}
	if !checkRequired(in) {
		return false
	}
	value := in.Value()
	if isEmpty(value) {
		return true
	}
	if in.Type() == "file" {
		u, _ := value.(*Upload)
		return checkUpload(in, u)
	}
	s := valueString(value)
	return checkType(in, in.Type(), s) &&
		checkMinMax(in, s) &&
		checkLength(in, s) &&
		checkPattern(in, s) &&
		checkMatch(in, s)
}

// MoveUpload stores the uploaded file through the configured UploadMover
// and returns its final location.
func (in *Input) MoveUpload(ctx context.Context, dest string) (string, error) {
	mover := in.config().UploadMover
	if mover == nil {
		return "", ErrNoUploadMover
	}
	u, ok := in.value.(*Upload)
	if !ok || u == nil || u.Error != UploadOK {
		return "", fmt.Errorf("move upload %q: %w", in.Name(), ErrNotFound)
	}
	path, err := mover.Move(ctx, u, dest)
	if err != nil {
		return "", fmt.Errorf("move upload %q: %w", in.Name(), err)
	}
	return path, nil
}
