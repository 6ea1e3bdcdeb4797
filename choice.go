package formbuilder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Item is one selectable entry of a Select or ChoiceList.
type Item struct {
	Value string
	Label string
}

// Items is an ordered list of choices.
type Items []Item

// toItems converts the items option. Accepted forms are Items, []Item,
// []string (value and label equal) and string-keyed maps, which are
// ordered by key.
func toItems(v any) Items {
	switch x := v.(type) {
	case Items:
		return x
	case []Item:
		return Items(x)
	case []string:
		items := make(Items, 0, len(x))
		for _, s := range x {
			items = append(items, Item{Value: s, Label: s})
		}
		return items
	case []any:
		items := make(Items, 0, len(x))
		for _, s := range x {
			items = append(items, Item{Value: fmt.Sprint(s), Label: fmt.Sprint(s)})
		}
		return items
	case map[string]string:
		items := make(Items, 0, len(x))
		for _, k := range sortedKeys(x) {
			items = append(items, Item{Value: k, Label: x[k]})
		}
		return items
	case map[string]any:
		items := make(Items, 0, len(x))
		for _, k := range sortedKeys(x) {
			items = append(items, Item{Value: k, Label: fmt.Sprint(x[k])})
		}
		return items
	}
	return nil
}

// toList coerces a submitted or programmatic value to a string list.
// Empty strings are dropped; they come from the hidden fallback field.
func toList(v any) []string {
	var list []string
	switch x := v.(type) {
	case nil:
	case []string:
		list = x
	case []any:
		for _, s := range x {
			list = append(list, valueString(s))
		}
	default:
		list = []string{valueString(x)}
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// choiceBase holds the items and the single or multiple value shared by
// Select and ChoiceList.
type choiceBase struct {
	ControlBase
	value    []string
	multiple bool
}

// Items returns the configured choices.
func (cb *choiceBase) Items() Items {
	return toItems(cb.Option("items"))
}

// SetItems replaces the choices.
func (cb *choiceBase) SetItems(items Items) {
	cb.SetOption("items", items)
}

// Value returns a []string for multiple choice controls and a string (or
// nil when nothing is selected) otherwise.
func (cb *choiceBase) Value() any {
	if cb.multiple {
		return slices.Clone(cb.value)
	}
	if len(cb.value) == 0 {
		return nil
	}
	return cb.value[0]
}

// SetValue selects the given value or values.
func (cb *choiceBase) SetValue(value any) {
	list := toList(value)
	if !cb.multiple && len(list) > 1 {
		list = list[len(list)-1:]
	}
	cb.value = list
}

func (cb *choiceBase) selected(value string) bool {
	return slices.Contains(cb.value, value)
}

// orderedItems returns the items, lifting the selected ones to the top
// when the selected-first option is set.
func (cb *choiceBase) orderedItems() Items {
	items := cb.Items()
	if !cb.OptionBool("selected-first") {
		return items
	}
	var first, rest Items
	for _, it := range items {
		if cb.selected(it.Value) {
			first = append(first, it)
		} else {
			rest = append(rest, it)
		}
	}
	return append(first, rest...)
}

func (cb *choiceBase) fieldName() string {
	name := cb.Name()
	if cb.multiple && name != "" {
		return name + "[]"
	}
	return name
}

func (cb *choiceBase) validate() bool {
	cb.err = ""
	if !validationEnabled(cb.self) {
		return true
	}
	return checkRequired(cb.control())
}

// Select is a <select> control. Set the multiple attribute for a multi
// select.
type Select struct {
	choiceBase
}

// NewSelect creates a select. Choices come from the "items" option; a
// "placeholder" option or attribute adds a leading disabled option that is
// selected while the control has no value.
func NewSelect(opts Options, attrs Attrs) *Select {
	s := &Select{}
	value, hasValue := s.initControl(s, opts, nil, attrs)
	s.multiple = s.attrs.Has("multiple") || s.OptionBool("multiple")
	if s.multiple {
		s.attrs.Set("multiple", true)
	}
	if hasValue {
		s.SetValue(value)
	}
	return s
}

func (s *Select) placeholder() string {
	if p := s.OptionString("placeholder"); p != "" {
		return p
	}
	return s.attrs.Get("placeholder")
}

func (s *Select) generateControl() string {
	var b strings.Builder
	overrides := Attrs{"placeholder": Unset}
	if name := s.fieldName(); name != "" {
		overrides["name"] = name
	}
	b.WriteString("<select" + s.attrs.Render(overrides) + ">\n")
	if p := s.placeholder(); p != "" {
		sel := ""
		if len(s.value) == 0 {
			sel = " selected"
		}
		b.WriteString(`<option value="" disabled` + sel + ">" + templ.EscapeString(p) + "</option>\n")
	}
	for _, it := range s.orderedItems() {
		sel := ""
		if s.selected(it.Value) {
			sel = " selected"
		}
		b.WriteString(`<option value="` + templ.EscapeString(it.Value) + `"` + sel + ">" + templ.EscapeString(it.Label) + "</option>\n")
	}
	b.WriteString("</select>")
	return b.String()
}

// ChoiceList renders its items as a list of radio buttons, or checkboxes
// when multiple.
type ChoiceList struct {
	choiceBase
}

// NewChoiceList creates a radio list, or a checkbox list when the
// "multiple" option is true. The "single-line" option drops the per-item
// <div> wrappers.
func NewChoiceList(opts Options, attrs Attrs) *ChoiceList {
	cl := &ChoiceList{}
	value, hasValue := cl.initControl(cl, opts, nil, attrs)
	cl.multiple = cl.OptionBool("multiple")
	cl.attrs.AddClass("choicelist")
	if cl.OptionBool("single-line") {
		cl.attrs.AddClass("choicelist-single-line")
	}
	if hasValue {
		cl.SetValue(value)
	}
	return cl
}

func (cl *ChoiceList) generateControl() string {
	typ := "radio"
	if cl.multiple {
		typ = "checkbox"
	}
	name := templ.EscapeString(cl.fieldName())
	wrap := !cl.OptionBool("single-line")

	var b strings.Builder
	b.WriteString("<div" + cl.attrs.Render(Attrs{"name": Unset, "required": Unset}) + ">\n")
	if cl.multiple && cl.OptionBool("add-hidden") && name != "" {
		b.WriteString(`<input type="hidden" name="` + name + `" value="">` + "\n")
	}
	for _, it := range cl.orderedItems() {
		checked := ""
		if cl.selected(it.Value) {
			checked = " checked"
		}
		item := `<label><input type="` + typ + `" name="` + name + `" value="` + templ.EscapeString(it.Value) + `"` +
			checked + "> " + templ.EscapeString(it.Label) + "</label>"
		if wrap {
			item = "<div>" + item + "</div>"
		}
		b.WriteString(item + "\n")
	}
	b.WriteString("</div>")
	return b.String()
}
