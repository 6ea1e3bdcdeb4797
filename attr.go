package formbuilder

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// Attrs is a literal set of HTML attributes passed to constructors and
// factory calls. Keys are inserted in sorted order so rendering is stable.
type Attrs map[string]any

// Computed is an attribute value evaluated at render time. It receives the
// element that owns the attribute.
//
//	attrs.Set("placeholder", formbuilder.Computed(func(el formbuilder.Element) any {
//	    return el.Option("hint")
//	}))
type Computed func(el Element) any

// Valuer is implemented by anything with a current value. Every Control is
// a Valuer, so an attribute can point at another control and render its
// value.
type Valuer interface {
	Value() any
}

type unsetValue struct{}

// Unset removes an attribute when passed to AttrSet.Set or used as an
// override in AttrSet.Render.
var Unset = unsetValue{}

type attrKind int

const (
	attrOmit attrKind = iota
	attrBare
	attrValued
)

// AttrSet is the ordered attribute store of one element.
//
// Values are stored raw and coerced only when read or rendered:
//   - a Computed or Valuer is resolved first
//   - true renders as a bare attribute, false and nil omit it
//   - time.Time renders as RFC 3339
//   - a fmt.Stringer is stringified
//   - any other non-scalar value is serialized as JSON
//
// The class attribute is kept as a de-duplicated list.
type AttrSet struct {
	owner  Element
	names  []string
	values map[string]any
}

func newAttrSet(owner Element) *AttrSet {
	return &AttrSet{owner: owner, values: make(map[string]any)}
}

// Set stores a raw value. Passing Unset removes the attribute.
func (s *AttrSet) Set(name string, value any) *AttrSet {
	if _, ok := value.(unsetValue); ok {
		s.remove(name)
		return s
	}
	if name == "class" {
		switch value.(type) {
		case string, []string:
			value = normalizeClasses(nil, value)
		}
	}
	if _, exists := s.values[name]; !exists {
		s.names = append(s.names, name)
	}
	s.values[name] = value
	return s
}

// SetAll stores every attribute of attrs in sorted key order.
func (s *AttrSet) SetAll(attrs Attrs) *AttrSet {
	for _, name := range sortedKeys(attrs) {
		s.Set(name, attrs[name])
	}
	return s
}

// setDefault stores value only when the attribute is not set yet.
func (s *AttrSet) setDefault(name string, value any) {
	if _, exists := s.values[name]; !exists {
		s.Set(name, value)
	}
}

func (s *AttrSet) remove(name string) {
	if _, exists := s.values[name]; !exists {
		return
	}
	delete(s.values, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
}

// Raw returns the stored, uncoerced value.
func (s *AttrSet) Raw(name string) any {
	return s.values[name]
}

// Get returns the coerced value as a string. A bare (true) attribute
// returns its own name, an omitted one returns "".
func (s *AttrSet) Get(name string) string {
	str, kind := stringify(s.resolve(s.values[name]))
	switch kind {
	case attrBare:
		return name
	case attrValued:
		return str
	}
	return ""
}

// Has reports whether the attribute would be rendered.
func (s *AttrSet) Has(name string) bool {
	_, kind := stringify(s.resolve(s.values[name]))
	return kind != attrOmit
}

// Names returns the attribute names in insertion order.
func (s *AttrSet) Names() []string {
	return slices.Clone(s.names)
}

// AddClass adds one or more classes. Each argument may hold several
// space-separated names. Duplicates are dropped.
func (s *AttrSet) AddClass(classes ...string) *AttrSet {
	s.Set("class", normalizeClasses(s.classes(), classes))
	return s
}

// RemoveClass removes one or more classes.
func (s *AttrSet) RemoveClass(classes ...string) *AttrSet {
	drop := normalizeClasses(nil, classes)
	current := slices.DeleteFunc(s.classes(), func(c string) bool {
		return slices.Contains(drop, c)
	})
	s.Set("class", current)
	return s
}

// HasClass reports whether class is in the class list.
func (s *AttrSet) HasClass(class string) bool {
	return slices.Contains(s.classes(), class)
}

func (s *AttrSet) classes() []string {
	switch v := s.values["class"].(type) {
	case []string:
		return slices.Clone(v)
	case nil:
		return nil
	default:
		return strings.Fields(s.Get("class"))
	}
}

// Render serializes the attributes as ` name="value"` pairs, each with a
// leading space, ready to be placed after a tag name. Overrides take
// precedence over stored values without changing the store; an override of
// nil or Unset omits the attribute.
func (s *AttrSet) Render(overrides Attrs) string {
	names := s.names
	if len(overrides) > 0 {
		names = slices.Clone(names)
		for _, name := range sortedKeys(overrides) {
			if _, exists := s.values[name]; !exists {
				names = append(names, name)
			}
		}
	}

	var b strings.Builder
	for _, name := range names {
		raw, over := overrides[name]
		if !over {
			raw = s.values[name]
		} else if _, ok := raw.(unsetValue); ok {
			continue
		}
		writeAttr(&b, name, s.resolve(raw))
	}
	return b.String()
}

// RenderOnly renders just the named attributes.
func (s *AttrSet) RenderOnly(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		writeAttr(&b, name, s.resolve(s.values[name]))
	}
	return b.String()
}

func writeAttr(b *strings.Builder, name string, value any) {
	str, kind := stringify(value)
	switch kind {
	case attrBare:
		b.WriteString(" " + name)
	case attrValued:
		b.WriteString(" " + name + `="` + templ.EscapeString(str) + `"`)
	}
}

func (s *AttrSet) resolve(v any) any {
	// Bounded so a Computed that returns itself cannot loop forever.
	for range 8 {
		switch x := v.(type) {
		case Computed:
			v = x(s.owner)
		case func(Element) any:
			v = x(s.owner)
		case func() any:
			v = x()
		case Valuer:
			v = x.Value()
		default:
			return v
		}
	}
	return v
}

func stringify(v any) (string, attrKind) {
	switch x := v.(type) {
	case nil:
		return "", attrOmit
	case bool:
		if x {
			return "", attrBare
		}
		return "", attrOmit
	case string:
		return x, attrValued
	case []string:
		if len(x) == 0 {
			return "", attrOmit
		}
		return strings.Join(x, " "), attrValued
	case int:
		return strconv.Itoa(x), attrValued
	case int64:
		return strconv.FormatInt(x, 10), attrValued
	case int32, int16, int8, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), attrValued
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), attrValued
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), attrValued
	case time.Time:
		return x.Format(time.RFC3339), attrValued
	case fmt.Stringer:
		return x.String(), attrValued
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x), attrValued
		}
		return string(data), attrValued
	}
}

// normalizeClasses appends the classes in add to list, splitting on
// whitespace and dropping duplicates.
func normalizeClasses(list []string, add any) []string {
	var parts []string
	switch v := add.(type) {
	case string:
		parts = strings.Fields(v)
	case []string:
		for _, c := range v {
			parts = append(parts, strings.Fields(c)...)
		}
	}
	out := slices.Clone(list)
	for _, c := range parts {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
