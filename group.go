package formbuilder

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Container is an element that owns an ordered list of children. Children
// are elements, literal HTML strings or templ components.
type Container interface {
	Element

	Add(children ...any) Container
	Begin(typeName string, opts Options, attrs Attrs) Element
	End() Container
	Children() []any
	Get(name string) Element
	Remove(name string) Element

	Elements() []Control
	SetValues(values map[string]any)
	Values() map[string]any

	ContentHTML() string

	group() *Group
}

// Group implements Container. Form, Fieldset and Div embed it and supply
// their tag.
type Group struct {
	Node
	tag      string
	children []any
}

func (g *Group) initGroup(self Container, tag string, opts Options, attrs Attrs) {
	g.tag = tag
	g.init(self, opts, attrs)
}

func (g *Group) group() *Group { return g }

func (g *Group) container() Container { return g.self.(Container) }

// Add appends children. An Element is detached from its previous parent,
// attached here, and receives the deep decorators of this group and its
// ancestors. A string is kept as literal HTML and a templ.Component is
// rendered as is.
//
// Adding an element to itself or to one of its descendants panics with a
// *ConfigError wrapping ErrInvalidParent.
func (g *Group) Add(children ...any) Container {
	for _, child := range children {
		switch c := child.(type) {
		case Element:
			g.attach(c)
		case string:
			g.children = append(g.children, c)
		case templ.Component:
			g.children = append(g.children, c)
		default:
			configPanic("add", fmt.Sprintf("%T", child), ErrInvalidParent)
		}
	}
	return g.container()
}

func (g *Group) attach(el Element) {
	for p := g.container(); p != nil; p = p.Parent() {
		if Element(p) == el {
			configPanic("add", el.Name(), ErrInvalidParent)
		}
	}

	n := el.node()
	if n.parent != nil {
		n.parent.group().unlink(el)
	}
	n.parent = g.container()
	g.children = append(g.children, el)

	for p := g.container(); p != nil; p = p.Parent() {
		for _, d := range p.node().decorators {
			if d.Deep() {
				applyDeep(d, el)
			}
		}
	}
}

func (g *Group) unlink(el Element) {
	g.children = slices.DeleteFunc(g.children, func(c any) bool {
		e, ok := c.(Element)
		return ok && e == el
	})
	el.node().parent = nil
}

// Begin builds an element through the factory of this group's Config, adds
// it and returns it. Use End on a nested container to get back to its
// parent:
//
//	fs := form.Begin("fieldset", formbuilder.Options{"legend": "Account"}, nil).(formbuilder.Container)
//	fs.Begin("email", nil, formbuilder.Attrs{"name": "email"})
//	fs.End().Begin("submit", nil, nil)
//
// An unknown type name panics with a *ConfigError wrapping ErrUnknownType.
func (g *Group) Begin(typeName string, opts Options, attrs Attrs) Element {
	el := (&Factory{cfg: g.config()}).MustElement(typeName, opts, attrs)
	g.Add(el)
	return el
}

// End returns the parent container, or this group when it has no parent.
func (g *Group) End() Container {
	if g.parent != nil {
		return g.parent
	}
	return g.container()
}

// Children returns the direct children in insertion order.
func (g *Group) Children() []any {
	return slices.Clone(g.children)
}

// Get searches the subtree depth-first for an element by name, or by id
// when name starts with "#". Only ids already set are matched, so a lookup
// never generates one. It returns nil when nothing matches.
func (g *Group) Get(name string) Element {
	el, _ := g.search(name)
	return el
}

// Remove detaches the first element matching name (as in Get) from its
// parent and returns it, or nil when nothing matches.
func (g *Group) Remove(name string) Element {
	el, parent := g.search(name)
	if el == nil {
		return nil
	}
	parent.unlink(el)
	return el
}

func (g *Group) search(name string) (Element, *Group) {
	id, byID := strings.CutPrefix(name, "#")
	for _, child := range g.children {
		el, ok := child.(Element)
		if !ok {
			continue
		}
		if byID && el.Attrs().Get("id") == id || !byID && el.Name() == name {
			return el, g
		}
		if c, ok := el.(Container); ok {
			if found, parent := c.group().search(name); found != nil {
				return found, parent
			}
		}
	}
	return nil, nil
}

// controls returns every control of the subtree in order.
func (g *Group) controls() []Control {
	var out []Control
	for _, child := range g.children {
		switch c := child.(type) {
		case Control:
			out = append(out, c)
		case Container:
			out = append(out, c.group().controls()...)
		}
	}
	return out
}

// Elements returns the controls of the subtree in order. A later control
// with the same name as an earlier one takes its place; unnamed controls
// are kept in position.
func (g *Group) Elements() []Control {
	var out []Control
	index := make(map[string]int)
	for _, c := range g.controls() {
		name := c.Name()
		if name == "" {
			out = append(out, c)
			continue
		}
		if i, ok := index[name]; ok {
			out[i] = c
			continue
		}
		index[name] = len(out)
		out = append(out, c)
	}
	return out
}

// SetValues sets the value of every named control in the subtree whose
// name is a key of values. Controls without a key keep their value.
func (g *Group) SetValues(values map[string]any) {
	for _, c := range g.controls() {
		name := c.Name()
		if name == "" {
			continue
		}
		if v, ok := values[name]; ok {
			c.SetValue(v)
		}
	}
}

// Values collects the value of every named control in the subtree. For a
// name used by several controls the last one wins, except that an
// unchecked checkbox or radio never replaces a value already collected.
func (g *Group) Values() map[string]any {
	out := make(map[string]any)
	for _, c := range g.controls() {
		name := c.Name()
		if name == "" {
			continue
		}
		v := c.Value()
		// Radios sharing a name form one field: an unchecked one must not
		// hide the checked one collected before it.
		if in, ok := c.(*Input); ok && in.checkable() && v == nil {
			if _, seen := out[name]; seen {
				continue
			}
		}
		out[name] = v
	}
	return out
}

// validate checks every child element that has validation enabled. All
// children are visited so each one gets its error message, even after an
// earlier failure.
func (g *Group) validate() bool {
	valid := true
	for _, child := range g.children {
		el, ok := child.(Element)
		if !ok || !validationEnabled(el) {
			continue
		}
		if !el.IsValid() {
			valid = false
		}
	}
	return valid
}

// Open returns the opening tag.
func (g *Group) Open() string {
	return "<" + g.tag + g.attrs.Render(nil) + ">"
}

// Close returns the closing tag.
func (g *Group) Close() string {
	return "</" + g.tag + ">"
}

// ContentHTML renders the children joined by newlines, skipping elements
// with the render option off, and passes the result through the
// RenderContent hook of every decorator.
func (g *Group) ContentHTML() string {
	parts := make([]string, 0, len(g.children))
	for _, child := range g.children {
		switch c := child.(type) {
		case Element:
			if !c.node().renders() {
				continue
			}
			parts = append(parts, c.HTML())
		case string:
			parts = append(parts, c)
		case templ.Component:
			var buf bytes.Buffer
			if err := c.Render(context.Background(), &buf); err != nil {
				g.logger().Error("render child component", "group", g.Name(), "error", err)
				continue
			}
			parts = append(parts, buf.String())
		}
	}
	html := strings.Join(parts, "\n")
	for _, d := range g.Decorators() {
		html = d.RenderContent(g.container(), html)
	}
	return html
}

func (g *Group) generate() string {
	return g.Open() + "\n" + g.ContentHTML() + "\n" + g.Close()
}

// Div is a plain <div> container.
type Div struct {
	Group
}

// NewDiv creates a div container.
func NewDiv(opts Options, attrs Attrs) *Div {
	d := &Div{}
	d.initGroup(d, "div", opts, attrs)
	return d
}

// Fieldset is a <fieldset> container with an optional legend.
type Fieldset struct {
	Group
}

// NewFieldset creates a fieldset. The "legend" option renders a <legend>.
func NewFieldset(opts Options, attrs Attrs) *Fieldset {
	f := &Fieldset{}
	f.initGroup(f, "fieldset", opts, attrs)
	return f
}

func (f *Fieldset) generate() string {
	html := f.Open() + "\n"
	if legend, ok := f.opts["legend"].(string); ok && legend != "" {
		html += "<legend>" + templ.EscapeString(f.Parse(legend)) + "</legend>\n"
	}
	return html + f.ContentHTML() + "\n" + f.Close()
}
