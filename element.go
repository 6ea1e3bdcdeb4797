package formbuilder

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Element is any node of the render tree: a control, a button, a link or
// a container of other elements.
//
// Every Element is also a templ.Component, so it can be dropped straight
// into a templ template:
//
//	@form
//
// The interface is sealed. Shared behaviour lives in the embedded Node;
// concrete types supply the HTML generation and validation steps.
type Element interface {
	Name() string
	SetName(name string) Element
	ID() string
	Attrs() *AttrSet
	Attr(name string) string
	SetAttr(name string, value any) Element
	AddClass(classes ...string) Element

	Option(name string) any
	SetOption(name string, value any)
	Options() Options
	OptionString(name string) string
	OptionBool(name string) bool

	Parent() Container
	Form() *Form

	AddDecorator(decorators ...Decorator) Element
	Decorators() []Decorator

	IsValid() bool
	HTML() string
	String() string
	Render(ctx context.Context, w io.Writer) error
	Parse(template string) string

	node() *Node
	generate() string
	validate() bool
}

// Node holds the state shared by every element: the attribute set, local
// options, the parent back-reference and the attached decorators.
//
// self points at the concrete element embedding this Node so that shared
// methods dispatch to the concrete generate and validate steps.
type Node struct {
	self       Element
	parent     Container
	attrs      *AttrSet
	opts       Options
	decorators []Decorator
	cfg        *Config
}

var (
	sharedOnce sync.Once
	shared     *Config
)

// sharedConfig returns the Config used by elements built without a
// factory. It is filled on first use rather than at package init because
// building the default registry constructs elements that read it.
func sharedConfig() *Config {
	sharedOnce.Do(func() { shared = DefaultConfig() })
	return shared
}

func (n *Node) init(self Element, opts Options, attrs Attrs) {
	n.self = self
	n.attrs = newAttrSet(self)
	n.opts = Options{}
	for k, v := range opts {
		if v != nil {
			n.opts[k] = v
		}
	}
	n.attrs.SetAll(attrs)
	if name, ok := n.opts["name"].(string); ok {
		n.attrs.Set("name", name)
		delete(n.opts, "name")
	}
}

func (n *Node) node() *Node { return n }

// config returns the Config the element was built with, the parent's, or
// the shared defaults for elements constructed directly.
func (n *Node) config() *Config {
	if n.cfg != nil {
		return n.cfg
	}
	if n.parent != nil {
		return n.parent.node().config()
	}
	return sharedConfig()
}

func (n *Node) logger() *slog.Logger {
	return n.config().logger()
}

// Attrs returns the attribute set.
func (n *Node) Attrs() *AttrSet { return n.attrs }

// Attr returns the coerced value of one attribute.
func (n *Node) Attr(name string) string { return n.attrs.Get(name) }

// SetAttr sets an attribute. Pass Unset to remove it.
func (n *Node) SetAttr(name string, value any) Element {
	n.attrs.Set(name, value)
	return n.self
}

// AddClass adds CSS classes.
func (n *Node) AddClass(classes ...string) Element {
	n.attrs.AddClass(classes...)
	return n.self
}

// Name returns the name attribute without a trailing "[]" marker.
func (n *Node) Name() string {
	return strings.TrimSuffix(n.attrs.Get("name"), "[]")
}

// SetName sets the name attribute.
func (n *Node) SetName(name string) Element {
	n.attrs.Set("name", name)
	return n.self
}

// ID returns the id attribute, generating and storing one on first use.
// A generated id is the owning form's id joined with the sanitized name,
// or a random token when the element is unnamed or has no form.
func (n *Node) ID() string {
	if id := n.attrs.Get("id"); id != "" {
		return id
	}
	id := ""
	name := n.self.Name()
	if form := n.self.Form(); form != nil && name != "" {
		id = form.ID() + "-" + sanitizeID(name)
	} else {
		id = randomID()
	}
	n.attrs.Set("id", id)
	return id
}

// Parent returns the containing group, or nil.
func (n *Node) Parent() Container { return n.parent }

// Form returns the nearest ancestor that is a Form, or nil.
func (n *Node) Form() *Form {
	for p := n.parent; p != nil; p = p.Parent() {
		if f, ok := p.(*Form); ok {
			return f
		}
	}
	return nil
}

// AddDecorator attaches decorators and runs their Apply hook right away.
// A deep decorator added to a container is also applied to every
// descendant already in place; later descendants get it when added.
func (n *Node) AddDecorator(decorators ...Decorator) Element {
	for _, d := range decorators {
		n.decorators = append(n.decorators, d)
		d.Apply(n.self)
		if d.Deep() {
			if c, ok := n.self.(Container); ok {
				for _, child := range c.Children() {
					if el, ok := child.(Element); ok {
						applyDeep(d, el)
					}
				}
			}
		}
		n.logger().Debug("decorator attached", "element", n.self.Name(), "decorator", decoratorName(d), "deep", d.Deep())
	}
	return n.self
}

// Decorators returns the decorators that apply to this element: its own
// first, then the deep decorators of its parent, then of its grandparent
// and so on. Rendering and validation both use this order.
func (n *Node) Decorators() []Decorator {
	out := slices.Clone(n.decorators)
	for p := n.parent; p != nil; p = p.Parent() {
		for _, d := range p.node().decorators {
			if d.Deep() {
				out = append(out, d)
			}
		}
	}
	return out
}

// IsValid runs the element's own validation, then passes the result through
// every decorator. A decorator can turn a valid result invalid but never
// the reverse.
func (n *Node) IsValid() bool {
	valid := n.self.validate()
	for _, d := range n.self.Decorators() {
		ok := d.IsValid(n.self, valid)
		valid = valid && ok
	}
	return valid
}

// HTML generates the element's markup and threads it through the Render
// hook of every decorator. An element with the render option set to false
// produces nothing.
func (n *Node) HTML() string {
	if !n.renders() {
		return ""
	}
	html := n.self.generate()
	for _, d := range n.self.Decorators() {
		html = d.Render(n.self, html)
	}
	return html
}

// String is HTML.
func (n *Node) String() string {
	return n.self.HTML()
}

// Render writes the element's HTML, satisfying templ.Component.
func (n *Node) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, n.self.HTML())
	return err
}

func (n *Node) renders() bool {
	v, ok := n.Option("render").(bool)
	return !ok || v
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Parse replaces {{ name }} placeholders in template. A name resolves to the
// attribute of that name, else the option, else one of the specials
// value, length and desc on controls. Anything else becomes "".
func (n *Node) Parse(template string) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		return n.resolvePlaceholder(name)
	})
}

type specialResolver interface {
	special(name string) (string, bool)
}

func (n *Node) resolvePlaceholder(name string) string {
	if n.attrs.Has(name) {
		return n.attrs.Get(name)
	}
	if v := n.Option(name); v != nil {
		if c, ok := v.(Control); ok {
			return c.Description()
		}
		return optionString(v)
	}
	if sr, ok := n.self.(specialResolver); ok {
		if s, ok := sr.special(name); ok {
			return s
		}
	}
	n.logger().Debug("unresolved placeholder", "element", n.self.Name(), "placeholder", name)
	return ""
}

var idUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func sanitizeID(name string) string {
	return strings.Trim(idUnsafe.ReplaceAllString(name, "-"), "-")
}

func randomID() string {
	b := make([]byte, 5)
	_, _ = rand.Read(b)
	return "fb-" + hex.EncodeToString(b)
}
