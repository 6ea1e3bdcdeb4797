package formbuilder

import "fmt"

// Decorator hooks into the render and validation pipeline of the elements
// it is attached to.
//
// Apply runs once when the decorator reaches an element, either when it is
// attached or, for deep decorators, when a descendant joins the tree. It is
// the only hook that may mutate the element (attributes, options); the
// Render* hooks and IsValid are filters over HTML and the validity result.
//
// Embed BaseDecorator to get pass-through defaults and override only the
// stages you need:
//
//	type required struct{ formbuilder.BaseDecorator }
//
//	func (required) RenderLabel(c formbuilder.Control, html string) string {
//	    return strings.Replace(html, "</label>", "<abbr>*</abbr></label>", 1)
//	}
type Decorator interface {
	// Deep reports whether the decorator also applies to all current and
	// future descendants of the element it is attached to.
	Deep() bool

	Apply(el Element)
	IsValid(el Element, valid bool) bool

	Render(el Element, html string) string
	RenderLabel(c Control, html string) string
	RenderControl(c Control, html string) string
	RenderField(c Control, html string) string
	RenderContainer(c Control, inner, html string) string
	RenderContent(g Container, html string) string
}

// BaseDecorator implements every hook as a pass-through.
type BaseDecorator struct {
	// Propagate makes the decorator deep.
	Propagate bool
}

func (b BaseDecorator) Deep() bool { return b.Propagate }
func (BaseDecorator) Apply(Element) {}
func (BaseDecorator) IsValid(_ Element, valid bool) bool { return valid }
func (BaseDecorator) Render(_ Element, html string) string { return html }
func (BaseDecorator) RenderLabel(_ Control, html string) string { return html }
func (BaseDecorator) RenderControl(_ Control, html string) string { return html }
func (BaseDecorator) RenderField(_ Control, html string) string { return html }
func (BaseDecorator) RenderContainer(_ Control, _, html string) string { return html }
func (BaseDecorator) RenderContent(_ Container, html string) string { return html }

// FilterFunc transforms the final HTML of an element.
type FilterFunc func(el Element, html string) string

type filter struct {
	BaseDecorator
	fn FilterFunc
}

// Filter returns a decorator that passes the final HTML of the element
// through fn.
func Filter(fn FilterFunc, deep bool) Decorator {
	return &filter{BaseDecorator: BaseDecorator{Propagate: deep}, fn: fn}
}

func (f *filter) Render(el Element, html string) string {
	return f.fn(el, html)
}

// RuleFunc is a business-rule check. It returns "" when the element is
// valid, otherwise an error message template.
type RuleFunc func(el Element) string

type validation struct {
	BaseDecorator
	fn RuleFunc
}

// Validation returns a decorator that adds a custom rule after the
// element's own checks. The rule does not run when the element is already
// invalid. On failure the message is stored on the element when it is a
// Control.
//
//	username.AddDecorator(formbuilder.Validation(func(el formbuilder.Element) string {
//	    if taken(el.(formbuilder.Control).Value()) {
//	        return "{{value}} is already taken"
//	    }
//	    return ""
//	}))
func Validation(fn RuleFunc) Decorator {
	return &validation{fn: fn}
}

func (v *validation) IsValid(el Element, valid bool) bool {
	if !valid {
		return false
	}
	msg := v.fn(el)
	if msg == "" {
		return true
	}
	if c, ok := el.(Control); ok {
		c.SetError(msg)
	}
	el.node().logger().Debug("validation failed", "element", el.Name(), "rule", "custom")
	return false
}

// applyDeep applies d to el and, for containers, to every descendant.
func applyDeep(d Decorator, el Element) {
	d.Apply(el)
	if c, ok := el.(Container); ok {
		for _, child := range c.Children() {
			if e, ok := child.(Element); ok {
				applyDeep(d, e)
			}
		}
	}
}

func decoratorName(d Decorator) string {
	if named, ok := d.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", d)
}
