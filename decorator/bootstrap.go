package decorator

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/formbuilder"
)

// Bootstrap renders controls with Bootstrap 3 markup. It is deep: attach
// it to the form and every control below picks it up.
//
// Text-like controls get the form-control class, submit buttons get
// btn-primary and other buttons btn-default. Each control is wrapped in a
// form-group (or checkbox/radio) container that switches to has-error and
// shows the message as a help-block when validation failed.
type Bootstrap struct {
	formbuilder.BaseDecorator

	// Horizontal lays labels and fields out side by side in a
	// form-horizontal grid.
	Horizontal bool
}

// NewBootstrap creates a Bootstrap 3 decorator.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{BaseDecorator: formbuilder.BaseDecorator{Propagate: true}}
}

// Name identifies the decorator in logs.
func (*Bootstrap) Name() string { return "bootstrap" }

func (b *Bootstrap) Apply(el formbuilder.Element) {
	switch x := el.(type) {
	case *formbuilder.Form:
		if b.Horizontal {
			x.AddClass("form-horizontal")
		}
	case *formbuilder.Button:
		x.AddClass("btn", buttonClass(x.Attr("type")))
	case *formbuilder.Input:
		switch x.Type() {
		case "submit", "reset", "button":
			x.AddClass("btn", buttonClass(x.Type()))
		case "checkbox", "radio", "file", "hidden":
		default:
			x.AddClass("form-control")
		}
	case *formbuilder.Textarea, *formbuilder.Select:
		x.AddClass("form-control")
	}
}

func buttonClass(typ string) string {
	if typ == "" || typ == "submit" {
		return "btn-primary"
	}
	return "btn-default"
}

func (b *Bootstrap) RenderLabel(_ formbuilder.Control, html string) string {
	class := "control-label"
	if b.Horizontal {
		class = "col-sm-2 control-label"
	}
	return strings.Replace(html, "<label ", `<label class="`+class+`" `, 1)
}

func (b *Bootstrap) RenderContainer(c formbuilder.Control, inner, _ string) string {
	if in, ok := c.(*formbuilder.Input); ok && in.Type() == "hidden" {
		return inner
	}

	class := "form-group"
	if in, ok := c.(*formbuilder.Input); ok && (in.Type() == "checkbox" || in.Type() == "radio") {
		class = in.Type()
	}
	msg := c.ErrorMessage()
	if msg != "" {
		class += " has-error"
	}

	var sb strings.Builder
	sb.WriteString(`<div class="` + class + `" id="` + templ.EscapeString(c.ID()) + `-container">` + "\n")
	if label := c.LabelHTML(); label != "" {
		sb.WriteString(label + "\n")
	}
	if b.Horizontal {
		sb.WriteString(`<div class="col-sm-10">` + "\n")
	}
	sb.WriteString(inner)
	if msg != "" {
		sb.WriteString("\n" + `<span class="help-block">` + templ.EscapeString(msg) + "</span>")
	}
	if b.Horizontal {
		sb.WriteString("\n</div>")
	}
	sb.WriteString("\n</div>")
	return sb.String()
}
