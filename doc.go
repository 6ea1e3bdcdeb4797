// Package formbuilder builds HTML forms as a tree of typed elements that
// render to HTML, validate submitted values on the server and mirror part
// of that validation in the browser.
//
// # Elements
//
// A Factory builds elements by type name. Containers (Form, Fieldset, Div)
// own an ordered list of children; controls (Input, Textarea, Select,
// ChoiceList) hold a value; Button and Hyperlink are plain elements.
//
//	f := formbuilder.NewFactory(nil)
//	form := f.Form(nil, formbuilder.Attrs{"name": "signup"})
//	form.Begin("email", nil, formbuilder.Attrs{"name": "email", "required": true})
//	form.Begin("password", formbuilder.Options{"minlength": 8}, formbuilder.Attrs{"name": "password"})
//	form.Begin("password", formbuilder.Options{"match": "password", "description": "Repeat"},
//	    formbuilder.Attrs{"name": "password_again"})
//	form.Begin("button", formbuilder.Options{"description": "Sign up"}, nil)
//
// Every Element is a templ.Component, so a form renders straight into a
// templ template or an http.ResponseWriter via Render.
//
// # Options
//
// Options configure elements without touching the HTML: label and
// container modes, the required suffix, error messages. An option that is
// not set on an element is inherited from its parent chain and finally
// from the Config defaults, so a message set on the form applies to every
// control in it.
//
// Messages may reference attributes, options and the specials value,
// length and desc with {{ name }} placeholders. Unresolved placeholders
// become the empty string.
//
// # Validation
//
//	if form.IsSubmitted(r) && form.IsValid() {
//	    save(form.Values())
//	}
//
// Validation never panics. A failing control returns false and keeps its
// message in ErrorMessage; the value stays in place so the re-rendered form
// echoes what the user typed. Configuration mistakes (unknown type names,
// cycles in the tree) panic with a *ConfigError instead.
//
// # Decorators
//
// Decorators hook into every rendering stage and into validation. A deep
// decorator attached to a container applies to all its descendants. An
// element's own decorators run before those inherited from its parent,
// which run before the grandparent's. See the decorator package for HTML
// tidying, indentation, Bootstrap markup and Prometheus metrics.
package formbuilder
