package formbuilder

import "github.com/a-h/templ"

// Button is a <button> element. It carries no value and is always valid.
type Button struct {
	Node
	desc string
}

// NewButton creates a button. The "description" option is the button text
// (default "Submit"); it is escaped unless the "html" option is true.
func NewButton(opts Options, attrs Attrs) *Button {
	b := &Button{desc: "Submit"}
	opts = opts.Clone()
	if desc, ok := opts["description"].(string); ok {
		b.desc = desc
		delete(opts, "description")
	}
	b.init(b, opts, attrs)
	return b
}

// Description returns the button text.
func (b *Button) Description() string { return b.desc }

// SetDescription sets the button text.
func (b *Button) SetDescription(desc string) { b.desc = desc }

func (b *Button) generate() string {
	content := b.desc
	if !b.OptionBool("html") {
		content = templ.EscapeString(content)
	}
	html := "<button" + b.attrs.Render(nil) + ">" + content + "</button>"
	if b.OptionBool("container") {
		html = "<div>\n" + html + "\n</div>"
	}
	return html
}

func (b *Button) validate() bool { return true }
