package formbuilder

import "github.com/a-h/templ"

// Hyperlink is an <a> element, typically a cancel or back action next to
// the submit button.
type Hyperlink struct {
	Node
	content string
}

// NewHyperlink creates a link. The "url" option becomes the href attribute
// and the "description" option the link text, escaped unless the "escape"
// option is false.
func NewHyperlink(opts Options, attrs Attrs) *Hyperlink {
	l := &Hyperlink{}
	opts = opts.Clone()
	if desc, ok := opts["description"].(string); ok {
		l.content = desc
		delete(opts, "description")
	}
	url, hasURL := opts["url"]
	delete(opts, "url")
	l.init(l, opts, attrs)
	if hasURL {
		l.attrs.Set("href", url)
	}
	return l
}

// URL returns the href attribute.
func (l *Hyperlink) URL() string { return l.attrs.Get("href") }

// SetURL sets the href attribute.
func (l *Hyperlink) SetURL(url string) *Hyperlink {
	l.attrs.Set("href", url)
	return l
}

// Description returns the link text.
func (l *Hyperlink) Description() string { return l.content }

func (l *Hyperlink) generate() string {
	content := l.content
	if v, ok := l.Option("escape").(bool); !ok || v {
		content = templ.EscapeString(content)
	}
	return "<a" + l.attrs.Render(nil) + ">" + content + "</a>"
}

func (l *Hyperlink) validate() bool { return true }
