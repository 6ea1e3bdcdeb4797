package decorator

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pthm/formbuilder"
)

// Tidy normalizes the final HTML of the element it is attached to by
// parsing it as a body fragment and serializing it again. Unclosed tags
// get closed, attribute quoting becomes uniform and stray end tags are
// dropped.
//
// Attach it to the root of the tree only; it is not deep.
type Tidy struct {
	formbuilder.BaseDecorator
}

// NewTidy creates a tidy decorator.
func NewTidy() *Tidy {
	return &Tidy{}
}

// Name identifies the decorator in logs.
func (*Tidy) Name() string { return "tidy" }

// Render re-serializes markup. Markup that cannot be parsed is returned
// unchanged.
func (*Tidy) Render(_ formbuilder.Element, markup string) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return markup
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return markup
		}
	}
	return buf.String()
}
