package decorator

import (
	"github.com/yosssi/gohtml"

	"github.com/pthm/formbuilder"
)

// Indent formats the final HTML of the element with nested indentation.
// Attach it to the root of the tree only; it is not deep.
type Indent struct {
	formbuilder.BaseDecorator
}

// NewIndent creates an indent decorator.
func NewIndent() *Indent {
	return &Indent{}
}

// Name identifies the decorator in logs.
func (*Indent) Name() string { return "indent" }

// Render indents markup.
func (*Indent) Render(_ formbuilder.Element, markup string) string {
	return gohtml.Format(markup)
}
