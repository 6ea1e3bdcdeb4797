package formbuilder

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// DefaultMaxMemory bounds the multipart body kept in memory by
// IsSubmitted; larger files spill to temporary files.
const DefaultMaxMemory = 32 << 20

// Form is the root container of a form. Its method defaults to "post" and
// its id to the name with a "-form" suffix.
type Form struct {
	Group
}

// NewForm creates a form.
func NewForm(opts Options, attrs Attrs) *Form {
	f := &Form{}
	f.initGroup(f, "form", opts, Attrs{"method": "post"})
	f.attrs.SetAll(attrs)
	return f
}

// ID returns the id attribute, generating "<name>-form" (or a random token
// for an unnamed form) on first use.
func (f *Form) ID() string {
	if id := f.attrs.Get("id"); id != "" {
		return id
	}
	id := randomID()
	if name := f.Name(); name != "" {
		id = sanitizeID(name) + "-form"
	}
	f.attrs.Set("id", id)
	return id
}

// generate fixes the id before the opening tag is written so the form
// always carries the id its children are scoped to.
func (f *Form) generate() string {
	f.ID()
	return f.Group.generate()
}

// Method returns the lower-cased method attribute.
func (f *Form) Method() string {
	if m := f.attrs.Get("method"); m != "" {
		return strings.ToLower(m)
	}
	return "post"
}

// IsSubmitted reports whether r submits this form, comparing the request
// method with the form's method. On a match the submitted fields (query
// values for GET, body values and files otherwise) are applied with
// SetValues.
//
//	if form.IsSubmitted(r) && form.IsValid() {
//	    save(form.Values())
//	}
func (f *Form) IsSubmitted(r *http.Request) bool {
	if !strings.EqualFold(r.Method, f.Method()) {
		return false
	}
	values, err := RequestValues(r, int64(f.OptionInt("max-memory", DefaultMaxMemory)))
	if err != nil {
		f.logger().Warn("parse submitted form", "form", f.Name(), "error", err)
		return false
	}
	if limit := int64(f.OptionInt("max-file-size", 0)); limit > 0 {
		limitUploads(values, limit)
	}
	f.SetValues(values)
	f.logger().Debug("form submitted", "form", f.Name(), "fields", len(values))
	return true
}

func limitUploads(values map[string]any, limit int64) {
	for _, v := range values {
		switch u := v.(type) {
		case *Upload:
			if u.Size > limit && u.Error == UploadOK {
				u.Error = UploadFormSize
			}
		case []*Upload:
			for _, one := range u {
				if one.Size > limit && one.Error == UploadOK {
					one.Error = UploadFormSize
				}
			}
		}
	}
}

// Hx makes the form submit through HTMX to url with the form's method,
// replacing target according to swap. An empty target leaves hx-target
// unset (HTMX then swaps the form itself).
//
//	form.Hx("/signup", "#signup", formbuilder.SwapOuter)
func (f *Form) Hx(url, target string, swap SwapMode) *Form {
	for name, v := range HxAttrs(url, f.Method()) {
		f.attrs.Set(name, v)
	}
	if target != "" {
		f.attrs.Set("hx-target", target)
	}
	if swap != "" {
		f.attrs.Set("hx-swap", string(swap))
	}
	return f
}

// HxAttrs builds the HTMX request attribute for url and method.
func HxAttrs(url, method string) templ.Attributes {
	attrs := templ.Attributes{}
	switch strings.ToUpper(method) {
	case "", http.MethodGet:
		attrs["hx-get"] = url
	case http.MethodPut:
		attrs["hx-put"] = url
	case http.MethodPatch:
		attrs["hx-patch"] = url
	case http.MethodDelete:
		attrs["hx-delete"] = url
	default:
		attrs["hx-post"] = url
	}
	return attrs
}
