package formbuilder

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Render writes a templ component, such as a form, to the HTTP response.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    formbuilder.Render(w, r, form)
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// Use this to answer an HTMX form submission with just the re-rendered
// form instead of the full page:
//
//	if formbuilder.IsHTMX(r) {
//	    return formbuilder.Render(w, r, form)
//	}
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsBoosted returns true if the request is a boosted navigation (hx-boost).
func IsBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// TriggerName returns the name attribute of the element that triggered the
// request, i.e. the submit button that was clicked:
//
//	if formbuilder.TriggerName(r) == "save-draft" {
//	    // Handle draft save
//	}
//
// Returns empty string if not present.
func TriggerName(r *http.Request) string {
	return r.Header.Get("HX-Trigger-Name")
}

// TriggerID returns the id attribute of the element that triggered the request.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// TargetID returns the id attribute of the target element (hx-target).
func TargetID(r *http.Request) string {
	return r.Header.Get("HX-Target")
}

// RequestValues parses the submitted fields of r into a value map suitable
// for SetValues.
//
// GET and HEAD requests use the query string; other methods use the body,
// url-encoded or multipart. A key ending in "[]" is stored without the
// marker and always as a []string, as is any key sent more than once.
// Files become *Upload values ([]*Upload for "[]" keys).
func RequestValues(r *http.Request, maxMemory int64) (map[string]any, error) {
	var src map[string][]string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		src = r.Form
	} else {
		src = r.PostForm
	}

	out := make(map[string]any, len(src))
	for _, key := range sortedKeys(src) {
		vals := src[key]
		name, multi := strings.CutSuffix(key, "[]")
		prev, seen := out[name]
		switch {
		case seen:
			out[name] = append(toStrings(prev), vals...)
		case multi || len(vals) > 1:
			out[name] = slices.Clone(vals)
		case len(vals) == 1:
			out[name] = vals[0]
		}
	}

	if r.MultipartForm != nil {
		for _, key := range sortedKeys(r.MultipartForm.File) {
			name, multi := strings.CutSuffix(key, "[]")
			var uploads []*Upload
			for _, fh := range r.MultipartForm.File[key] {
				uploads = append(uploads, NewUpload(fh))
			}
			if multi || len(uploads) > 1 {
				out[name] = uploads
			} else if len(uploads) == 1 {
				out[name] = uploads[0]
			}
		}
	}
	return out, nil
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case string:
		return []string{x}
	}
	return nil
}
