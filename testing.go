package formbuilder

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// TestResult holds the outcome of submitting a form in a test.
//
// Provides convenience methods for asserting on the re-rendered HTML and
// the per-control error messages.
type TestResult struct {
	HTML      string
	Submitted bool
	Valid     bool
	Errors    map[string]string // control name -> error message
	Values    map[string]any
}

// TestRender renders an element and returns testable output.
//
//	result := formbuilder.TestRender(form)
//	if !result.HTMLContains(`<form method="post"`) {
//	    t.Fatal("missing form tag")
//	}
func TestRender(el Element) *TestResult {
	var buf bytes.Buffer
	_ = el.Render(context.Background(), &buf)
	return &TestResult{HTML: buf.String(), Errors: map[string]string{}}
}

// TestSubmit submits values to form with the given method, validates it
// when it counts as submitted, and renders the result.
//
//	result := formbuilder.TestSubmit(form, "POST", url.Values{"email": {"nope"}})
//	if !result.HasError("email") {
//	    t.Fatal("expected an email error")
//	}
func TestSubmit(form *Form, method string, values url.Values) *TestResult {
	return NewTestRequest(method, "/").WithFormValues(values).Submit(form)
}

// TestSubmitRequest runs the submit cycle for an arbitrary request:
// IsSubmitted, IsValid when submitted, then render.
func TestSubmitRequest(form *Form, r *http.Request) *TestResult {
	result := &TestResult{Errors: map[string]string{}}
	result.Submitted = form.IsSubmitted(r)
	if result.Submitted {
		result.Valid = form.IsValid()
	}
	for _, c := range form.Elements() {
		if msg := c.ErrorMessage(); msg != "" {
			result.Errors[c.Name()] = msg
		}
	}
	result.Values = form.Values()
	result.HTML = form.HTML()
	return result
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasError checks if the named control has a validation error.
func (r *TestResult) HasError(name string) bool {
	_, ok := r.Errors[name]
	return ok
}

// ErrorFor returns the error message of the named control.
func (r *TestResult) ErrorFor(name string) string {
	return r.Errors[name]
}

type testFile struct {
	field, filename, contentType string
	content                      []byte
}

// TestRequestBuilder provides a fluent interface for building submit
// requests, including multipart uploads:
//
//	result := formbuilder.NewTestRequest("POST", "/profile").
//	    WithFormData("name", "Arthur").
//	    WithFile("avatar", "me.png", "image/png", png).
//	    HTMX().
//	    Submit(form)
type TestRequestBuilder struct {
	method   string
	url      string
	formData url.Values
	files    []testFile
	headers  map[string]string
	ctx      context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string][]string),
		headers:  make(map[string]string),
		ctx:      context.Background(),
	}
}

// WithFormData adds values for a field.
func (b *TestRequestBuilder) WithFormData(key string, values ...string) *TestRequestBuilder {
	b.formData[key] = append(b.formData[key], values...)
	return b
}

// WithFormValues adds multiple fields.
func (b *TestRequestBuilder) WithFormValues(data url.Values) *TestRequestBuilder {
	for k, v := range data {
		b.formData[k] = append(b.formData[k], v...)
	}
	return b
}

// WithFile adds a file part; the request becomes multipart.
func (b *TestRequestBuilder) WithFile(field, filename, contentType string, content []byte) *TestRequestBuilder {
	b.files = append(b.files, testFile{field, filename, contentType, content})
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// HTMX marks the request as sent by HTMX.
func (b *TestRequestBuilder) HTMX() *TestRequestBuilder {
	return b.WithHeader("HX-Request", "true")
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Build creates the request. GET requests carry the fields in the query.
func (b *TestRequestBuilder) Build() *http.Request {
	var req *http.Request
	switch {
	case strings.EqualFold(b.method, http.MethodGet):
		target := b.url
		if len(b.formData) > 0 {
			target += "?" + b.formData.Encode()
		}
		req = httptest.NewRequest(b.method, target, nil)
	case len(b.files) > 0:
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		for k, vals := range b.formData {
			for _, v := range vals {
				_ = w.WriteField(k, v)
			}
		}
		for _, f := range b.files {
			part, _ := w.CreatePart(map[string][]string{
				"Content-Disposition": {`form-data; name="` + f.field + `"; filename="` + f.filename + `"`},
				"Content-Type":        {f.contentType},
			})
			_, _ = part.Write(f.content)
		}
		_ = w.Close()
		req = httptest.NewRequest(b.method, b.url, &body)
		req.Header.Set("Content-Type", w.FormDataContentType())
	default:
		req = httptest.NewRequest(b.method, b.url, strings.NewReader(b.formData.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req.WithContext(b.ctx)
}

// Submit builds the request and runs TestSubmitRequest.
func (b *TestRequestBuilder) Submit(form *Form) *TestResult {
	return TestSubmitRequest(form, b.Build())
}
