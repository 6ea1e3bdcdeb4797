package formbuilder

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

func newContactForm() *Form {
	form := NewForm(Options{"name": "contact"}, nil)
	form.Add(
		NewInput(nil, Attrs{"type": "email", "name": "email", "required": true}),
		NewTextarea(nil, Attrs{"name": "message"}),
	)
	return form
}

func TestTestRender(t *testing.T) {
	result := TestRender(newContactForm())

	if !result.HTMLContains(`<form method="post" name="contact" id="contact-form">`) {
		t.Errorf("missing form tag:\n%s", result.HTML)
	}
	if !result.HTMLContainsAll(`name="email"`, `<textarea name="message"`) {
		t.Errorf("missing controls:\n%s", result.HTML)
	}
	if result.HTMLContainsAll(`name="email"`, `name="phone"`) {
		t.Error("HTMLContainsAll should fail when one substring is missing")
	}
	if result.Submitted || result.Valid || len(result.Errors) != 0 {
		t.Errorf("render result = %+v", result)
	}
}

func TestTestSubmit(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		values    url.Values
		submitted bool
		valid     bool
		errors    map[string]string
	}{
		{
			name:      "valid",
			method:    http.MethodPost,
			values:    url.Values{"email": {"ann@example.com"}, "message": {"Hi"}},
			submitted: true,
			valid:     true,
			errors:    map[string]string{},
		},
		{
			name:      "invalid",
			method:    http.MethodPost,
			values:    url.Values{"email": {"ann"}},
			submitted: true,
			errors:    map[string]string{"email": "Please enter a valid email"},
		},
		{
			name:   "wrong method",
			method: http.MethodGet,
			values: url.Values{"email": {"ann@example.com"}},
			errors: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TestSubmit(newContactForm(), tt.method, tt.values)
			if result.Submitted != tt.submitted || result.Valid != tt.valid {
				t.Errorf("Submitted = %v, Valid = %v", result.Submitted, result.Valid)
			}
			if len(result.Errors) != len(tt.errors) {
				t.Errorf("Errors = %v, want %v", result.Errors, tt.errors)
			}
			for name, msg := range tt.errors {
				if !result.HasError(name) || result.ErrorFor(name) != msg {
					t.Errorf("ErrorFor(%q) = %q, want %q", name, result.ErrorFor(name), msg)
				}
			}
		})
	}
}

func TestTestRequestBuilder(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	req := NewTestRequest(http.MethodPost, "/contact").
		WithFormData("email", "ann@example.com").
		WithHeader("X-Custom", "1").
		HTMX().
		WithContext(ctx).
		Build()

	if req.Method != http.MethodPost || req.URL.Path != "/contact" {
		t.Errorf("request = %s %s", req.Method, req.URL.Path)
	}
	if !IsHTMX(req) || req.Header.Get("X-Custom") != "1" {
		t.Errorf("headers = %v", req.Header)
	}
	if req.Context().Value(ctxKey{}) != "v" {
		t.Error("context not applied")
	}
	if err := req.ParseForm(); err != nil || req.PostForm.Get("email") != "ann@example.com" {
		t.Errorf("PostForm = %v, err = %v", req.PostForm, err)
	}

	get := NewTestRequest(http.MethodGet, "/search").WithFormData("q", "go").Build()
	if get.URL.Query().Get("q") != "go" {
		t.Errorf("query = %q", get.URL.RawQuery)
	}
}
