package decorator

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pthm/formbuilder"
)

func signupForm() *formbuilder.Form {
	form := formbuilder.NewForm(formbuilder.Options{"name": "signup"}, nil)
	form.Add(
		formbuilder.NewInput(nil, formbuilder.Attrs{"type": "email", "name": "email", "required": true}),
		formbuilder.NewInput(nil, formbuilder.Attrs{"type": "checkbox", "name": "terms"}),
		formbuilder.NewButton(nil, formbuilder.Attrs{"type": "submit"}),
	)
	return form
}

func TestTidy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"closes open tags", `<div><p>text</div>`, `<div><p>text</p></div>`},
		{"quotes attributes", `<input type=text name=q>`, `<input type="text" name="q"/>`},
		{"drops stray end tags", `<span>a</span></div>`, `<span>a</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTidy().Render(nil, tt.in)
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTidyOnForm(t *testing.T) {
	form := signupForm()
	form.AddDecorator(NewTidy())

	html := form.HTML()
	if !strings.HasPrefix(html, `<form`) || !strings.HasSuffix(html, `</form>`) {
		t.Errorf("tidy output is not a single form: %q", html)
	}
	if !strings.Contains(html, `type="email"`) {
		t.Errorf("missing email input in %q", html)
	}
}

func TestIndent(t *testing.T) {
	got := NewIndent().Render(nil, `<div><div>text</div></div>`)
	if !strings.Contains(got, "\n  <div>") {
		t.Errorf("expected the nested div to be indented, got %q", got)
	}
}

func TestBootstrapClasses(t *testing.T) {
	form := signupForm()
	form.AddDecorator(NewBootstrap())

	html := form.HTML()
	for _, want := range []string{
		`class="form-control"`,
		`class="btn btn-primary"`,
		`<div class="form-group" id="signup-form-email-container">`,
		`<div class="checkbox" id="signup-form-terms-container">`,
		`<label class="control-label" for="signup-form-email">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in\n%s", want, html)
		}
	}
}

func TestBootstrapLateChildren(t *testing.T) {
	form := formbuilder.NewForm(nil, nil)
	form.AddDecorator(NewBootstrap())
	form.Add(formbuilder.NewTextarea(nil, formbuilder.Attrs{"name": "bio"}))

	if !form.Get("bio").Attrs().HasClass("form-control") {
		t.Error("deep decorator was not applied to a child added later")
	}
}

func TestBootstrapError(t *testing.T) {
	form := signupForm()
	form.AddDecorator(NewBootstrap())

	result := formbuilder.TestSubmit(form, "POST", url.Values{"email": {""}})
	if result.Valid {
		t.Fatal("expected the empty required email to fail")
	}
	if !result.HTMLContainsAll(`class="form-group has-error"`, `<span class="help-block">Please fill out this field</span>`) {
		t.Errorf("missing error markup in\n%s", result.HTML)
	}
	if result.HTMLContains(`<span class="error">`) {
		t.Error("default error span should be replaced")
	}
}

func TestBootstrapHorizontal(t *testing.T) {
	b := NewBootstrap()
	b.Horizontal = true
	form := signupForm()
	form.AddDecorator(b)

	result := formbuilder.TestRender(form)
	if !result.HTMLContainsAll(`form-horizontal`, `col-sm-2 control-label`, `<div class="col-sm-10">`) {
		t.Errorf("missing horizontal layout in\n%s", result.HTML)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	form := signupForm()
	form.AddDecorator(m)

	formbuilder.TestSubmit(form, "POST", url.Values{"email": {""}})
	formbuilder.TestSubmit(form, "POST", url.Values{"email": {"a@example.com"}})

	if got := testutil.ToFloat64(m.validations.WithLabelValues("signup", "email", "invalid")); got != 1 {
		t.Errorf("invalid email count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.validations.WithLabelValues("signup", "email", "valid")); got != 1 {
		t.Errorf("valid email count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("signup")); got != 2 {
		t.Errorf("render count = %v, want 2", got)
	}
}

func TestInstall(t *testing.T) {
	cfg := Install(formbuilder.DefaultConfig(), prometheus.NewRegistry())
	f := formbuilder.NewFactory(cfg)

	for _, name := range []string{"tidy", "indent", "bootstrap", "metrics"} {
		if _, err := f.Decorator(name, nil); err != nil {
			t.Errorf("Decorator(%q) error: %v", name, err)
		}
	}

	first := f.MustDecorator("metrics", nil)
	second := f.MustDecorator("metrics", nil)
	if first != second {
		t.Error("metrics decorator should be shared")
	}

	b := f.MustDecorator("bootstrap", formbuilder.Options{"horizontal": true}).(*Bootstrap)
	if !b.Horizontal {
		t.Error("horizontal option not applied")
	}
}

func TestInstallBootstrapVersion(t *testing.T) {
	f := formbuilder.NewFactory(Install(formbuilder.DefaultConfig(), prometheus.NewRegistry()))

	_, err := f.Decorator("bootstrap", formbuilder.Options{"version": 4})
	if !errors.Is(err, formbuilder.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !formbuilder.IsConfigError(err) {
		t.Errorf("expected a *ConfigError, got %T", err)
	}
}
