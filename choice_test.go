package formbuilder

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectPlaceholder(t *testing.T) {
	form := NewForm(Options{"name": "order"}, nil)
	sel := NewSelect(Options{"items": []string{"s", "m", "l"}}, Attrs{"name": "size", "placeholder": "Choose one"})
	form.Add(sel)

	html := sel.ControlHTML()
	want := `<select name="size" id="order-form-size">` + "\n" +
		`<option value="" disabled selected>Choose one</option>` + "\n" +
		`<option value="s">s</option>` + "\n" +
		`<option value="m">m</option>` + "\n" +
		`<option value="l">l</option>` + "\n" +
		`</select>`
	if diff := cmp.Diff(want, html); diff != "" {
		t.Errorf("ControlHTML() mismatch (-want +got):\n%s", diff)
	}

	sel.SetValue("m")
	html = sel.ControlHTML()
	if !strings.Contains(html, `<option value="" disabled>Choose one</option>`) {
		t.Errorf("placeholder should not stay selected:\n%s", html)
	}
	if !strings.Contains(html, `<option value="m" selected>m</option>`) {
		t.Errorf("selected option missing:\n%s", html)
	}
	if sel.Value() != "m" {
		t.Errorf("Value() = %v, want m", sel.Value())
	}
}

func TestSelectPlaceholderOption(t *testing.T) {
	sel := NewSelect(Options{"items": Items{{"1", "One"}}, "placeholder": "Pick"}, Attrs{"name": "n", "id": "n"})
	html := sel.ControlHTML()
	if !strings.HasPrefix(html, `<select id="n" name="n">`+"\n"+`<option value="" disabled selected>Pick</option>`) {
		t.Errorf("ControlHTML() = %s", html)
	}
	if !strings.Contains(html, `<option value="1">One</option>`) {
		t.Errorf("ControlHTML() = %s", html)
	}
}

func TestSelectMultiple(t *testing.T) {
	sel := NewSelect(Options{"items": map[string]string{"b": "Blue", "r": "Red", "g": "Green"}}, Attrs{"name": "colors", "multiple": true, "id": "c"})
	sel.SetValue([]string{"r", "b"})

	html := sel.ControlHTML()
	if !strings.HasPrefix(html, `<select id="c" multiple name="colors[]">`) {
		t.Errorf("ControlHTML() = %s", html)
	}
	// Map items are ordered by key.
	if i, j := strings.Index(html, `value="b"`), strings.Index(html, `value="g"`); i < 0 || j < i {
		t.Errorf("items out of order:\n%s", html)
	}
	if diff := cmp.Diff([]string{"r", "b"}, sel.Value()); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}

	sel.SetAttr("required", true)
	sel.SetValue(nil)
	if sel.IsValid() {
		t.Error("IsValid() = true for an empty required multi select")
	}
}

func TestSelectSingleKeepsLast(t *testing.T) {
	sel := NewSelect(Options{"items": []string{"a", "b"}}, Attrs{"name": "x"})
	sel.SetValue([]string{"a", "b"})
	if sel.Value() != "b" {
		t.Errorf("Value() = %v, want b", sel.Value())
	}
	sel.SetValue("")
	if sel.Value() != nil {
		t.Errorf("Value() = %v, want nil", sel.Value())
	}
}

func TestChoiceListHiddenFallback(t *testing.T) {
	form := NewForm(Options{"name": "prefs"}, nil)
	topics := NewChoiceList(
		Options{"multiple": true, "items": []string{"go", "html"}},
		Attrs{"name": "topics", "required": true},
	)
	form.Add(topics)

	html := topics.ControlHTML()
	hidden := strings.Index(html, `<input type="hidden" name="topics[]" value="">`)
	first := strings.Index(html, `<input type="checkbox" name="topics[]" value="go">`)
	if hidden < 0 || first < 0 || hidden > first {
		t.Fatalf("hidden fallback must precede the boxes:\n%s", html)
	}

	result := TestSubmit(form, http.MethodPost, url.Values{"topics[]": {""}})
	if !result.Submitted || result.Valid {
		t.Fatalf("Submitted = %v, Valid = %v", result.Submitted, result.Valid)
	}
	if got := result.ErrorFor("topics"); got != "Please fill out this field" {
		t.Errorf("ErrorFor(topics) = %q", got)
	}
	if diff := cmp.Diff([]string{}, topics.Value()); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}

	result = TestSubmit(form, http.MethodPost, url.Values{"topics[]": {"", "html"}})
	if !result.Valid {
		t.Errorf("Valid = false, errors %v", result.Errors)
	}
	if !result.HTMLContains(`<input type="checkbox" name="topics[]" value="html" checked>`) {
		t.Errorf("checked box missing:\n%s", result.HTML)
	}
}

func TestChoiceListNoHidden(t *testing.T) {
	cl := NewChoiceList(Options{"multiple": true, "add-hidden": false, "items": []string{"a"}}, Attrs{"name": "x"})
	if strings.Contains(cl.ControlHTML(), `type="hidden"`) {
		t.Errorf("ControlHTML() = %s", cl.ControlHTML())
	}
}

func TestChoiceListRadio(t *testing.T) {
	cl := NewChoiceList(
		Options{"items": Items{{"s", "Small"}, {"l", "Large"}}, "value": "l"},
		Attrs{"name": "size", "id": "size"},
	)

	want := `<div id="size" class="choicelist">` + "\n" +
		`<div><label><input type="radio" name="size" value="s"> Small</label></div>` + "\n" +
		`<div><label><input type="radio" name="size" value="l" checked> Large</label></div>` + "\n" +
		`</div>`
	if diff := cmp.Diff(want, cl.ControlHTML()); diff != "" {
		t.Errorf("ControlHTML() mismatch (-want +got):\n%s", diff)
	}
	if cl.Value() != "l" {
		t.Errorf("Value() = %v, want l", cl.Value())
	}
}

func TestChoiceListLayout(t *testing.T) {
	cl := NewChoiceList(
		Options{"items": []string{"a", "b", "c"}, "single-line": true, "selected-first": true, "multiple": true, "add-hidden": false},
		Attrs{"name": "x", "id": "x"},
	)
	cl.SetValue([]string{"c"})

	html := cl.ControlHTML()
	if !strings.HasPrefix(html, `<div id="x" class="choicelist choicelist-single-line">`) {
		t.Errorf("ControlHTML() = %s", html)
	}
	if strings.Contains(html, "<div><label>") {
		t.Errorf("single-line should drop item wrappers:\n%s", html)
	}
	if strings.Index(html, `value="c"`) > strings.Index(html, `value="a"`) {
		t.Errorf("selected item should come first:\n%s", html)
	}
}

func TestCheckboxInput(t *testing.T) {
	form := NewForm(Options{"name": "signup"}, nil)
	agree := NewInput(Options{"description": "I agree"}, Attrs{"type": "checkbox", "name": "agree"})
	form.Add(agree)

	html := agree.HTML()
	want := `<div id="signup-form-agree-container">` + "\n" +
		`<label><input type="hidden" name="agree" value="">` + "\n" +
		`<input type="checkbox" name="agree" value="1" id="signup-form-agree"> I agree</label>` + "\n" +
		`</div>`
	if diff := cmp.Diff(want, html); diff != "" {
		t.Errorf("HTML() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		value   any
		checked bool
	}{
		{"1", true},
		{"", false},
		{[]string{"", "1"}, true},
		{true, true},
		{nil, false},
	}
	for _, tt := range tests {
		agree.SetValue(tt.value)
		if got := agree.Attrs().Has("checked"); got != tt.checked {
			t.Errorf("SetValue(%#v): checked = %v, want %v", tt.value, got, tt.checked)
		}
	}
}

func TestToItems(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Items
	}{
		{"items", Items{{"a", "A"}}, Items{{"a", "A"}}},
		{"strings", []string{"x"}, Items{{"x", "x"}}},
		{"yaml list", []any{"x", 2}, Items{{"x", "x"}, {"2", "2"}}},
		{"string map", map[string]string{"b": "B", "a": "A"}, Items{{"a", "A"}, {"b", "B"}}},
		{"any map", map[string]any{"1": "One"}, Items{{"1", "One"}}},
		{"unsupported", 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, toItems(tt.value)); diff != "" {
				t.Errorf("toItems() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
