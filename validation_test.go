package formbuilder

import (
	"strings"
	"testing"
)

func TestRequiredTextInput(t *testing.T) {
	in := NewInput(nil, Attrs{"type": "text", "name": "title", "required": true})

	if in.IsValid() {
		t.Fatal("IsValid() = true for an empty required input")
	}
	if got := in.ErrorMessage(); got != "Please fill out this field" {
		t.Errorf("ErrorMessage() = %q", got)
	}

	in.SetValue("hello")
	if !in.IsValid() {
		t.Fatalf("IsValid() = false, error %q", in.ErrorMessage())
	}
	if got := in.ErrorMessage(); got != "" {
		t.Errorf("ErrorMessage() after success = %q, want empty", got)
	}
}

func TestEmailInput(t *testing.T) {
	in := NewInput(nil, Attrs{"type": "email", "name": "email"})

	in.SetValue("not-an-email")
	if in.IsValid() {
		t.Error("IsValid() = true for not-an-email")
	}
	if got := in.ErrorMessage(); got != "Please enter a valid email" {
		t.Errorf("ErrorMessage() = %q", got)
	}

	in.SetValue("a@b.co")
	if !in.IsValid() {
		t.Errorf("IsValid() = false for a@b.co: %q", in.ErrorMessage())
	}
}

func TestInputRules(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		attrs   Attrs
		value   any
		wantErr string
	}{
		{
			name:    "required short-circuits other rules",
			opts:    Options{"minlength": 5},
			attrs:   Attrs{"required": true, "pattern": "[0-9]+"},
			value:   "",
			wantErr: "Please fill out this field",
		},
		{
			name:  "optional empty skips format",
			attrs: Attrs{"type": "email"},
			value: "",
		},
		{
			name:    "number format",
			attrs:   Attrs{"type": "number"},
			value:   "12a",
			wantErr: "Please enter a valid number",
		},
		{
			name:    "min",
			attrs:   Attrs{"type": "number", "min": 5},
			value:   "3",
			wantErr: "Value must be greater or equal to 5",
		},
		{
			name:  "min compares numerically",
			attrs: Attrs{"type": "number", "min": 5},
			value: "10",
		},
		{
			name:    "max date",
			attrs:   Attrs{"type": "date", "max": "2024-01-01"},
			value:   "2024-02-01",
			wantErr: "Value must be less or equal to 2024-01-01",
		},
		{
			name:    "minlength option",
			opts:    Options{"minlength": 3},
			value:   "ab",
			wantErr: "Please use 3 characters or more for this text",
		},
		{
			name:    "data-minlength",
			opts:    Options{"error:minlength": "At least {{data-minlength}} characters"},
			attrs:   Attrs{"data-minlength": 3},
			value:   "ab",
			wantErr: "At least 3 characters",
		},
		{
			name:    "maxlength counts runes",
			attrs:   Attrs{"maxlength": 3},
			value:   "abcd",
			wantErr: "Please shorten this text to 3 characters or less",
		},
		{
			name:  "maxlength multibyte",
			attrs: Attrs{"maxlength": 3},
			value: "äöü",
		},
		{
			name:    "pattern is anchored",
			attrs:   Attrs{"pattern": "[a-z]+"},
			value:   "abc1",
			wantErr: "Please match the requested format",
		},
		{
			name:  "pattern match",
			attrs: Attrs{"pattern": "[a-z]+"},
			value: "abc",
		},
		{
			name:    "invalid pattern fails",
			attrs:   Attrs{"pattern": "[a-"},
			value:   "abc",
			wantErr: "Please match the requested format",
		},
		{
			name:    "color",
			attrs:   Attrs{"type": "color"},
			value:   "#12345g",
			wantErr: "Please enter a valid color",
		},
		{
			name:  "color ok",
			attrs: Attrs{"type": "color"},
			value: "#aabbcc",
		},
		{
			name:    "url needs scheme",
			attrs:   Attrs{"type": "url"},
			value:   "example.com",
			wantErr: "Please enter a valid url",
		},
		{
			name:  "url ok",
			attrs: Attrs{"type": "url"},
			value: "https://example.com",
		},
		{
			name:    "week out of range",
			attrs:   Attrs{"type": "week"},
			value:   "2024-W54",
			wantErr: "Please enter a valid week",
		},
		{
			name:    "time",
			attrs:   Attrs{"type": "time"},
			value:   "25:00",
			wantErr: "Please enter a valid time",
		},
		{
			name:    "time needs two digit hours",
			attrs:   Attrs{"type": "time"},
			value:   "9:30",
			wantErr: "Please enter a valid time",
		},
		{
			name:  "time with seconds",
			attrs: Attrs{"type": "time"},
			value: "09:30:15",
		},
		{
			name:  "datetime-local",
			attrs: Attrs{"type": "datetime-local", "min": "2024-01-01T00:00"},
			value: "2024-06-01T12:30",
		},
		{
			name:    "datetime-local single digit hour",
			attrs:   Attrs{"type": "datetime-local"},
			value:   "2024-06-01T9:30",
			wantErr: "Please enter a valid datetime-local",
		},
		{
			name:  "range decimal with exponent",
			attrs: Attrs{"type": "range"},
			value: "-1.5e3",
		},
		{
			name:    "range NaN",
			attrs:   Attrs{"type": "range"},
			value:   "NaN",
			wantErr: "Please enter a valid range",
		},
		{
			name:    "range Inf",
			attrs:   Attrs{"type": "range"},
			value:   "Inf",
			wantErr: "Please enter a valid range",
		},
		{
			name:    "range negative infinity",
			attrs:   Attrs{"type": "range"},
			value:   "-infinity",
			wantErr: "Please enter a valid range",
		},
		{
			name:    "range hex float",
			attrs:   Attrs{"type": "range"},
			value:   "0x1p3",
			wantErr: "Please enter a valid range",
		},
		{
			name:    "range underscores",
			attrs:   Attrs{"type": "range"},
			value:   "1_000",
			wantErr: "Please enter a valid range",
		},
		{
			name:    "custom message with placeholders",
			opts:    Options{"error:max": "{{desc}} must be at most {{max}}, got {{value}}"},
			attrs:   Attrs{"type": "range", "name": "volume", "max": 11},
			value:   "12",
			wantErr: "Volume must be at most 11, got 12",
		},
		{
			name:  "validation off",
			opts:  Options{"validation": false},
			attrs: Attrs{"required": true},
			value: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := Attrs{"name": "field"}
			for k, v := range tt.attrs {
				attrs[k] = v
			}
			in := NewInput(tt.opts, attrs)
			in.SetValue(tt.value)

			valid := in.IsValid()
			if valid != (tt.wantErr == "") {
				t.Errorf("IsValid() = %v, error %q", valid, in.ErrorMessage())
			}
			if got := in.ErrorMessage(); got != tt.wantErr {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestMatchRule(t *testing.T) {
	form := NewForm(Options{"name": "signup"}, nil)
	password := NewInput(nil, Attrs{"type": "password", "name": "password"})
	confirm := NewInput(Options{"match": "password"}, Attrs{"type": "password", "name": "confirm"})
	form.Add(password, confirm)

	password.SetValue("secret")
	confirm.SetValue("secrets")
	if confirm.IsValid() {
		t.Fatal("IsValid() = true for different values")
	}
	if got := confirm.ErrorMessage(); got != "Please match the value of password" {
		t.Errorf("ErrorMessage() = %q", got)
	}

	confirm.SetValue("secret")
	if !confirm.IsValid() {
		t.Errorf("IsValid() = false for equal values: %q", confirm.ErrorMessage())
	}

	t.Run("control reference", func(t *testing.T) {
		other := NewInput(Options{"match": password, "error:match": "Must equal {{match}}"}, Attrs{"name": "again"})
		form.Add(other)
		other.SetValue("nope")
		if other.IsValid() {
			t.Fatal("IsValid() = true for different values")
		}
		if got := other.ErrorMessage(); got != "Must equal Password" {
			t.Errorf("ErrorMessage() = %q", got)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		lost := NewInput(Options{"match": "nowhere"}, Attrs{"name": "lost"})
		form.Add(lost)
		lost.SetValue("x")
		if lost.IsValid() {
			t.Error("IsValid() = true with an unknown match target")
		}
	})
}

func TestTextareaRules(t *testing.T) {
	ta := NewTextarea(Options{"maxlength": 5}, Attrs{"name": "bio", "required": true})
	if ta.IsValid() || ta.ErrorMessage() != "Please fill out this field" {
		t.Errorf("empty: error %q", ta.ErrorMessage())
	}

	ta.SetValue("too long")
	if ta.IsValid() || ta.ErrorMessage() != "Please shorten this text to 5 characters or less" {
		t.Errorf("long: error %q", ta.ErrorMessage())
	}

	ta.SetValue([]string{"first", "short"})
	if !ta.IsValid() {
		t.Errorf("short: error %q", ta.ErrorMessage())
	}
	if ta.Value() != "short" {
		t.Errorf("Value() = %v, want the last submitted entry", ta.Value())
	}
}

func TestFileInputRules(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		attrs   Attrs
		upload  *Upload
		wantErr string
	}{
		{"ok", nil, nil, &Upload{Filename: "a.png"}, ""},
		{"no file optional", nil, nil, &Upload{Error: UploadNoFile}, ""},
		{"no file required", nil, Attrs{"required": true}, &Upload{Error: UploadNoFile}, "Please fill out this field"},
		{"partial", nil, nil, &Upload{Filename: "a.png", Error: UploadPartial}, "The uploaded file was only partially uploaded."},
		{
			"custom table",
			Options{"error:upload": map[int]string{2: "Too big"}},
			nil,
			&Upload{Filename: "a.png", Error: UploadFormSize},
			"Too big",
		},
		{
			"table from yaml",
			Options{"error:upload": map[string]any{"8": "Images only"}},
			nil,
			&Upload{Filename: "a.exe", Error: UploadExtension},
			"Images only",
		},
		{
			"fallback text",
			Options{"error:upload": map[int]string{}},
			nil,
			&Upload{Filename: "a.png", Error: UploadCantWrite},
			"Failed to write file to disk.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := Attrs{"type": "file", "name": "avatar"}
			for k, v := range tt.attrs {
				attrs[k] = v
			}
			in := NewInput(tt.opts, attrs)
			in.SetValue(tt.upload)

			if valid := in.IsValid(); valid != (tt.wantErr == "") {
				t.Errorf("IsValid() = %v, error %q", valid, in.ErrorMessage())
			}
			if got := in.ErrorMessage(); got != tt.wantErr {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestValidationScript(t *testing.T) {
	form := NewForm(Options{"name": "signup"}, nil)
	password := NewInput(Options{"minlength": 8}, Attrs{"type": "password", "name": "password"})
	confirm := NewInput(Options{"match": "password"}, Attrs{"type": "password", "name": "confirm"})
	plain := NewInput(nil, Attrs{"name": "plain"})
	form.Add(password, confirm, plain)

	script := password.ValidationScript()
	for _, want := range []string{
		`<script type="text/javascript">`,
		`document.getElementById("signup-form-password").addEventListener("input", function() {`,
		`if (!(this.value === "" || this.value.length >= this.getAttribute("minlength"))) {`,
		`this.setCustomValidity("Please use " + this.getAttribute("minlength") + " characters or more for this text");`,
		`this.setCustomValidity("");`,
		`</script>`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("password script missing %q:\n%s", want, script)
		}
	}

	script = confirm.ValidationScript()
	if !strings.Contains(script, `this.value == document.getElementById("signup-form-password").value`) {
		t.Errorf("confirm script:\n%s", script)
	}
	if !strings.Contains(script, `this.setCustomValidity("Please match the value of " + "password");`) {
		t.Errorf("confirm message:\n%s", script)
	}

	if got := plain.ValidationScript(); got != "" {
		t.Errorf("plain script = %q, want empty", got)
	}

	password.SetOption("validation-script", false)
	if got := password.ValidationScript(); got != "" {
		t.Errorf("script with validation-script off = %q", got)
	}

	if html := confirm.HTML(); !strings.Contains(html, "<script") {
		t.Errorf("field HTML should embed the script:\n%s", html)
	}
}
