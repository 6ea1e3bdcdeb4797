package formbuilder

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// The checks below run against the current value of a control. Each
// returns false after storing the error:<rule> message on the control.
// Input runs them in this order, stopping at the first failure:
//
//	required, (empty stops here), type, min/max, length, pattern, match
//
// File inputs replace everything after the empty check with the upload
// error check.

func validationEnabled(el Element) bool {
	v, ok := el.Option("validation").(bool)
	return !ok || v
}

func fail(c Control, rule string) bool {
	c.SetError(c.OptionString("error:" + rule))
	c.node().logger().Debug("validation failed", "element", c.Name(), "rule", rule)
	return false
}

func checkRequired(c Control) bool {
	if c.Attrs().Has("required") && isEmpty(c.Value()) {
		return fail(c, "required")
	}
	return true
}

var emailPattern = regexp.MustCompile(`^[\w.\-]+@[\w.\-]+\w+$`)

var weekPattern = regexp.MustCompile(`^\d{4}-W(0[1-9]|[1-4]\d|5[0-3])$`)

// decimalPattern accepts plain decimal literals with an optional exponent.
// ParseFloat alone would also let through NaN, Inf, hex floats and
// underscores.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// clockPattern is HH:MM with optional :SS, both fields two digits.
var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

var typeChecks = map[string]func(string) bool{
	"color": func(v string) bool {
		if len(v) != 7 || v[0] != '#' {
			return false
		}
		for _, r := range v[1:] {
			if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
				return false
			}
		}
		return true
	},
	"number": func(v string) bool {
		for _, r := range v {
			if r < '0' || r > '9' {
				return false
			}
		}
		return v != ""
	},
	"range": decimalPattern.MatchString,
	"date":  layoutCheck("2006-01-02"),
	"datetime-local": func(v string) bool {
		date, clock, ok := strings.Cut(v, "T")
		return ok && layoutCheck("2006-01-02")(date) && clockPattern.MatchString(clock)
	},
	"time":  clockPattern.MatchString,
	"month": layoutCheck("2006-01"),
	"week":  weekPattern.MatchString,
	"url": func(v string) bool {
		scheme, _, ok := strings.Cut(v, ":")
		if !ok || scheme == "" {
			return false
		}
		for _, r := range scheme {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	},
	"email": emailPattern.MatchString,
}

func layoutCheck(layouts ...string) func(string) bool {
	return func(v string) bool {
		_, ok := parseTime(v, layouts...)
		return ok
	}
}

func parseTime(v string, layouts ...string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// checkType validates the literal format of value for the given input type.
// Types without a format rule always pass.
func checkType(c Control, typ, value string) bool {
	check, ok := typeChecks[typ]
	if !ok || check(value) {
		return true
	}
	return fail(c, "type")
}

var comparableLayouts = []string{
	"2006-01-02T15:04:05", "2006-01-02T15:04", time.RFC3339,
	"2006-01-02", "2006-01", "15:04:05", "15:04",
}

// compareValues compares numerically when both sides are numbers, as times
// when both parse as a date or time, and lexically otherwise.
func compareValues(a, b string) int {
	if x, err := strconv.ParseFloat(a, 64); err == nil {
		if y, err := strconv.ParseFloat(b, 64); err == nil {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := parseTime(a, comparableLayouts...); ok {
		if y, ok := parseTime(b, comparableLayouts...); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(a, b)
}

func checkMinMax(c Control, value string) bool {
	if lo := c.Attr("min"); lo != "" && compareValues(value, lo) < 0 {
		return fail(c, "min")
	}
	if hi := c.Attr("max"); hi != "" && compareValues(value, hi) > 0 {
		return fail(c, "max")
	}
	return true
}

// minlengthAttr returns the attribute holding the minimum length:
// minlength, or data-minlength for browsers without native support.
func minlengthAttr(el Element) string {
	if el.Attrs().Has("minlength") {
		return "minlength"
	}
	if el.Attrs().Has("data-minlength") {
		return "data-minlength"
	}
	return ""
}

func checkLength(c Control, value string) bool {
	n := utf8.RuneCountInString(value)
	if attr := minlengthAttr(c); attr != "" {
		if lo, err := strconv.Atoi(c.Attr(attr)); err == nil && n < lo {
			return fail(c, "minlength")
		}
	}
	if hi, err := strconv.Atoi(c.Attr("maxlength")); err == nil && n > hi {
		return fail(c, "maxlength")
	}
	return true
}

// checkPattern matches the whole value against the pattern attribute, as
// browsers do. An invalid pattern fails the check.
func checkPattern(c Control, value string) bool {
	pattern := c.Attr("pattern")
	if pattern == "" {
		return true
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		c.node().logger().Error("invalid pattern", "element", c.Name(), "pattern", pattern, "error", err)
		return fail(c, "pattern")
	}
	if !re.MatchString(value) {
		return fail(c, "pattern")
	}
	return true
}

// matchTarget resolves the match option to a control: either the control
// itself or a name looked up in the form (or the root container when the
// element has no form).
func matchTarget(el Element) Control {
	switch v := el.Option("match").(type) {
	case Control:
		return v
	case string:
		if v == "" {
			return nil
		}
		var root Container
		if f := el.Form(); f != nil {
			root = f
		} else {
			for p := el.Parent(); p != nil; p = p.Parent() {
				root = p
			}
		}
		if root == nil {
			return nil
		}
		if c, ok := root.Get(v).(Control); ok {
			return c
		}
	}
	return nil
}

func checkMatch(c Control, value string) bool {
	if c.Option("match") == nil {
		return true
	}
	other := matchTarget(c)
	if other == nil {
		c.node().logger().Warn("match target not found", "element", c.Name(), "match", c.OptionString("match"))
		return fail(c, "match")
	}
	if valueString(other.Value()) != value {
		return fail(c, "match")
	}
	return true
}

func checkUpload(c Control, u *Upload) bool {
	if u == nil || u.Error == UploadOK {
		return true
	}
	c.SetError(uploadMessage(c.Option("error:upload"), u.Error))
	c.node().logger().Debug("validation failed", "element", c.Name(), "rule", "upload", "code", int(u.Error))
	return false
}

// uploadMessage looks up the message for code in the error:upload option,
// which may be keyed by UploadError, int or string (as read from YAML).
func uploadMessage(table any, code UploadError) string {
	switch t := table.(type) {
	case map[UploadError]string:
		if msg, ok := t[code]; ok {
			return msg
		}
	case map[int]string:
		if msg, ok := t[int(code)]; ok {
			return msg
		}
	case map[string]string:
		if msg, ok := t[strconv.Itoa(int(code))]; ok {
			return msg
		}
	case map[string]any:
		if msg, ok := t[strconv.Itoa(int(code))].(string); ok {
			return msg
		}
	}
	return code.String()
}

// ValidationScript returns a <script> that mirrors the minlength and match
// rules in the browser through setCustomValidity, or "" when neither rule
// applies or the validation-script option is off.
func (c *ControlBase) ValidationScript() string {
	if !c.OptionBool("validation-script") || !validationEnabled(c.self) {
		return ""
	}

	type rule struct{ name, test string }
	var rules []rule
	if attr := minlengthAttr(c.self); attr != "" {
		rules = append(rules, rule{"minlength", `this.value === "" || this.value.length >= this.getAttribute(` + jsString(attr) + `)`})
	}
	if c.Option("match") != nil {
		if other := matchTarget(c.self); other != nil {
			rules = append(rules, rule{"match", `this.value == document.getElementById(` + jsString(other.ID()) + `).value`})
		}
	}
	if len(rules) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<script type="text/javascript">` + "\n")
	fmt.Fprintf(&b, "document.getElementById(%s).addEventListener(\"input\", function() {\n", jsString(c.self.ID()))
	for _, r := range rules {
		fmt.Fprintf(&b, "    if (!(%s)) {\n", r.test)
		fmt.Fprintf(&b, "        this.setCustomValidity(%s);\n", c.scriptMessage(c.OptionString("error:"+r.name)))
		b.WriteString("        return;\n    }\n")
	}
	b.WriteString("    this.setCustomValidity(\"\");\n});\n</script>")
	return b.String()
}

// scriptMessage compiles a message template into a JavaScript string
// expression evaluated inside the input listener.
func (c *ControlBase) scriptMessage(tpl string) string {
	var parts []string
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(tpl, -1) {
		if m[0] > last {
			parts = append(parts, jsString(tpl[last:m[0]]))
		}
		parts = append(parts, c.scriptPlaceholder(tpl[m[2]:m[3]]))
		last = m[1]
	}
	if last < len(tpl) {
		parts = append(parts, jsString(tpl[last:]))
	}
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " + ")
}

func (c *ControlBase) scriptPlaceholder(name string) string {
	switch name {
	case "value":
		return "this.value"
	case "length":
		return "String(this.value.length)"
	}
	if c.attrs.Has(name) {
		return "this.getAttribute(" + jsString(name) + ")"
	}
	if other, ok := c.Option(name).(Control); ok {
		return "document.getElementById(" + jsString(other.ID()) + ").value"
	}
	return jsString(c.resolvePlaceholder(name))
}

// jsString quotes s as a JavaScript string literal. encoding/json escapes
// <, > and & so the literal is safe inside a <script> element.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
