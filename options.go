package formbuilder

import (
	"fmt"
	"maps"
	"strconv"
)

// Options holds the non-HTML configuration of an element: label and
// container modes, the required suffix, error message templates and
// feature toggles.
//
// Lookup on an element checks its own options, then its ancestors, then
// the defaults of the element's Config.
type Options map[string]any

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Merge returns a copy of o overlaid with other. Keys in other win.
func (o Options) Merge(other Options) Options {
	out := o.Clone()
	maps.Copy(out, other)
	return out
}

// Option returns the resolved value of an option, or nil if it is set
// nowhere along the chain.
func (n *Node) Option(name string) any {
	if v, ok := n.opts[name]; ok {
		return v
	}
	if n.parent != nil {
		return n.parent.Option(name)
	}
	return n.config().Defaults[name]
}

// SetOption sets a local option. A nil value deletes the local override so
// the option is inherited again.
func (n *Node) SetOption(name string, value any) {
	if value == nil {
		delete(n.opts, name)
		return
	}
	n.opts[name] = value
}

// Options returns the full merged option map. Local options win over
// inherited ones, which win over the defaults.
func (n *Node) Options() Options {
	var out Options
	if n.parent != nil {
		out = n.parent.Options()
	} else {
		out = n.config().Defaults.Clone()
	}
	maps.Copy(out, n.opts)
	return out
}

// OptionString returns the option stringified, or "" when unset.
func (n *Node) OptionString(name string) string {
	return optionString(n.Option(name))
}

// OptionBool returns the option as a boolean. Unset, false, "" and "0"
// are false; any other value is true.
func (n *Node) OptionBool(name string) bool {
	return optionBool(n.Option(name))
}

// OptionInt returns the option as an int, or def when unset or not numeric.
func (n *Node) OptionInt(name string, def int) int {
	switch v := n.Option(name).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func optionString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func optionBool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0" && x != "false"
	case int:
		return x != 0
	default:
		return true
	}
}
