package formbuilder

import (
	"log/slog"
	"maps"
)

// Constructor builds an element from options and attributes.
type Constructor func(opts Options, attrs Attrs) Element

// ElementType is one entry of the element registry: a constructor plus
// default options and attributes that the caller's arguments override.
type ElementType struct {
	New     Constructor
	Options Options
	Attrs   Attrs
}

// DecoratorConstructor builds a named decorator from options.
type DecoratorConstructor func(opts Options) (Decorator, error)

// Config is the configuration threaded through every element built by a
// Factory: default options and message templates, the element and
// decorator registries, the logger and the upload mover.
//
// A Config is treated as immutable once in use. The With* methods return a
// modified copy, so per-request customization never touches a shared
// Config:
//
//	cfg := formbuilder.DefaultConfig().
//	    WithDefaults(formbuilder.Options{"error:required": "Verplicht veld"}).
//	    WithLogger(logger)
//	f := formbuilder.NewFactory(cfg)
type Config struct {
	Defaults    Options
	Elements    map[string]ElementType
	Decorators  map[string]DecoratorConstructor
	Logger      *slog.Logger
	UploadMover UploadMover
}

// DefaultOptions returns the built-in option defaults.
func DefaultOptions() Options {
	return Options{
		"render":            true,
		"validation":        true,
		"validation-script": true,
		"add-hidden":        true,
		"label":             true,
		"container":         true,
		"required-suffix":   " *",

		"error:required":  "Please fill out this field",
		"error:type":      "Please enter a valid {{type}}",
		"error:min":       "Value must be greater or equal to {{min}}",
		"error:max":       "Value must be less or equal to {{max}}",
		"error:minlength": "Please use {{minlength}} characters or more for this text",
		"error:maxlength": "Please shorten this text to {{maxlength}} characters or less",
		"error:pattern":   "Please match the requested format",
		"error:match":     "Please match the value of {{match}}",
		"error:upload":    maps.Clone(uploadErrorText),
	}
}

func inputType(typ string) ElementType {
	return ElementType{New: newInput, Attrs: Attrs{"type": typ}}
}

func newInput(opts Options, attrs Attrs) Element { return NewInput(opts, attrs) }
func newTextarea(opts Options, attrs Attrs) Element { return NewTextarea(opts, attrs) }
func newSelect(opts Options, attrs Attrs) Element { return NewSelect(opts, attrs) }
func newChoiceList(opts Options, attrs Attrs) Element { return NewChoiceList(opts, attrs) }
func newButton(opts Options, attrs Attrs) Element { return NewButton(opts, attrs) }
func newHyperlink(opts Options, attrs Attrs) Element { return NewHyperlink(opts, attrs) }
func newForm(opts Options, attrs Attrs) Element { return NewForm(opts, attrs) }
func newFieldset(opts Options, attrs Attrs) Element { return NewFieldset(opts, attrs) }
func newDiv(opts Options, attrs Attrs) Element { return NewDiv(opts, attrs) }

// DefaultElements returns the built-in element registry.
func DefaultElements() map[string]ElementType {
	types := map[string]ElementType{
		"form":     {New: newForm},
		"fieldset": {New: newFieldset},
		"div":      {New: newDiv},
		"link":     {New: newHyperlink},
		"button":   {New: newButton},
		"input":    {New: newInput},
		"textarea": {New: newTextarea},
		"select":   {New: newSelect},
		"choice":   {New: newChoiceList},
		"multi":    {New: newChoiceList, Options: Options{"multiple": true}},
		"boolean":  inputType("checkbox"),
		"datetime": inputType("datetime-local"),
		"decimal": {New: newInput, Attrs: Attrs{
			"type":      "text",
			"inputmode": "decimal",
			"pattern":   `-?\d+(\.\d+)?`,
		}},
	}
	for _, typ := range []string{
		"text", "hidden", "password", "search", "tel", "checkbox", "radio", "file",
		"color", "number", "range", "date", "datetime-local", "time", "month", "week",
		"url", "email", "submit", "reset",
	} {
		types[typ] = inputType(typ)
	}
	return types
}

// DefaultConfig returns a fresh configuration with the built-in options
// and element types and no decorators.
func DefaultConfig() *Config {
	return &Config{
		Defaults:   DefaultOptions(),
		Elements:   DefaultElements(),
		Decorators: map[string]DecoratorConstructor{},
	}
}

// Clone returns a copy whose maps can be changed independently.
func (c *Config) Clone() *Config {
	return &Config{
		Defaults:    c.Defaults.Clone(),
		Elements:    maps.Clone(c.Elements),
		Decorators:  maps.Clone(c.Decorators),
		Logger:      c.Logger,
		UploadMover: c.UploadMover,
	}
}

// WithDefaults returns a copy with opts overlaid on the default options.
func (c *Config) WithDefaults(opts Options) *Config {
	out := c.Clone()
	maps.Copy(out.Defaults, opts)
	return out
}

// WithElement returns a copy with the element type registered under name.
func (c *Config) WithElement(name string, t ElementType) *Config {
	out := c.Clone()
	if out.Elements == nil {
		out.Elements = make(map[string]ElementType)
	}
	out.Elements[name] = t
	return out
}

// WithDecorator returns a copy with the decorator registered under name.
func (c *Config) WithDecorator(name string, fn DecoratorConstructor) *Config {
	out := c.Clone()
	if out.Decorators == nil {
		out.Decorators = make(map[string]DecoratorConstructor)
	}
	out.Decorators[name] = fn
	return out
}

// WithLogger returns a copy that logs to logger.
func (c *Config) WithLogger(logger *slog.Logger) *Config {
	out := c.Clone()
	out.Logger = logger
	return out
}

// WithUploadMover returns a copy that stores uploads through mover.
func (c *Config) WithUploadMover(mover UploadMover) *Config {
	out := c.Clone()
	out.UploadMover = mover
	return out
}

// Validate checks the registries for entries without a constructor.
func (c *Config) Validate() error {
	if c.Defaults == nil {
		return &ConfigError{Op: "config", Name: "defaults", Err: ErrInvalidConfig}
	}
	for name, t := range c.Elements {
		if t.New == nil {
			return &ConfigError{Op: "config", Name: name, Err: ErrInvalidConfig}
		}
	}
	for name, fn := range c.Decorators {
		if fn == nil {
			return &ConfigError{Op: "config", Name: name, Err: ErrInvalidConfig}
		}
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Factory builds elements and decorators by type name.
type Factory struct {
	cfg *Config
}

// NewFactory creates a factory for cfg, or for DefaultConfig when cfg is
// nil. It panics with a *ConfigError when the registry is malformed.
func NewFactory(cfg *Config) *Factory {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &Factory{cfg: cfg}
}

// Config returns the factory's configuration.
func (f *Factory) Config() *Config {
	return f.cfg
}

// Element builds an element of the named type. The type's default options
// and attributes are overridden by opts and attrs. An unknown name returns
// a *ConfigError wrapping ErrUnknownType.
func (f *Factory) Element(typeName string, opts Options, attrs Attrs) (Element, error) {
	t, ok := f.cfg.Elements[typeName]
	if !ok {
		return nil, &ConfigError{Op: "element", Name: typeName, Err: ErrUnknownType}
	}
	merged := Attrs{}
	maps.Copy(merged, t.Attrs)
	maps.Copy(merged, attrs)

	el := t.New(t.Options.Merge(opts), merged)
	el.node().cfg = f.cfg
	f.cfg.logger().Debug("element created", "type", typeName, "name", el.Name())
	return el, nil
}

// MustElement is like Element but panics on an unknown type name.
func (f *Factory) MustElement(typeName string, opts Options, attrs Attrs) Element {
	el, err := f.Element(typeName, opts, attrs)
	if err != nil {
		panic(err)
	}
	return el
}

// Form builds a "form" element.
func (f *Factory) Form(opts Options, attrs Attrs) *Form {
	form, ok := f.MustElement("form", opts, attrs).(*Form)
	if !ok {
		configPanic("element", "form", ErrInvalidConfig)
	}
	return form
}

// Decorator builds a named decorator. An unknown name returns a
// *ConfigError wrapping ErrUnknownDecorator.
func (f *Factory) Decorator(name string, opts Options) (Decorator, error) {
	fn, ok := f.cfg.Decorators[name]
	if !ok {
		return nil, &ConfigError{Op: "decorator", Name: name, Err: ErrUnknownDecorator}
	}
	d, err := fn(opts)
	if err != nil {
		return nil, &ConfigError{Op: "decorator", Name: name, Err: err}
	}
	return d, nil
}

// MustDecorator is like Decorator but panics on error.
func (f *Factory) MustDecorator(name string, opts Options) Decorator {
	d, err := f.Decorator(name, opts)
	if err != nil {
		panic(err)
	}
	return d
}
