package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/pthm/formbuilder"
	"github.com/pthm/formbuilder/decorator"
	"github.com/pthm/formbuilder/upload"
)

// settings is the --config file:
//
//	options:
//	  error:required: Dit veld is verplicht
//	  required-suffix: ""
//	decorators:
//	  - name: bootstrap
//	    options: {horizontal: true}
//	  - name: indent
//	uploads: ./uploads
type settings struct {
	Options    map[string]any   `yaml:"options"`
	Decorators []decoratorEntry `yaml:"decorators"`
	Uploads    string           `yaml:"uploads"`
}

type decoratorEntry struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

func loadSettings(path string) (*settings, error) {
	s := &settings{}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// factory builds the form factory: built-in config, the decorator
// package registered, option overrides applied and, when configured, a
// disk upload mover.
func (s *settings) factory(logger *slog.Logger, reg prometheus.Registerer) (*formbuilder.Factory, error) {
	cfg := decorator.Install(formbuilder.DefaultConfig(), reg).
		WithLogger(logger).
		WithDefaults(formbuilder.Options(s.Options))
	if s.Uploads != "" {
		cfg = cfg.WithUploadMover(upload.NewDisk(s.Uploads, logger))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := formbuilder.NewFactory(cfg)

	for _, d := range s.Decorators {
		if _, err := f.Decorator(d.Name, d.Options); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// decorate attaches the configured decorators plus the extra names to form.
func (s *settings) decorate(f *formbuilder.Factory, form *formbuilder.Form, extra ...string) error {
	entries := append([]decoratorEntry(nil), s.Decorators...)
	for _, name := range extra {
		entries = append(entries, decoratorEntry{Name: name})
	}
	for _, d := range entries {
		dec, err := f.Decorator(d.Name, d.Options)
		if err != nil {
			return err
		}
		form.AddDecorator(dec)
	}
	return nil
}
