// Package decorator provides ready-made decorators for formbuilder trees:
// HTML tidying, indentation, Bootstrap markup and Prometheus validation
// metrics.
//
// Register them by name on a Config with Install, or attach them directly:
//
//	form.AddDecorator(decorator.NewBootstrap(), decorator.NewIndent())
package decorator

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pthm/formbuilder"
)

// Install returns a copy of cfg with the decorators of this package
// registered as "tidy", "indent", "bootstrap" and "metrics". The metrics
// decorator registers its collectors with reg the first time it is built
// and is shared afterwards; a nil reg uses prometheus.DefaultRegisterer.
func Install(cfg *formbuilder.Config, reg prometheus.Registerer) *formbuilder.Config {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	metrics := sync.OnceValue(func() *Metrics {
		return NewMetrics(reg, "formbuilder")
	})

	return cfg.
		WithDecorator("tidy", func(formbuilder.Options) (formbuilder.Decorator, error) {
			return NewTidy(), nil
		}).
		WithDecorator("indent", func(formbuilder.Options) (formbuilder.Decorator, error) {
			return NewIndent(), nil
		}).
		WithDecorator("bootstrap", func(opts formbuilder.Options) (formbuilder.Decorator, error) {
			return bootstrapFromOptions(opts)
		}).
		WithDecorator("metrics", func(formbuilder.Options) (formbuilder.Decorator, error) {
			return metrics(), nil
		})
}

func bootstrapFromOptions(opts formbuilder.Options) (formbuilder.Decorator, error) {
	version := 3
	switch v := opts["version"].(type) {
	case nil:
	case int:
		version = v
	case float64:
		version = int(v)
	default:
		return nil, fmt.Errorf("%w: bootstrap version %v", formbuilder.ErrInvalidConfig, v)
	}
	if version != 3 {
		return nil, fmt.Errorf("%w: only bootstrap version 3 is supported, got %d", formbuilder.ErrInvalidConfig, version)
	}
	b := NewBootstrap()
	if h, ok := opts["horizontal"].(bool); ok {
		b.Horizontal = h
	}
	return b, nil
}
