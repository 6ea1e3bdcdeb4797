package decorator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pthm/formbuilder"
)

// Metrics counts validation outcomes per form and field, and renders per
// form. It is deep: attach it to a form to observe every control in it.
type Metrics struct {
	formbuilder.BaseDecorator

	validations *prometheus.CounterVec
	renders     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. Like any
// promauto constructor it panics when the collectors are already
// registered, so build one Metrics per registry and share it.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BaseDecorator: formbuilder.BaseDecorator{Propagate: true},
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Number of control validations by form, field and result",
		}, []string{"form", "field", "result"}),
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Number of form renders",
		}, []string{"form"}),
	}
}

// Name identifies the decorator in logs.
func (*Metrics) Name() string { return "metrics" }

func (m *Metrics) IsValid(el formbuilder.Element, valid bool) bool {
	if _, ok := el.(formbuilder.Control); ok {
		m.validations.WithLabelValues(formName(el), el.Name(), result(valid)).Inc()
	}
	return valid
}

func (m *Metrics) Render(el formbuilder.Element, html string) string {
	if f, ok := el.(*formbuilder.Form); ok {
		m.renders.WithLabelValues(f.Name()).Inc()
	}
	return html
}

func formName(el formbuilder.Element) string {
	if f := el.Form(); f != nil {
		return f.Name()
	}
	return ""
}

func result(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
