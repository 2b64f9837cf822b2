package mail

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de entrega usados como etiqueta.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Metrics contadores del despachador.
type Metrics struct {
	Deliveries *prometheus.CounterVec
}

// NewMetrics registra cuentas_mail_deliveries_total en reg (reusa el colector si ya existe).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cuentas",
		Subsystem: "mail",
		Name:      "deliveries_total",
		Help:      "Entregas de correo de verificación por resultado.",
	}, []string{"result"})

	if reg == nil {
		return &Metrics{Deliveries: deliveries}, nil
	}
	if err := reg.Register(deliveries); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("registrar métricas de correo: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("colector de correo existente con tipo %T", already.ExistingCollector)
		}
		deliveries = existing
	}
	return &Metrics{Deliveries: deliveries}, nil
}

func (m *Metrics) inc(result string) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(result).Inc()
}
