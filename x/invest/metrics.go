package invest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the business activity of this extension. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	proposals     prometheus.Counter
	investments   prometheus.Counter
	escrowed      prometheus.Counter
	distributions prometheus.Counter
	paid          prometheus.Counter
}

// NewMetrics registers investment metrics with given registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: "crowdvest",
			Subsystem: "invest",
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		proposals:     counter("proposals_created_total", "number of created proposals"),
		investments:   counter("investments_total", "number of investments made"),
		escrowed:      counter("escrowed_amount_total", "funds moved into proposal escrows"),
		distributions: counter("distributions_total", "number of completed reward distributions"),
		paid:          counter("paid_amount_total", "funds paid out to investors"),
	}
}

func (m *Metrics) proposalCreated() {
	if m == nil {
		return
	}
	m.proposals.Inc()
}

func (m *Metrics) invested(amount uint64) {
	if m == nil {
		return
	}
	m.investments.Inc()
	m.escrowed.Add(float64(amount))
}

func (m *Metrics) distributed(paid uint64) {
	if m == nil {
		return
	}
	m.distributions.Inc()
	m.paid.Add(float64(paid))
}
