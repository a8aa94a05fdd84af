package daemon

import (
	"github.com/theirongolddev/budgetpulse/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "budgetpulse"

type metrics struct {
	registry *prometheus.Registry

	income         prometheus.Gauge
	expenses       prometheus.Gauge
	balance        prometheus.Gauge
	obligations    prometheus.Gauge
	savingsPercent prometheus.Gauge
	healthScore    prometheus.Gauge
	revision       prometheus.Gauge
	categoryUsed   *prometheus.GaugeVec
	subscribers    prometheus.Gauge

	polls         prometheus.Counter
	pollErrors    prometheus.Counter
	publishErrors prometheus.Counter
	events        *prometheus.CounterVec
}

func newMetrics() *metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &metrics{
		registry:       prometheus.NewRegistry(),
		income:         gauge("income", "Total income for the current month."),
		expenses:       gauge("expenses", "Total expenses for the current month."),
		balance:        gauge("available_balance", "Income minus expenses for the current month."),
		obligations:    gauge("obligations", "Unpaid future payments plus minimum debt payments."),
		savingsPercent: gauge("savings_progress_percent", "Savings across all goals as a percentage of target."),
		healthScore:    gauge("health_score", "Financial health score from 0 to 100."),
		revision:       gauge("store_revision", "Household revision the insights were computed from."),
		subscribers:    gauge("stream_subscribers", "Connected SSE subscribers."),
		categoryUsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_percent_used",
			Help:      "Share of each category budget spent this month.",
		}, []string{"category"}),
		polls:         counter("polls_total", "Store polls performed."),
		pollErrors:    counter("poll_errors_total", "Store polls that failed."),
		publishErrors: counter("publish_errors_total", "Insight messages the broker rejected."),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Insight events emitted, by type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.income, m.expenses, m.balance, m.obligations, m.savingsPercent,
		m.healthScore, m.revision, m.subscribers, m.categoryUsed,
		m.polls, m.pollErrors, m.publishErrors, m.events,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) observe(r pipeline.Report) {
	in := r.Insights
	m.income.Set(in.TotalIncome.InexactFloat64())
	m.expenses.Set(in.TotalExpenses.InexactFloat64())
	m.balance.Set(in.AvailableBalance.InexactFloat64())
	m.obligations.Set(in.TotalObligations.InexactFloat64())
	m.savingsPercent.Set(in.SavingsProgress.Percentage)
	m.healthScore.Set(float64(in.HealthScore))
	m.revision.Set(float64(r.Revision))

	m.categoryUsed.Reset()
	for _, c := range in.Categories {
		m.categoryUsed.WithLabelValues(c.Name).Set(c.PercentUsed)
	}
}
