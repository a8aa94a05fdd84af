// Package pipeline connects household storage to the insight engine: it
// loads files, scopes snapshots to a month, and caches reports per revision.
package pipeline

import (
	"time"

	"github.com/theirongolddev/budgetpulse/internal/insight"
	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultHorizon is how far ahead upcoming obligations are listed.
const DefaultHorizon = 30 * 24 * time.Hour

// Options controls how a snapshot is scoped before computing insights.
type Options struct {
	Month   time.Time // any instant inside the month to report on
	AllTime bool      // ignore Month and use every record
	Now     time.Time
	Horizon time.Duration
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Month.IsZero() {
		o.Month = o.Now
	}
	if o.Horizon <= 0 {
		o.Horizon = DefaultHorizon
	}
	o.Month = insight.MonthStart(o.Month)
	return o
}

// Report is everything a view needs for one period.
type Report struct {
	Revision      int64
	Month         time.Time
	AllTime       bool
	Scoped        model.Snapshot
	Insights      model.BudgetInsights
	Breakdown     model.HealthBreakdown
	Previous      model.BudgetInsights
	Comparison    model.MonthComparison
	Daily         []model.DailySpend
	Upcoming      []model.FuturePayment
	Uncategorized decimal.Decimal
}

// Analyze scopes the snapshot and computes the report for it.
func Analyze(snap model.Snapshot, opts Options) Report {
	opts = opts.withDefaults()

	r := Report{Month: opts.Month, AllTime: opts.AllTime}
	if opts.AllTime {
		r.Scoped = snap
	} else {
		r.Scoped = insight.ForMonth(snap, opts.Month)
	}

	r.Insights = insight.Compute(r.Scoped)
	r.Breakdown = insight.Health(r.Insights)
	r.Uncategorized = insight.Uncategorized(r.Scoped.Categories, r.Scoped.Expenses)
	r.Upcoming = insight.UpcomingObligations(snap, opts.Now, opts.Horizon)

	if opts.AllTime {
		return r
	}

	r.Daily = insight.DailySpend(r.Scoped.Expenses, opts.Month)

	prevScoped := insight.ForMonth(snap, opts.Month.AddDate(0, -1, 0))
	if len(prevScoped.Expenses) > 0 || len(prevScoped.Incomes) > 0 {
		r.Previous = insight.Compute(prevScoped)
		r.Comparison = insight.Compare(r.Insights, r.Previous)
	}

	return r
}
