package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"
	"github.com/theirongolddev/budgetpulse/internal/store"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		MonthlyBudget: decimal.NewFromInt(2000),
		Categories:    []model.Category{{ID: "food", Name: "Food", Budget: decimal.NewFromInt(300)}},
		Expenses: []model.Expense{
			{ID: "a", Amount: decimal.NewFromInt(100), Category: model.ByID("food"), Date: day(2026, time.February, 10)},
			{ID: "b", Amount: decimal.NewFromInt(250), Category: model.ByID("food"), Date: day(2026, time.March, 5)},
			{ID: "c", Amount: decimal.NewFromInt(50), Category: model.ByName("Misc"), Date: day(2026, time.March, 6)},
		},
		FuturePayments: []model.FuturePayment{
			{ID: "p1", Amount: decimal.NewFromInt(80), DueDate: day(2026, time.March, 20)},
			{ID: "p2", Amount: decimal.NewFromInt(80), DueDate: day(2026, time.June, 20)},
		},
	}
}

func TestAnalyze_ScopesToMonth(t *testing.T) {
	r := Analyze(sampleSnapshot(), Options{Month: day(2026, time.March, 15), Now: day(2026, time.March, 15)})

	if !r.Month.Equal(day(2026, time.March, 1)) {
		t.Errorf("Month = %v, want March 1", r.Month)
	}
	if !r.Insights.TotalExpenses.Equal(decimal.NewFromInt(300)) {
		t.Errorf("TotalExpenses = %s, want 300", r.Insights.TotalExpenses)
	}
	if !r.Uncategorized.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Uncategorized = %s, want 50", r.Uncategorized)
	}
	if len(r.Daily) != 31 {
		t.Errorf("Daily = %d days, want 31", len(r.Daily))
	}
	if !r.Comparison.HasPrevious {
		t.Fatal("expected a previous-month comparison")
	}
	if !r.Comparison.ExpensesDelta.Equal(decimal.NewFromInt(200)) {
		t.Errorf("ExpensesDelta = %s, want 200", r.Comparison.ExpensesDelta)
	}
	if len(r.Upcoming) != 1 || r.Upcoming[0].ID != "p1" {
		t.Errorf("Upcoming = %+v, want only p1", r.Upcoming)
	}
	if r.Breakdown.Score != r.Insights.HealthScore {
		t.Errorf("breakdown score %d != insights score %d", r.Breakdown.Score, r.Insights.HealthScore)
	}
}

func TestAnalyze_AllTime(t *testing.T) {
	r := Analyze(sampleSnapshot(), Options{AllTime: true, Now: day(2026, time.March, 15)})
	if !r.Insights.TotalExpenses.Equal(decimal.NewFromInt(400)) {
		t.Errorf("TotalExpenses = %s, want 400", r.Insights.TotalExpenses)
	}
	if r.Daily != nil || r.Comparison.HasPrevious {
		t.Error("all-time report should have no daily series or comparison")
	}
}

func TestAnalyze_NoPreviousMonth(t *testing.T) {
	r := Analyze(sampleSnapshot(), Options{Month: day(2026, time.February, 1), Now: day(2026, time.February, 1)})
	if r.Comparison.HasPrevious {
		t.Error("January has no records, comparison should be empty")
	}
}

type fakeSource struct {
	rev   int64
	snap  model.Snapshot
	loads int
}

func (f *fakeSource) Revision(context.Context) (int64, error) { return f.rev, nil }

func (f *fakeSource) LoadSnapshot(context.Context) (model.Snapshot, error) {
	f.loads++
	return f.snap, nil
}

func TestWatcher_RecomputesOnRevision(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{rev: 1, snap: sampleSnapshot()}
	w := NewWatcher(src)
	opts := Options{Month: day(2026, time.March, 1), Now: day(2026, time.March, 15)}

	if _, changed, err := w.Report(ctx, opts); err != nil || !changed {
		t.Fatalf("first Report changed=%v err=%v", changed, err)
	}
	if _, changed, _ := w.Report(ctx, opts); changed {
		t.Error("same revision should hit the cache")
	}
	if src.loads != 1 {
		t.Errorf("loads = %d, want 1", src.loads)
	}

	src.rev = 2
	r, changed, _ := w.Report(ctx, opts)
	if !changed || r.Revision != 2 {
		t.Errorf("changed=%v revision=%d after write", changed, r.Revision)
	}

	opts.Month = day(2026, time.February, 1)
	if _, changed, _ := w.Report(ctx, opts); !changed {
		t.Error("changing month should recompute")
	}

	w.Invalidate()
	if _, changed, _ := w.Report(ctx, opts); !changed {
		t.Error("Invalidate should force a recompute")
	}
}

func TestLoadDir_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.toml": `[household]
monthly_budget = "1000"

[[category]]
id = "food"
name = "Food"
budget = "200"

[[expense]]
description = "market"
amount = "30"
category = "food"
date = "2026-03-02"
`,
		"b.toml": `[[category]]
id = "food-2"
name = "Food"
budget = "250"

[[expense]]
description = "bakery"
amount = "12.50"
category = "food-2"
date = "2026-03-03"
`,
		"broken.json": `{"household": {"monthly_budget": "-5"}}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var calls int
	res, err := LoadDir(dir, func(current, total int) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 3 || res.ParsedFiles != 2 || res.FileErrors != 1 {
		t.Errorf("files total=%d parsed=%d errors=%d", res.TotalFiles, res.ParsedFiles, res.FileErrors)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	if res.Err() == nil {
		t.Error("Err() should report the broken file")
	}

	snap := res.Snapshot
	if len(snap.Categories) != 1 || !snap.Categories[0].Budget.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("categories = %+v, want one Food with budget 250", snap.Categories)
	}
	for _, e := range snap.Expenses {
		if e.Category != model.ByID("food") {
			t.Errorf("expense %q ref = %v, want id:food", e.Description, e.Category)
		}
	}
	if !snap.MonthlyBudget.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("MonthlyBudget = %s, want 1000", snap.MonthlyBudget)
	}
}

func TestLoadDir_ImportKeepsSameSlotRecords(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"jan.toml": "[[expense]]\ndescription = \"Groceries\"\namount = \"120\"\ncategory = \"Food\"\ndate = \"2026-01-05\"\n",
		"feb.toml": "[[expense]]\ndescription = \"Groceries\"\namount = \"80\"\ncategory = \"Food\"\ndate = \"2026-02-07\"\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	res, err := LoadDir(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Snapshot.Expenses) != 2 {
		t.Fatalf("merged expenses = %d, want 2", len(res.Snapshot.Expenses))
	}

	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "household.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	for range 2 {
		stats, err := st.Import(ctx, res.Snapshot, false)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Expenses != 2 {
			t.Errorf("import wrote %d expenses, want 2", stats.Expenses)
		}
		snap, err := st.LoadSnapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(snap.Expenses) != 2 {
			t.Fatalf("store holds %d expenses, want 2", len(snap.Expenses))
		}
		total := snap.Expenses[0].Amount.Add(snap.Expenses[1].Amount)
		if !total.Equal(decimal.NewFromInt(200)) {
			t.Errorf("stored total = %s, want 200", total)
		}
	}
}
