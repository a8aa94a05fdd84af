package pipeline

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/shopspring/decimal"
)

func largeSnapshot(n int) model.Snapshot {
	rng := rand.New(rand.NewSource(7))
	s := model.Snapshot{MonthlyBudget: decimal.NewFromInt(5000)}
	for i := 0; i < 20; i++ {
		s.Categories = append(s.Categories, model.Category{
			ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Cat %d", i), Budget: decimal.NewFromInt(int64(100 + i*10)),
		})
	}
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < n; i++ {
		s.Expenses = append(s.Expenses, model.Expense{
			ID:       fmt.Sprintf("e%d", i),
			Amount:   decimal.New(rng.Int63n(20000), -2),
			Category: model.ByID(fmt.Sprintf("c%d", rng.Intn(20))),
			Date:     start.AddDate(0, 0, rng.Intn(365)),
		})
	}
	return s
}

func BenchmarkAnalyze(b *testing.B) {
	snap := largeSnapshot(20000)
	opts := Options{Month: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Analyze(snap, opts)
	}
}

func BenchmarkAnalyzeAllTime(b *testing.B) {
	snap := largeSnapshot(20000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Analyze(snap, Options{AllTime: true})
	}
}
