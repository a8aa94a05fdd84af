package pipeline

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/budgetpulse/internal/model"
	"github.com/theirongolddev/budgetpulse/internal/source"
)

// FileResult is the parse outcome for one household file.
type FileResult struct {
	Path string
	source.ParseResult
}

// LoadResult holds the output of loading a set of household files.
type LoadResult struct {
	Files       []FileResult
	Snapshot    model.Snapshot
	Currency    string
	Warnings    []string
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
}

// Err returns the first file error, or nil if every file parsed.
func (r *LoadResult) Err() error {
	for _, f := range r.Files {
		if f.Err != nil {
			return fmt.Errorf("%s: %w", f.Path, f.Err)
		}
	}
	return nil
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadDir discovers household files in dir and loads them.
func LoadDir(dir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return LoadFiles(paths, progressFn), nil
}

// LoadFiles parses household files with a bounded worker pool and merges
// the valid ones in path order.
func LoadFiles(paths []string, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalFiles: len(paths)}
	if len(paths) == 0 {
		return result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	results := make([]FileResult, len(paths))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range paths {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = FileResult{Path: paths[idx], ParseResult: source.ParseFile(paths[idx])}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(paths))
				}
			}
		}()
	}

	wg.Wait()

	result.Files = results
	var snaps []model.Snapshot
	for _, fr := range results {
		if fr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		snaps = append(snaps, fr.Snapshot)
		if fr.Currency != "" {
			result.Currency = fr.Currency
		}
		name := filepath.Base(fr.Path)
		for _, w := range fr.Warnings {
			result.Warnings = append(result.Warnings, name+": "+w)
		}
	}
	result.Snapshot = MergeSnapshots(snaps...)

	return result
}

// MergeSnapshots joins snapshots in order. Later non-zero monthly budgets
// win, and a category name seen again takes the later budget while keeping
// the first ID.
func MergeSnapshots(snaps ...model.Snapshot) model.Snapshot {
	var out model.Snapshot
	catIdx := make(map[string]int)
	idRemap := make(map[string]string)

	for _, s := range snaps {
		if !s.MonthlyBudget.IsZero() {
			out.MonthlyBudget = s.MonthlyBudget
		}
		for _, c := range s.Categories {
			if i, ok := catIdx[c.Name]; ok {
				out.Categories[i].Budget = c.Budget
				if c.ID != out.Categories[i].ID {
					idRemap[c.ID] = out.Categories[i].ID
				}
				continue
			}
			catIdx[c.Name] = len(out.Categories)
			out.Categories = append(out.Categories, c)
		}
		for _, e := range s.Expenses {
			if e.Category.Kind == model.RefByID {
				if id, ok := idRemap[e.Category.Value]; ok {
					e.Category = model.ByID(id)
				}
			}
			out.Expenses = append(out.Expenses, e)
		}
		out.Incomes = append(out.Incomes, s.Incomes...)
		out.SavingsGoals = append(out.SavingsGoals, s.SavingsGoals...)
		out.FuturePayments = append(out.FuturePayments, s.FuturePayments...)
		out.Debts = append(out.Debts, s.Debts...)
	}
	return out
}
