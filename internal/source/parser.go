// Package source reads household files and turns them into validated snapshots.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Amount limits. Inputs are length-checked before parsing so a hostile
// value never reaches big-number arithmetic.
const (
	maxAmountLen      = 32
	maxFractionDigits = 4
)

var maxAmount = decimal.New(1, 12)

// Validation errors. Wrapped errors name the offending record.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrAmountOutOfRange  = errors.New("amount out of range")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrDuplicateCategory = errors.New("duplicate category name")
	ErrInvalidDate       = errors.New("invalid date, want YYYY-MM-DD")
	ErrUnsupportedFormat = errors.New("unsupported household file format")
)

// importNamespace seeds deterministic IDs for records that arrive without one,
// so re-importing the same file yields the same IDs.
var importNamespace = uuid.MustParse("6f1b8a52-4d0e-4c1e-9a57-3f0c2e8d7b10")

// ParseResult holds the output of parsing a household file.
type ParseResult struct {
	Snapshot model.Snapshot
	Currency string
	Warnings []string
	Err      error
}

// ParseFile reads and validates a household file. The format is chosen by
// file extension.
func ParseFile(path string) ParseResult {
	format, err := FormatFromPath(path)
	if err != nil {
		return ParseResult{Err: err}
	}

	//nolint:gosec // household path is supplied by the local user
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(f, format)
}

// Parse decodes and validates a household document.
func Parse(r io.Reader, format Format) ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading household: %w", err)}
	}

	var raw RawHousehold
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return ParseResult{Err: fmt.Errorf("parsing json household: %w", err)}
		}
	default:
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return ParseResult{Err: fmt.Errorf("parsing toml household: %w", err)}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return ParseResult{Err: fmt.Errorf("parsing toml household: unknown keys %s", strings.Join(keys, ", "))}
		}
	}

	snap, warnings, err := Build(raw)
	return ParseResult{
		Snapshot: snap,
		Currency: raw.Household.Currency,
		Warnings: warnings,
		Err:      err,
	}
}

// Build validates raw records and converts them into a snapshot. Expense
// categories are resolved against the file's own categories.
func Build(raw RawHousehold) (model.Snapshot, []string, error) {
	var (
		s        model.Snapshot
		warnings []string
		err      error
	)

	if raw.Household.MonthlyBudget == "" {
		s.MonthlyBudget = decimal.Zero
	} else if s.MonthlyBudget, err = ParseAmount(string(raw.Household.MonthlyBudget)); err != nil {
		return model.Snapshot{}, nil, fmt.Errorf("household monthly_budget: %w", err)
	}

	seen := make(map[string]struct{}, len(raw.Categories))
	for i, rc := range raw.Categories {
		name := strings.TrimSpace(rc.Name)
		if name == "" {
			return model.Snapshot{}, nil, fmt.Errorf("category %d: %w", i+1, ErrEmptyName)
		}
		if _, dup := seen[name]; dup {
			return model.Snapshot{}, nil, fmt.Errorf("category %q: %w", name, ErrDuplicateCategory)
		}
		seen[name] = struct{}{}

		budget, err := parseOptionalAmount(rc.Budget)
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("category %q budget: %w", name, err)
		}
		s.Categories = append(s.Categories, model.Category{
			ID:     idOr(rc.ID, "category", name),
			Name:   name,
			Budget: budget,
		})
	}

	for i, ri := range raw.Incomes {
		name := strings.TrimSpace(ri.Name)
		if name == "" {
			return model.Snapshot{}, nil, fmt.Errorf("income %d: %w", i+1, ErrEmptyName)
		}
		amount, err := ParseAmount(string(ri.Amount))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("income %q amount: %w", name, err)
		}
		date, err := ParseDate(string(ri.Date))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("income %q date: %w", name, err)
		}
		s.Incomes = append(s.Incomes, model.AdditionalIncome{
			ID:     idOr(ri.ID, "income", strconv.Itoa(i), name, date.Format(dateLayout), amount.String()),
			Name:   name,
			Amount: amount,
			Date:   date,
		})
	}

	for i, re := range raw.Expenses {
		desc := strings.TrimSpace(re.Description)
		label := desc
		if label == "" {
			label = "#" + strconv.Itoa(i+1)
		}
		amount, err := ParseAmount(string(re.Amount))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("expense %q amount: %w", label, err)
		}
		date, err := ParseDate(string(re.Date))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("expense %q date: %w", label, err)
		}
		ref, warn := ResolveCategoryRef(re.Category, s.Categories)
		if warn != "" {
			warnings = append(warnings, fmt.Sprintf("expense %q: %s", label, warn))
		}
		s.Expenses = append(s.Expenses, model.Expense{
			ID:          idOr(re.ID, "expense", strconv.Itoa(i), desc, date.Format(dateLayout), amount.String(), strings.TrimSpace(re.Category)),
			Description: desc,
			Amount:      amount,
			Category:    ref,
			Date:        date,
		})
	}

	for i, rg := range raw.Goals {
		name := strings.TrimSpace(rg.Name)
		if name == "" {
			return model.Snapshot{}, nil, fmt.Errorf("goal %d: %w", i+1, ErrEmptyName)
		}
		target, err := ParseAmount(string(rg.Target))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("goal %q target: %w", name, err)
		}
		current, err := parseOptionalAmount(rg.Current)
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("goal %q current: %w", name, err)
		}
		goal := model.SavingsGoal{
			ID:            idOr(rg.ID, "goal", strconv.Itoa(i), name),
			Name:          name,
			TargetAmount:  target,
			CurrentAmount: current,
		}
		if rg.Deadline != "" {
			deadline, err := ParseDate(string(rg.Deadline))
			if err != nil {
				return model.Snapshot{}, nil, fmt.Errorf("goal %q deadline: %w", name, err)
			}
			goal.Deadline = &deadline
		}
		s.SavingsGoals = append(s.SavingsGoals, goal)
	}

	for i, rp := range raw.Payments {
		desc := strings.TrimSpace(rp.Description)
		if desc == "" {
			return model.Snapshot{}, nil, fmt.Errorf("payment %d: %w", i+1, ErrEmptyName)
		}
		amount, err := ParseAmount(string(rp.Amount))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("payment %q amount: %w", desc, err)
		}
		due, err := ParseDate(string(rp.Due))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("payment %q due: %w", desc, err)
		}
		s.FuturePayments = append(s.FuturePayments, model.FuturePayment{
			ID:          idOr(rp.ID, "payment", strconv.Itoa(i), desc, due.Format(dateLayout), amount.String()),
			Description: desc,
			Amount:      amount,
			DueDate:     due,
			IsPaid:      rp.Paid,
		})
	}

	for i, rd := range raw.Debts {
		name := strings.TrimSpace(rd.Name)
		if name == "" {
			return model.Snapshot{}, nil, fmt.Errorf("debt %d: %w", i+1, ErrEmptyName)
		}
		balance, err := parseOptionalAmount(rd.Balance)
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("debt %q balance: %w", name, err)
		}
		minimum, err := ParseAmount(string(rd.MinimumPayment))
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("debt %q minimum_payment: %w", name, err)
		}
		rate, err := parseOptionalAmount(rd.InterestRate)
		if err != nil {
			return model.Snapshot{}, nil, fmt.Errorf("debt %q interest_rate: %w", name, err)
		}
		s.Debts = append(s.Debts, model.Debt{
			ID:             idOr(rd.ID, "debt", strconv.Itoa(i), name),
			Name:           name,
			Balance:        balance,
			MinimumPayment: minimum,
			InterestRate:   rate,
		})
	}

	return s, warnings, nil
}

// ParseAmount parses a non-negative decimal amount. Thousands separators
// written as "_" or "," are accepted. Exponent notation, more than four
// decimal places and values of a trillion or more are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("_", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if len(cleaned) > maxAmountLen || strings.ContainsAny(cleaned, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, truncateInput(s))
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeAmount, d)
	}
	if !d.Equal(d.Truncate(maxFractionDigits)) {
		return decimal.Zero, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d, maxFractionDigits)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAmountOutOfRange, d)
	}
	return d, nil
}

func truncateInput(s string) string {
	if len(s) <= maxAmountLen {
		return s
	}
	return s[:maxAmountLen] + "..."
}

func parseOptionalAmount(a Amount) (decimal.Decimal, error) {
	if a == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(string(a))
}

// ParseDate parses a YYYY-MM-DD date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// idOr returns id when set, otherwise a stable ID derived from the record's
// kind and content. Identical records yield identical IDs, so re-importing a
// file upserts instead of duplicating.
func idOr(id, kind string, parts ...string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	key := kind + "\x00" + strings.Join(parts, "\x00")
	return uuid.NewSHA1(importNamespace, []byte(key)).String()
}
