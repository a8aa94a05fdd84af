package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetpulse/internal/model"
)

const sampleTOML = `
[household]
monthly_budget = 3200
currency = "EUR"

[[category]]
id = "cat-food"
name = "Food"
budget = "450.00"

[[category]]
name = "Rent"
budget = 1200

[[income]]
name = "Freelance"
amount = 300.5
date = 2025-06-03

[[expense]]
description = "Groceries"
amount = "82.40"
category = "Food"
date = "2025-06-02"

[[expense]]
description = "June rent"
amount = 1200
category = "cat-food"
date = "2025-06-01"

[[expense]]
description = "Cinema"
amount = 24
category = "Fodo"
date = "2025-06-07"

[[goal]]
name = "Holiday"
target = 2000
current = 650
deadline = "2025-12-01"

[[payment]]
description = "Car insurance"
amount = 540
due = "2025-07-15"

[[debt]]
name = "Credit card"
balance = 1800
minimum_payment = 90
interest_rate = 19.9
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_TOML(t *testing.T) {
	result := ParseFile(writeFile(t, "home.toml", sampleTOML))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	s := result.Snapshot

	if result.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", result.Currency)
	}
	if s.MonthlyBudget.String() != "3200" {
		t.Errorf("MonthlyBudget = %s, want 3200", s.MonthlyBudget)
	}
	if len(s.Categories) != 2 || s.Categories[1].ID == "" {
		t.Fatalf("Categories = %+v, want two with IDs", s.Categories)
	}
	if got := s.Incomes[0].Amount.String(); got != "300.5" {
		t.Errorf("income amount = %s, want 300.5", got)
	}
	if s.Incomes[0].Date.Day() != 3 {
		t.Errorf("income date = %v, want June 3", s.Incomes[0].Date)
	}

	if s.Expenses[0].Category != model.ByName("Food") {
		t.Errorf("expense 0 ref = %v, want name:Food", s.Expenses[0].Category)
	}
	if s.Expenses[1].Category != model.ByID("cat-food") {
		t.Errorf("expense 1 ref = %v, want id:cat-food", s.Expenses[1].Category)
	}
	if s.SavingsGoals[0].Deadline == nil {
		t.Error("goal deadline not parsed")
	}
	if s.Debts[0].InterestRate.String() != "19.9" {
		t.Errorf("interest rate = %s, want 19.9", s.Debts[0].InterestRate)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %q, want one", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], `did you mean "Food"`) {
		t.Errorf("warning %q lacks suggestion", result.Warnings[0])
	}
}

func TestParse_JSON(t *testing.T) {
	doc := `{
		"household": {"monthly_budget": "1500"},
		"category": [{"name": "Food", "budget": 300}],
		"expense": [{"description": "Lunch", "amount": 12.5, "category": "Food", "date": "2025-06-04"}]
	}`
	result := Parse(strings.NewReader(doc), FormatJSON)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %q", result.Warnings)
	}
	if got := result.Snapshot.Expenses[0].Amount.String(); got != "12.5" {
		t.Errorf("amount = %s, want 12.5", got)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "negative expense",
			doc:  "[[expense]]\ndescription = \"Refund\"\namount = -5\ndate = \"2025-06-01\"\n",
			want: ErrNegativeAmount,
		},
		{
			name: "duplicate category",
			doc:  "[[category]]\nname = \"Food\"\n[[category]]\nname = \"Food\"\n",
			want: ErrDuplicateCategory,
		},
		{
			name: "empty category name",
			doc:  "[[category]]\nname = \"  \"\n",
			want: ErrEmptyName,
		},
		{
			name: "bad date",
			doc:  "[[payment]]\ndescription = \"Tax\"\namount = 10\ndue = \"15/07/2025\"\n",
			want: ErrInvalidDate,
		},
		{
			name: "bad amount",
			doc:  "[household]\nmonthly_budget = \"lots\"\n",
			want: ErrInvalidAmount,
		},
		{
			name: "exponent amount",
			doc:  "[[expense]]\ndescription = \"Oops\"\namount = \"1e300000000\"\ndate = \"2025-06-01\"\n",
			want: ErrInvalidAmount,
		},
		{
			name: "huge float amount",
			doc:  "[[expense]]\ndescription = \"Oops\"\namount = 1e300\ndate = \"2025-06-01\"\n",
			want: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(strings.NewReader(tt.doc), FormatTOML)
			if !errors.Is(result.Err, tt.want) {
				t.Fatalf("err = %v, want %v", result.Err, tt.want)
			}
		})
	}
}

func TestParse_UnknownKeysRejected(t *testing.T) {
	result := Parse(strings.NewReader("[household]\nmonthly_budgett = 10\n"), FormatTOML)
	if result.Err == nil || !strings.Contains(result.Err.Error(), "monthly_budgett") {
		t.Fatalf("err = %v, want unknown key error", result.Err)
	}
}

func TestBuild_StableGeneratedIDs(t *testing.T) {
	raw := RawHousehold{Categories: []RawCategory{{Name: "Food"}, {Name: "Rent"}}}
	a, _, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	if a.Categories[0].ID != b.Categories[0].ID {
		t.Errorf("generated IDs differ between builds: %s vs %s", a.Categories[0].ID, b.Categories[0].ID)
	}
	if a.Categories[0].ID == a.Categories[1].ID {
		t.Error("distinct records share a generated ID")
	}
}

func TestBuild_IDsFollowRecordContent(t *testing.T) {
	jan := RawHousehold{Expenses: []RawExpense{{Description: "Groceries", Amount: "120", Category: "Food", Date: "2026-01-05"}}}
	feb := RawHousehold{Expenses: []RawExpense{{Description: "Groceries", Amount: "80", Category: "Food", Date: "2026-02-07"}}}

	a, _, err := Build(jan)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Build(feb)
	if err != nil {
		t.Fatal(err)
	}
	if a.Expenses[0].ID == b.Expenses[0].ID {
		t.Errorf("expenses from different files share ID %s", a.Expenses[0].ID)
	}

	again, _, err := Build(jan)
	if err != nil {
		t.Fatal(err)
	}
	if again.Expenses[0].ID != a.Expenses[0].ID {
		t.Errorf("re-building the same file changed the ID: %s vs %s", again.Expenses[0].ID, a.Expenses[0].ID)
	}

	twins := RawHousehold{Expenses: []RawExpense{
		{Description: "Coffee", Amount: "3", Category: "Food", Date: "2026-01-05"},
		{Description: "Coffee", Amount: "3", Category: "Food", Date: "2026-01-05"},
	}}
	c, _, err := Build(twins)
	if err != nil {
		t.Fatal(err)
	}
	if c.Expenses[0].ID == c.Expenses[1].ID {
		t.Error("two identical expenses in one file collapsed into one ID")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{in: "12.50", want: "12.5"},
		{in: "1,234.56", want: "1234.56"},
		{in: "1_000", want: "1000"},
		{in: "0.0001", want: "0.0001"},
		{in: "999999999999.99", want: "999999999999.99"},
		{in: "", err: ErrInvalidAmount},
		{in: "-3", err: ErrNegativeAmount},
		{in: "1e3", err: ErrInvalidAmount},
		{in: "1E300000000", err: ErrInvalidAmount},
		{in: "0.00001", err: ErrInvalidAmount},
		{in: strings.Repeat("9", 40), err: ErrInvalidAmount},
		{in: "1000000000000", err: ErrAmountOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("ParseAmount(%q) err = %v, want %v", tt.in, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteThenParse(t *testing.T) {
	first := ParseFile(writeFile(t, "home.toml", sampleTOML))
	if first.Err != nil {
		t.Fatal(first.Err)
	}

	for _, format := range []Format{FormatTOML, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, first.Snapshot, first.Currency, format); err != nil {
				t.Fatalf("Write: %v", err)
			}
			again := Parse(&buf, format)
			if again.Err != nil {
				t.Fatalf("Parse: %v\n%s", again.Err, buf.String())
			}
			if len(again.Snapshot.Expenses) != len(first.Snapshot.Expenses) {
				t.Fatalf("expenses = %d, want %d", len(again.Snapshot.Expenses), len(first.Snapshot.Expenses))
			}
			for i, e := range again.Snapshot.Expenses {
				want := first.Snapshot.Expenses[i]
				if e.ID != want.ID || e.Category != want.Category || !e.Amount.Equal(want.Amount) {
					t.Errorf("expense %d = %+v, want %+v", i, e, want)
				}
			}
			if !again.Snapshot.Debts[0].MinimumPayment.Equal(first.Snapshot.Debts[0].MinimumPayment) {
				t.Errorf("debt minimum changed on round trip")
			}
		})
	}
}

func TestResolveCategoryRef(t *testing.T) {
	cats := []model.Category{
		{ID: "c-1", Name: "Groceries"},
		{ID: "c-2", Name: "Transport"},
	}

	tests := []struct {
		raw      string
		want     model.CategoryRef
		wantWarn string
	}{
		{"c-2", model.ByID("c-2"), ""},
		{"Groceries", model.ByName("Groceries"), ""},
		{"Grocries", model.ByName("Grocries"), `did you mean "Groceries"`},
		{"Holidays", model.ByName("Holidays"), "unknown category"},
		{"", model.ByName(""), "no category"},
	}
	for _, tt := range tests {
		ref, warn := ResolveCategoryRef(tt.raw, cats)
		if ref != tt.want {
			t.Errorf("ResolveCategoryRef(%q) = %v, want %v", tt.raw, ref, tt.want)
		}
		if tt.wantWarn == "" && warn != "" {
			t.Errorf("ResolveCategoryRef(%q) warned %q", tt.raw, warn)
		}
		if tt.wantWarn != "" && !strings.Contains(warn, tt.wantWarn) {
			t.Errorf("ResolveCategoryRef(%q) warning = %q, want it to contain %q", tt.raw, warn, tt.wantWarn)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.json", "notes.txt", ".hidden.toml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.toml"), 0o750); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %+v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "a.json" || files[0].Format != FormatJSON {
		t.Errorf("files[0] = %+v, want a.json", files[0])
	}
	if filepath.Base(files[1].Path) != "b.toml" || files[1].Format != FormatTOML {
		t.Errorf("files[1] = %+v, want b.toml", files[1])
	}

	missing, err := ScanDir(filepath.Join(dir, "nope"))
	if err != nil || missing != nil {
		t.Errorf("ScanDir(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func FuzzParseAmount(f *testing.F) {
	for _, seed := range []string{"0", "12.50", "1,234.56", "1_000", "-3", "abc", "", "1e300000000", "0.000001"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		d, err := ParseAmount(s)
		if err != nil {
			return
		}
		if d.IsNegative() {
			t.Fatalf("ParseAmount(%q) = %s, accepted a negative amount", s, d)
		}
		if n := len(d.String()); n > maxAmountLen {
			t.Fatalf("ParseAmount(%q) renders to %d chars", s, n)
		}
	})
}
