package source

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawHousehold is the on-disk shape of a household file. TOML files use
// [household] plus arrays of tables; JSON files use the same keys.
type RawHousehold struct {
	Household  RawHeader     `toml:"household" json:"household"`
	Categories []RawCategory `toml:"category,omitempty" json:"category,omitempty"`
	Incomes    []RawIncome   `toml:"income,omitempty" json:"income,omitempty"`
	Expenses   []RawExpense  `toml:"expense,omitempty" json:"expense,omitempty"`
	Goals      []RawGoal     `toml:"goal,omitempty" json:"goal,omitempty"`
	Payments   []RawPayment  `toml:"payment,omitempty" json:"payment,omitempty"`
	Debts      []RawDebt     `toml:"debt,omitempty" json:"debt,omitempty"`
}

// RawHeader holds household-wide settings.
type RawHeader struct {
	MonthlyBudget Amount `toml:"monthly_budget" json:"monthly_budget"`
	Currency      string `toml:"currency,omitempty" json:"currency,omitempty"`
}

// RawCategory is a category record as written by users.
type RawCategory struct {
	ID     string `toml:"id,omitempty" json:"id,omitempty"`
	Name   string `toml:"name" json:"name"`
	Budget Amount `toml:"budget" json:"budget"`
}

// RawIncome is an additional income record.
type RawIncome struct {
	ID     string `toml:"id,omitempty" json:"id,omitempty"`
	Name   string `toml:"name" json:"name"`
	Amount Amount `toml:"amount" json:"amount"`
	Date   Date   `toml:"date" json:"date"`
}

// RawExpense is an expense record. Category holds either a category ID
// or a category name.
type RawExpense struct {
	ID          string `toml:"id,omitempty" json:"id,omitempty"`
	Description string `toml:"description" json:"description"`
	Amount      Amount `toml:"amount" json:"amount"`
	Category    string `toml:"category" json:"category"`
	Date        Date   `toml:"date" json:"date"`
}

// RawGoal is a savings goal record.
type RawGoal struct {
	ID       string `toml:"id,omitempty" json:"id,omitempty"`
	Name     string `toml:"name" json:"name"`
	Target   Amount `toml:"target" json:"target"`
	Current  Amount `toml:"current" json:"current"`
	Deadline Date   `toml:"deadline,omitempty" json:"deadline,omitempty"`
}

// RawPayment is a scheduled future payment.
type RawPayment struct {
	ID          string `toml:"id,omitempty" json:"id,omitempty"`
	Description string `toml:"description" json:"description"`
	Amount      Amount `toml:"amount" json:"amount"`
	Due         Date   `toml:"due" json:"due"`
	Paid        bool   `toml:"paid,omitempty" json:"paid,omitempty"`
}

// RawDebt is a debt record.
type RawDebt struct {
	ID             string `toml:"id,omitempty" json:"id,omitempty"`
	Name           string `toml:"name" json:"name"`
	Balance        Amount `toml:"balance" json:"balance"`
	MinimumPayment Amount `toml:"minimum_payment" json:"minimum_payment"`
	InterestRate   Amount `toml:"interest_rate,omitempty" json:"interest_rate,omitempty"`
}

// Amount is a money value that may be written as a number or a string.
// Validation happens later, in Build.
type Amount string

// UnmarshalTOML accepts TOML integers, floats and strings.
func (a *Amount) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*a = Amount(strings.TrimSpace(x))
	case int64:
		*a = Amount(strconv.FormatInt(x, 10))
	case float64:
		*a = Amount(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("amount must be a number or string, got %T", v)
	}
	return nil
}

// UnmarshalJSON accepts JSON numbers and strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or string: %s", data)
	}
	*a = Amount(n.String())
	return nil
}

// Date is a calendar date written as YYYY-MM-DD or a TOML date.
type Date string

// UnmarshalTOML accepts strings and TOML local dates.
func (d *Date) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*d = Date(strings.TrimSpace(x))
	case time.Time:
		*d = Date(x.Format(dateLayout))
	default:
		return fmt.Errorf("date must be YYYY-MM-DD, got %T", v)
	}
	return nil
}

// Format is a household file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "toml"
}

// DiscoveredFile is a household file found by ScanDir.
type DiscoveredFile struct {
	Path   string
	Format Format
}
