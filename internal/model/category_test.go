package model

import (
	"encoding/json"
	"testing"
)

func TestCategoryRefMatches(t *testing.T) {
	food := Category{ID: "7f0c", Name: "Food"}

	tests := []struct {
		ref  CategoryRef
		want bool
	}{
		{ByID("7f0c"), true},
		{ByName("Food"), true},
		{ByName("7f0c"), false},
		{ByID("Food"), false},
		{ByName("food"), false},
		{ByID(""), false},
	}
	for _, tt := range tests {
		if got := tt.ref.Matches(food); got != tt.want {
			t.Errorf("%s.Matches(Food) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestCategoryRefLabel(t *testing.T) {
	cats := []Category{{ID: "a1", Name: "Rent"}}
	if got := ByID("a1").Label(cats); got != "Rent" {
		t.Errorf("ByID label = %q, want Rent", got)
	}
	if got := ByID("zz").Label(cats); got != "zz" {
		t.Errorf("unknown ByID label = %q, want zz", got)
	}
	if got := ByName("Fun").Label(cats); got != "Fun" {
		t.Errorf("ByName label = %q, want Fun", got)
	}
}

func TestCategoryRefJSON(t *testing.T) {
	data, err := json.Marshal(ByName("Food"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"kind":"name","value":"Food"}` {
		t.Fatalf("Marshal = %s", data)
	}

	var ref CategoryRef
	if err := json.Unmarshal([]byte(`{"kind":"id","value":"c9"}`), &ref); err != nil {
		t.Fatal(err)
	}
	if ref != ByID("c9") {
		t.Errorf("Unmarshal = %+v, want ByID(c9)", ref)
	}

	if err := json.Unmarshal([]byte(`{"kind":"tag","value":"x"}`), &ref); err == nil {
		t.Error("expected error for unknown kind")
	}
}
