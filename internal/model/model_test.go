package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestAccountJSONHidesPassword(t *testing.T) {
	a := Account{
		ID:             1,
		Email:          "a@x.com",
		FullName:       "A",
		HashedPassword: "$2a$10$somebcrypthash",
		IsActive:       true,
		CreatedAt:      time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if strings.Contains(string(b), "bcrypt") || strings.Contains(string(b), "password") {
		t.Errorf("password hash leaked into JSON: %s", b)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	for _, key := range []string{"id", "email", "full_name", "is_active", "is_admin", "created_at"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected key %q in account JSON", key)
		}
	}
}

func TestOptionalUnmarshal(t *testing.T) {
	var u SweetUpdate
	if err := json.Unmarshal([]byte(`{"price": 5, "description": null}`), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !u.Price.Set || u.Price.Value != 5 {
		t.Errorf("Price = %+v, want set to 5", u.Price)
	}
	if !u.Description.Set || u.Description.Value != nil {
		t.Errorf("Description = %+v, want set to nil", u.Description)
	}
	if u.Name.Set || u.Category.Set || u.Quantity.Set || u.ImageURL.Set {
		t.Errorf("unexpected fields set: %+v", u)
	}
	if u.Empty() {
		t.Error("Empty() = true, want false")
	}
}

func TestSweetUpdateMerge(t *testing.T) {
	desc := "rich"
	in := SweetInput{Name: "Chocolate Cake", Description: &desc, Category: "Cakes", Price: 1599, Quantity: 10}

	u := SweetUpdate{Price: Some(5.0)}
	got := u.Merge(in)

	if got.Price != 5 {
		t.Errorf("Price = %v, want 5", got.Price)
	}
	if got.Name != in.Name || got.Category != in.Category || got.Quantity != in.Quantity {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if got.Description == nil || *got.Description != "rich" {
		t.Errorf("Description = %v, want rich", got.Description)
	}
}

func TestSweetInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    SweetInput
		field string
	}{
		{"valid", SweetInput{Name: "Cake", Category: "Cakes", Price: 1, Quantity: 0}, ""},
		{"empty name", SweetInput{Name: "", Category: "Cakes", Price: 1}, "name"},
		{"long name", SweetInput{Name: strings.Repeat("a", 101), Category: "Cakes", Price: 1}, "name"},
		{"max name", SweetInput{Name: strings.Repeat("a", 100), Category: "Cakes", Price: 1}, ""},
		{"empty category", SweetInput{Name: "Cake", Price: 1}, "category"},
		{"long category", SweetInput{Name: "Cake", Category: strings.Repeat("c", 51), Price: 1}, "category"},
		{"zero price", SweetInput{Name: "Cake", Category: "Cakes", Price: 0}, "price"},
		{"negative price", SweetInput{Name: "Cake", Category: "Cakes", Price: -2}, "price"},
		{"negative quantity", SweetInput{Name: "Cake", Category: "Cakes", Price: 1, Quantity: -1}, "quantity"},
		{"max quantity", SweetInput{Name: "Cake", Category: "Cakes", Price: 1, Quantity: MaxQuantity}, ""},
		{"quantity overflow", SweetInput{Name: "Cake", Category: "Cakes", Price: 1, Quantity: MaxQuantity + 1}, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() = %v, want ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	ok := Registration{Email: "a@x.com", Password: "pw", FullName: "A"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	bad := Registration{Email: "not-an-email", Password: "pw", FullName: "A"}
	if err := bad.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate() = %v, want ErrValidation", err)
	}
}

func TestStockChangeValidate(t *testing.T) {
	tests := []struct {
		name  string
		qty   int
		valid bool
	}{
		{"one", 1, true},
		{"max", MaxQuantity, true},
		{"zero", 0, false},
		{"negative", -3, false},
		{"above max", MaxQuantity + 1, false},
		{"max int64", math.MaxInt64, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&StockChange{Quantity: tt.qty}).Validate()
			if tt.valid {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "quantity" {
				t.Fatalf("Validate() = %v, want quantity ValidationError", err)
			}
		})
	}
}

func TestSweetFilterValidate(t *testing.T) {
	neg := -1.0
	f := SweetFilter{MinPrice: &neg}
	if err := f.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("negative min_price: got %v, want ErrValidation", err)
	}
	if err := (&SweetFilter{}).Validate(); err != nil {
		t.Errorf("empty filter: %v", err)
	}
}
