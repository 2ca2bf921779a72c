package models

import (
	"strings"
	"testing"
)

func validAddress() *Address {
	return NewAddress("Avenida Paulista", "100", "Sao Paulo", "SP", "01310100")
}

func TestAddressValid(t *testing.T) {
	if result := validAddress().Validate(); !result.Valid() {
		t.Errorf("expected valid address, got %v", result.Errors)
	}

	// at the bounds
	boundary := NewAddress(strings.Repeat("a", 50), "1", strings.Repeat("b", 100), "RJ", "22000000")
	if result := boundary.Validate(); !result.Valid() {
		t.Errorf("expected boundary address to be valid, got %v", result.Errors)
	}
}

func TestAddressInvalid(t *testing.T) {
	cases := []struct {
		name    string
		address *Address
		field   string
	}{
		{"empty logradouro", NewAddress("", "1", "Sao Paulo", "SP", "01310100"), "logradouro"},
		{"logradouro too long", NewAddress(strings.Repeat("a", 51), "1", "Sao Paulo", "SP", "01310100"), "logradouro"},
		{"empty numero", NewAddress("Rua A", "", "Sao Paulo", "SP", "01310100"), "numero"},
		{"empty cidade", NewAddress("Rua A", "1", "", "SP", "01310100"), "cidade"},
		{"cidade too long", NewAddress("Rua A", "1", strings.Repeat("b", 101), "SP", "01310100"), "cidade"},
		{"empty uf", NewAddress("Rua A", "1", "Sao Paulo", "", "01310100"), "uf"},
		{"uf wrong length", NewAddress("Rua A", "1", "Sao Paulo", "SPX", "01310100"), "uf"},
		{"empty cep", NewAddress("Rua A", "1", "Sao Paulo", "SP", ""), "cep"},
		{"cep wrong length", NewAddress("Rua A", "1", "Sao Paulo", "SP", "0131010"), "cep"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.address.Validate()
			if result.Valid() {
				t.Fatal("expected invalid")
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected exactly 1 error, got %v", result.Errors)
			}
			if result.Errors[0].Field != tc.field {
				t.Errorf("expected error on %q, got %q", tc.field, result.Errors[0].Field)
			}
		})
	}
}

func TestRestaurantValidate(t *testing.T) {
	restaurant := NewRestaurant("Pizzaria Bella", CuisineItalian)
	restaurant.AssignAddress(validAddress())

	if !restaurant.Validate() {
		t.Errorf("expected valid restaurant, got %v", restaurant.ValidationResult.Errors)
	}
}

func TestRestaurantValidateName(t *testing.T) {
	empty := NewRestaurant("", CuisineItalian)
	empty.AssignAddress(validAddress())
	if empty.Validate() {
		t.Error("expected empty name to invalidate")
	}

	long := NewRestaurant(strings.Repeat("a", 31), CuisineItalian)
	long.AssignAddress(validAddress())
	if long.Validate() {
		t.Error("expected over-length name to invalidate")
	}

	atBound := NewRestaurant(strings.Repeat("a", 30), CuisineItalian)
	atBound.AssignAddress(validAddress())
	if !atBound.Validate() {
		t.Errorf("expected 30-char name to be valid, got %v", atBound.ValidationResult.Errors)
	}
}

func TestRestaurantValidateMissingAddress(t *testing.T) {
	restaurant := NewRestaurant("Pizzaria Bella", CuisineItalian)

	if restaurant.Validate() {
		t.Fatal("expected restaurant without address to be invalid")
	}
	if len(restaurant.ValidationResult.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", restaurant.ValidationResult.Errors)
	}
	if restaurant.ValidationResult.Errors[0].Field != "address" {
		t.Errorf("expected error on address, got %v", restaurant.ValidationResult.Errors[0])
	}
}

// A broken name and a broken address must both show up in one pass.
func TestRestaurantValidateMergesAddressErrors(t *testing.T) {
	restaurant := NewRestaurant("", CuisineItalian)
	restaurant.AssignAddress(NewAddress("Rua A", "1", "Sao Paulo", "SPX", "01310100"))

	if restaurant.Validate() {
		t.Fatal("expected invalid restaurant")
	}

	errors := restaurant.ValidationResult.Errors
	if len(errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", errors)
	}
	if errors[0].Field != "name" {
		t.Errorf("expected name error first, got %v", errors[0])
	}
	if errors[1].Field != "uf" {
		t.Errorf("expected merged uf error, got %v", errors[1])
	}
}

func TestAppendRatingSkipsValidation(t *testing.T) {
	restaurant := NewRestaurant("Pizzaria Bella", CuisineItalian)

	// rehydration attaches whatever the store holds
	restaurant.AppendRating(NewRating(9, ""))

	if len(restaurant.Ratings) != 1 {
		t.Fatalf("expected 1 rating, got %d", len(restaurant.Ratings))
	}
}
