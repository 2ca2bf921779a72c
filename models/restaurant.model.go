package models

import "restaurant-directory/validation"

// Address is the restaurant's single embedded address. Field names
// follow the persisted document shape (Brazilian postal conventions:
// logradouro is the street line, UF the two-letter state code, CEP
// the eight-digit postal code).
type Address struct {
	Logradouro string `json:"logradouro"`
	Numero     string `json:"numero"`
	Cidade     string `json:"cidade"`
	UF         string `json:"uf"`
	Cep        string `json:"cep"`
}

func NewAddress(logradouro, numero, cidade, uf, cep string) *Address {
	return &Address{
		Logradouro: logradouro,
		Numero:     numero,
		Cidade:     cidade,
		UF:         uf,
		Cep:        cep,
	}
}

// Validate evaluates every address rule and returns the full list of
// failures; it never stops at the first one.
func (a Address) Validate() validation.Result {
	return validation.Collect(
		validation.Required("logradouro", a.Logradouro),
		validation.MaxLength("logradouro", a.Logradouro, 50),
		validation.Required("numero", a.Numero),
		validation.Required("cidade", a.Cidade),
		validation.MaxLength("cidade", a.Cidade, 100),
		validation.Required("uf", a.UF),
		validation.ExactLength("uf", a.UF, 2),
		validation.Required("cep", a.Cep),
		validation.ExactLength("cep", a.Cep, 8),
	)
}

// Restaurant is the aggregate root. Ratings live in their own
// collection and are attached here only when an aggregation read
// rehydrates the entity; plain lookups leave the slice empty.
type Restaurant struct {
	ID      string
	Name    string
	Cuisine Cuisine
	Address *Address
	Ratings []Rating

	// ValidationResult holds the outcome of the last Validate call
	// for caller inspection.
	ValidationResult validation.Result
}

// NewRestaurant builds a pending restaurant with no id; the store
// assigns one on insert.
func NewRestaurant(name string, cuisine Cuisine) *Restaurant {
	return &Restaurant{Name: name, Cuisine: cuisine}
}

// NewRestaurantWithID builds a restaurant standing in for an already
// persisted document, e.g. the target of a full replace.
func NewRestaurantWithID(id, name string, cuisine Cuisine) *Restaurant {
	return &Restaurant{ID: id, Name: name, Cuisine: cuisine}
}

// AssignAddress must be called before Validate or the address is
// reported missing.
func (r *Restaurant) AssignAddress(a *Address) {
	r.Address = a
}

// AppendRating attaches a rating without validating it. Only
// aggregation reads use this, rehydrating from already persisted
// documents.
func (r *Restaurant) AppendRating(rating Rating) {
	r.Ratings = append(r.Ratings, rating)
}

// Validate checks the name rules, then merges the address's own
// failures into the stored result. Any violation anywhere leaves the
// whole restaurant invalid.
func (r *Restaurant) Validate() bool {
	result := validation.Collect(
		validation.Required("name", r.Name),
		validation.MaxLength("name", r.Name, 30),
	)

	if r.Address == nil {
		result.Add("address", "address must not be empty")
	} else {
		result.Merge(r.Address.Validate())
	}

	r.ValidationResult = result
	return result.Valid()
}
