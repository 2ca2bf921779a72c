package models

import "errors"

// Cuisine classifies a restaurant's food style. Codes are fixed and
// persisted as-is; the zero value is not a valid cuisine.
type Cuisine int

const (
	CuisineBrazilian Cuisine = iota + 1
	CuisineItalian
	CuisineArabic
	CuisineJapanese
	CuisineFastFood
)

// ErrCuisineOutOfRange reports a cuisine code outside the known set.
var ErrCuisineOutOfRange = errors.New("cuisine code out of range")

// CuisineFromInt decodes a stored or user-supplied cuisine code.
// Unknown codes fail immediately rather than producing an invalid
// entity for later validation to catch.
func CuisineFromInt(code int) (Cuisine, error) {
	if code < int(CuisineBrazilian) || code > int(CuisineFastFood) {
		return 0, ErrCuisineOutOfRange
	}
	return Cuisine(code), nil
}

func (c Cuisine) String() string {
	switch c {
	case CuisineBrazilian:
		return "Brazilian"
	case CuisineItalian:
		return "Italian"
	case CuisineArabic:
		return "Arabic"
	case CuisineJapanese:
		return "Japanese"
	case CuisineFastFood:
		return "FastFood"
	default:
		return "Unknown"
	}
}
