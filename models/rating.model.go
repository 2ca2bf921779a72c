package models

import "restaurant-directory/validation"

// Rating is a star review left for a restaurant. It is a value
// object: it never carries its own identity and is always scoped to a
// restaurant through a denormalized id in the ratings collection.
type Rating struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

func NewRating(stars int, comment string) Rating {
	return Rating{Stars: stars, Comment: comment}
}

// Validate evaluates every rating rule and returns the full list of
// failures.
func (r Rating) Validate() validation.Result {
	return validation.Collect(
		validation.IntBetween("stars", r.Stars, 1, 5),
		validation.Required("comment", r.Comment),
		validation.MaxLength("comment", r.Comment, 100),
	)
}
