package repository

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-directory/models"
)

func TestRestaurantDocumentRoundTrip(t *testing.T) {
	restaurant := models.NewRestaurant("Pizzaria Bella", models.CuisineItalian)
	restaurant.AssignAddress(models.NewAddress("Avenida Paulista", "100", "Sao Paulo", "SP", "01310100"))

	doc, err := newRestaurantDocument(restaurant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.ID.IsZero() {
		t.Error("expected no id before insert")
	}

	doc.ID = primitive.NewObjectID()
	back, err := doc.toDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if back.ID != doc.ID.Hex() {
		t.Errorf("expected id %s, got %s", doc.ID.Hex(), back.ID)
	}
	if back.Name != restaurant.Name || back.Cuisine != restaurant.Cuisine {
		t.Errorf("expected %q/%v, got %q/%v", restaurant.Name, restaurant.Cuisine, back.Name, back.Cuisine)
	}
	if *back.Address != *restaurant.Address {
		t.Errorf("expected address %+v, got %+v", restaurant.Address, back.Address)
	}
	if len(back.Ratings) != 0 {
		t.Errorf("expected no ratings on a plain mapping, got %d", len(back.Ratings))
	}
}

func TestNewRestaurantDocumentRejectsBadID(t *testing.T) {
	restaurant := models.NewRestaurantWithID("not-an-object-id", "Bella", models.CuisineItalian)

	_, err := newRestaurantDocument(restaurant)
	if err == nil {
		t.Fatal("expected error for unparseable id")
	}
}

func TestToDomainRejectsUnknownCuisine(t *testing.T) {
	doc := restaurantDocument{ID: primitive.NewObjectID(), Name: "Bella", Cuisine: 42}

	_, err := doc.toDomain()
	if !errors.Is(err, models.ErrCuisineOutOfRange) {
		t.Fatalf("expected ErrCuisineOutOfRange, got %v", err)
	}
}

func TestRatedFromRowsSkipsOrphans(t *testing.T) {
	existing := primitive.NewObjectID()
	orphaned := primitive.NewObjectID()

	rows := []topRatedRow{
		{
			RestaurantID: orphaned,
			AverageStars: 5.0,
			Restaurant:   nil, // deleted restaurant, empty join
			Ratings:      []ratingDocument{{RestaurantID: orphaned, Stars: 5, Comment: "ghost"}},
		},
		{
			RestaurantID: existing,
			AverageStars: 4.5,
			Restaurant: []restaurantDocument{{
				ID:      existing,
				Name:    "Pizzaria Bella",
				Cuisine: int(models.CuisineItalian),
			}},
			Ratings: []ratingDocument{
				{RestaurantID: existing, Stars: 4, Comment: "good"},
				{RestaurantID: existing, Stars: 5, Comment: "great"},
			},
		},
	}

	rated, err := ratedFromRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rated) != 1 {
		t.Fatalf("expected orphaned group to be skipped, got %d results", len(rated))
	}
	if rated[0].Restaurant.ID != existing.Hex() {
		t.Errorf("expected restaurant %s, got %s", existing.Hex(), rated[0].Restaurant.ID)
	}
	if rated[0].Average != 4.5 {
		t.Errorf("expected average 4.5, got %f", rated[0].Average)
	}
	if len(rated[0].Restaurant.Ratings) != 2 {
		t.Errorf("expected 2 attached ratings, got %d", len(rated[0].Restaurant.Ratings))
	}
}

func TestRatedFromRowsPreservesOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	rows := []topRatedRow{
		{
			RestaurantID: first,
			AverageStars: 5.0,
			Restaurant:   []restaurantDocument{{ID: first, Name: "A", Cuisine: 1}},
		},
		{
			RestaurantID: second,
			AverageStars: 3.0,
			Restaurant:   []restaurantDocument{{ID: second, Name: "B", Cuisine: 2}},
		},
	}

	rated, err := ratedFromRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rated) != 2 {
		t.Fatalf("expected 2 results, got %d", len(rated))
	}
	if rated[0].Restaurant.Name != "A" || rated[1].Restaurant.Name != "B" {
		t.Errorf("expected pipeline order preserved, got %s then %s",
			rated[0].Restaurant.Name, rated[1].Restaurant.Name)
	}
}

func TestRatedFromRowsBadCuisine(t *testing.T) {
	id := primitive.NewObjectID()
	rows := []topRatedRow{{
		RestaurantID: id,
		AverageStars: 4.0,
		Restaurant:   []restaurantDocument{{ID: id, Name: "A", Cuisine: 99}},
	}}

	if _, err := ratedFromRows(rows); err == nil {
		t.Fatal("expected decode error for unknown cuisine code")
	}
}
