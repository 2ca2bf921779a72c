package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-directory/models"
)

// Persisted document shapes for the two collections. The domain model
// never crosses the wire directly; these structs own the bson layout.

type addressDocument struct {
	Logradouro string `bson:"logradouro"`
	Numero     string `bson:"numero"`
	Cidade     string `bson:"cidade"`
	UF         string `bson:"uf"`
	Cep        string `bson:"cep"`
}

type restaurantDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Cuisine int                `bson:"cuisine"`
	Address addressDocument    `bson:"address"`
}

type ratingDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	RestaurantID primitive.ObjectID `bson:"restaurantId"`
	Stars        int                `bson:"stars"`
	Comment      string             `bson:"comment"`
}

// topRatedRow is one result row of the lookup aggregation: a rating
// group joined against both collections. The restaurant slice is
// empty when the group's foreign key is orphaned.
type topRatedRow struct {
	RestaurantID primitive.ObjectID   `bson:"_id"`
	AverageStars float64              `bson:"averageStars"`
	Restaurant   []restaurantDocument `bson:"restaurant"`
	Ratings      []ratingDocument     `bson:"ratings"`
}

func newRestaurantDocument(r *models.Restaurant) (restaurantDocument, error) {
	doc := restaurantDocument{
		Name:    r.Name,
		Cuisine: int(r.Cuisine),
	}
	if r.Address != nil {
		doc.Address = addressDocument{
			Logradouro: r.Address.Logradouro,
			Numero:     r.Address.Numero,
			Cidade:     r.Address.Cidade,
			UF:         r.Address.UF,
			Cep:        r.Address.Cep,
		}
	}
	if r.ID != "" {
		oid, err := primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return restaurantDocument{}, fmt.Errorf("invalid restaurant id %q: %w", r.ID, err)
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d restaurantDocument) toDomain() (*models.Restaurant, error) {
	cuisine, err := models.CuisineFromInt(d.Cuisine)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", d.ID.Hex(), err)
	}
	restaurant := models.NewRestaurantWithID(d.ID.Hex(), d.Name, cuisine)
	restaurant.AssignAddress(models.NewAddress(
		d.Address.Logradouro,
		d.Address.Numero,
		d.Address.Cidade,
		d.Address.UF,
		d.Address.Cep,
	))
	return restaurant, nil
}

func (d ratingDocument) toDomain() models.Rating {
	return models.NewRating(d.Stars, d.Comment)
}

// ratedFromRows turns lookup rows into ranked results. Rows whose
// restaurant join came back empty reference a deleted restaurant and
// are dropped silently; row order is preserved.
func ratedFromRows(rows []topRatedRow) ([]RatedRestaurant, error) {
	rated := make([]RatedRestaurant, 0, len(rows))
	for _, row := range rows {
		if len(row.Restaurant) == 0 {
			continue
		}
		restaurant, err := row.Restaurant[0].toDomain()
		if err != nil {
			return nil, err
		}
		for _, doc := range row.Ratings {
			restaurant.AppendRating(doc.toDomain())
		}
		rated = append(rated, RatedRestaurant{
			Restaurant: restaurant,
			Average:    row.AverageStars,
		})
	}
	return rated, nil
}
