package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"restaurant-directory/models"
)

// ErrNoModification reports that a replace or patch matched no
// document, or matched one but changed nothing. The store cannot tell
// the two apart, so neither can this layer.
var ErrNoModification = errors.New("no document was modified")

// RatedRestaurant pairs a fully populated restaurant (ratings
// attached) with its average star count.
type RatedRestaurant struct {
	Restaurant *models.Restaurant
	Average    float64
}

// RestaurantRepository is the persistence and query surface for the
// directory. Lookups that find nothing return (nil, nil); store
// faults propagate wrapped but otherwise untouched.
type RestaurantRepository interface {
	Insert(ctx context.Context, restaurant *models.Restaurant) error
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	FindAll(ctx context.Context) ([]*models.Restaurant, error)
	FindByNameContains(ctx context.Context, name string) ([]*models.Restaurant, error)
	ReplaceFull(ctx context.Context, restaurant *models.Restaurant) error
	PatchCuisine(ctx context.Context, id string, cuisine models.Cuisine) error
	Delete(ctx context.Context, id string) (restaurantsDeleted, ratingsDeleted int64, err error)

	InsertRating(ctx context.Context, restaurantID string, rating models.Rating) error
	TopRated(ctx context.Context, n int) ([]RatedRestaurant, error)
	TopRatedLookup(ctx context.Context, n int) ([]RatedRestaurant, error)
	SearchText(ctx context.Context, query string) ([]*models.Restaurant, error)
}

type restaurantRepository struct {
	restaurants *mongo.Collection
	ratings     *mongo.Collection
	logger      *zap.Logger
}

// NewRestaurantRepository wires the two collections and ensures the
// indexes the query paths rely on: a text index spanning the
// restaurant's text fields and an ascending index on the rating's
// denormalized foreign key.
func NewRestaurantRepository(db *mongo.Database, logger *zap.Logger) RestaurantRepository {
	repo := &restaurantRepository{
		restaurants: db.Collection("restaurants"),
		ratings:     db.Collection("ratings"),
		logger:      logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.restaurants.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "address.logradouro", Value: "text"},
			{Key: "address.cidade", Value: "text"},
		},
	})
	if err != nil {
		logger.Warn("failed to create restaurants text index", zap.Error(err))
	}

	_, err = repo.ratings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "restaurantId", Value: 1}},
	})
	if err != nil {
		logger.Warn("failed to create ratings index", zap.Error(err))
	}

	return repo
}

// Insert persists a restaurant the caller has already validated and
// writes the store-assigned id back onto the entity.
func (r *restaurantRepository) Insert(ctx context.Context, restaurant *models.Restaurant) error {
	doc, err := newRestaurantDocument(restaurant)
	if err != nil {
		return err
	}

	result, err := r.restaurants.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("error inserting restaurant", zap.String("name", restaurant.Name), zap.Error(err))
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		restaurant.ID = oid.Hex()
	}
	return nil
}

// FindByID returns (nil, nil) both when no document matches and when
// the id is not a parseable object id; the id format is opaque to
// callers and an unparseable one can match nothing.
func (r *restaurantRepository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc restaurantDocument
	err = r.restaurants.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("error fetching restaurant", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch restaurant: %w", err)
	}

	return doc.toDomain()
}

func (r *restaurantRepository) FindAll(ctx context.Context) ([]*models.Restaurant, error) {
	return r.findRestaurants(ctx, bson.M{})
}

// FindByNameContains matches the name field case-insensitively; the
// substring is quoted so regex metacharacters are taken literally. An
// empty substring matches everything.
func (r *restaurantRepository) FindByNameContains(ctx context.Context, name string) ([]*models.Restaurant, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	return r.findRestaurants(ctx, filter)
}

// SearchText runs the free-text filter against the text index;
// results keep the store's relevance order.
func (r *restaurantRepository) SearchText(ctx context.Context, query string) ([]*models.Restaurant, error) {
	filter := bson.M{"$text": bson.M{"$search": query}}
	return r.findRestaurants(ctx, filter)
}

func (r *restaurantRepository) findRestaurants(ctx context.Context, filter bson.M) ([]*models.Restaurant, error) {
	cursor, err := r.restaurants.Find(ctx, filter)
	if err != nil {
		r.logger.Error("error fetching restaurants", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []restaurantDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode restaurants: %w", err)
	}

	restaurants := make([]*models.Restaurant, 0, len(docs))
	for _, doc := range docs {
		restaurant, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}

// ReplaceFull swaps the whole document keyed by the entity's id.
// A replace that modifies nothing — id absent, or present with every
// field already equal — reports ErrNoModification.
func (r *restaurantRepository) ReplaceFull(ctx context.Context, restaurant *models.Restaurant) error {
	doc, err := newRestaurantDocument(restaurant)
	if err != nil {
		return err
	}

	result, err := r.restaurants.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		r.logger.Error("error replacing restaurant", zap.String("id", restaurant.ID), zap.Error(err))
		return fmt.Errorf("failed to replace restaurant: %w", err)
	}

	if result.ModifiedCount != 1 {
		return ErrNoModification
	}
	return nil
}

// PatchCuisine updates only the cuisine field, under the same
// zero-modified contract as ReplaceFull.
func (r *restaurantRepository) PatchCuisine(ctx context.Context, id string, cuisine models.Cuisine) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoModification
	}

	update := bson.M{"$set": bson.M{"cuisine": int(cuisine)}}
	result, err := r.restaurants.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error("error patching cuisine", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to patch cuisine: %w", err)
	}

	if result.ModifiedCount != 1 {
		return ErrNoModification
	}
	return nil
}

// Delete cascades: all ratings referencing the id go first, then the
// restaurant document itself. The two counts come back separately so
// callers can spot partial outcomes, e.g. ratings removed for a
// restaurant that was already gone.
func (r *restaurantRepository) Delete(ctx context.Context, id string) (int64, int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, 0, nil
	}

	ratingsResult, err := r.ratings.DeleteMany(ctx, bson.M{"restaurantId": oid})
	if err != nil {
		r.logger.Error("error deleting ratings", zap.String("restaurant_id", id), zap.Error(err))
		return 0, 0, fmt.Errorf("failed to delete ratings: %w", err)
	}

	restaurantResult, err := r.restaurants.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("error deleting restaurant", zap.String("id", id), zap.Error(err))
		return 0, ratingsResult.DeletedCount, fmt.Errorf("failed to delete restaurant: %w", err)
	}

	return restaurantResult.DeletedCount, ratingsResult.DeletedCount, nil
}

// InsertRating stores a rating with its denormalized foreign key.
// Whether the restaurant still exists is deliberately not checked:
// ratings may be written without loading their restaurant, and
// orphans are tolerated by the aggregation paths.
func (r *restaurantRepository) InsertRating(ctx context.Context, restaurantID string, rating models.Rating) error {
	oid, err := primitive.ObjectIDFromHex(restaurantID)
	if err != nil {
		return fmt.Errorf("invalid restaurant id %q: %w", restaurantID, err)
	}

	doc := ratingDocument{
		RestaurantID: oid,
		Stars:        rating.Stars,
		Comment:      rating.Comment,
	}
	if _, err := r.ratings.InsertOne(ctx, doc); err != nil {
		r.logger.Error("error inserting rating", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

// topRatedPipeline groups ratings by restaurant, averages the stars,
// and keeps the n best groups. Equal averages are ordered by
// restaurant id so results are reproducible.
func topRatedPipeline(n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$restaurantId"},
			{Key: "averageStars", Value: bson.D{{Key: "$avg", Value: "$stars"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "averageStars", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: n}},
	}
}

// TopRated ranks restaurants by average stars with the join done
// application-side: one grouping query over ratings, then a
// restaurant lookup and a rating fetch per surviving group. A group
// whose restaurant cannot be found is an error on this path; the
// lookup variant tolerates it instead.
func (r *restaurantRepository) TopRated(ctx context.Context, n int) ([]RatedRestaurant, error) {
	cursor, err := r.ratings.Aggregate(ctx, topRatedPipeline(n))
	if err != nil {
		r.logger.Error("error aggregating ratings", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		RestaurantID primitive.ObjectID `bson:"_id"`
		AverageStars float64            `bson:"averageStars"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode rating groups: %w", err)
	}

	rated := make([]RatedRestaurant, 0, len(groups))
	for _, group := range groups {
		id := group.RestaurantID.Hex()

		restaurant, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if restaurant == nil {
			return nil, fmt.Errorf("restaurant %s referenced by ratings no longer exists", id)
		}

		ratingCursor, err := r.ratings.Find(ctx, bson.M{"restaurantId": group.RestaurantID})
		if err != nil {
			r.logger.Error("error fetching ratings", zap.String("restaurant_id", id), zap.Error(err))
			return nil, fmt.Errorf("failed to fetch ratings: %w", err)
		}
		var ratingDocs []ratingDocument
		err = ratingCursor.All(ctx, &ratingDocs)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ratings: %w", err)
		}
		for _, doc := range ratingDocs {
			restaurant.AppendRating(doc.toDomain())
		}

		rated = append(rated, RatedRestaurant{Restaurant: restaurant, Average: group.AverageStars})
	}
	return rated, nil
}

// TopRatedLookup produces the same ranking with the join pushed into
// the store: two $lookup stages pull in the restaurant and its full
// rating list per group, trading n follow-up queries for one heavier
// pipeline. Groups whose restaurant was deleted come back with an
// empty join and are skipped.
func (r *restaurantRepository) TopRatedLookup(ctx context.Context, n int) ([]RatedRestaurant, error) {
	pipeline := topRatedPipeline(n)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "restaurants"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "restaurant"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "ratings"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "restaurantId"},
			{Key: "as", Value: "ratings"},
		}}},
	)

	cursor, err := r.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("error aggregating ratings with lookup", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []topRatedRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rating rows: %w", err)
	}

	return ratedFromRows(rows)
}
