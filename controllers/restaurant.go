package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-directory/models"
	"restaurant-directory/repository"
	"restaurant-directory/validation"
)

// RestaurantController handles restaurant-related requests
type RestaurantController struct {
	Repository repository.RestaurantRepository
}

// NewRestaurantController creates a new RestaurantController
func NewRestaurantController(repo repository.RestaurantRepository) *RestaurantController {
	return &RestaurantController{Repository: repo}
}

// restaurantRequest is the flat input shape for create and replace.
type restaurantRequest struct {
	Name       string `json:"name"`
	Cuisine    int    `json:"cuisine"`
	Logradouro string `json:"logradouro"`
	Numero     string `json:"numero"`
	Cidade     string `json:"cidade"`
	UF         string `json:"uf"`
	Cep        string `json:"cep"`
}

func (req restaurantRequest) toRestaurant(id string) (*models.Restaurant, error) {
	cuisine, err := models.CuisineFromInt(req.Cuisine)
	if err != nil {
		return nil, err
	}

	var restaurant *models.Restaurant
	if id == "" {
		restaurant = models.NewRestaurant(req.Name, cuisine)
	} else {
		restaurant = models.NewRestaurantWithID(id, req.Name, cuisine)
	}
	restaurant.AssignAddress(models.NewAddress(req.Logradouro, req.Numero, req.Cidade, req.UF, req.Cep))
	return restaurant, nil
}

type ratingRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

type restaurantResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Cuisine int             `json:"cuisine"`
	Address *models.Address `json:"address"`
	Ratings []models.Rating `json:"ratings,omitempty"`
}

type ratedRestaurantResponse struct {
	Restaurant   restaurantResponse `json:"restaurant"`
	AverageStars float64            `json:"averageStars"`
}

func newRestaurantResponse(r *models.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:      r.ID,
		Name:    r.Name,
		Cuisine: int(r.Cuisine),
		Address: r.Address,
		Ratings: r.Ratings,
	}
}

func newRestaurantListResponse(restaurants []*models.Restaurant) []restaurantResponse {
	responses := make([]restaurantResponse, 0, len(restaurants))
	for _, r := range restaurants {
		responses = append(responses, newRestaurantResponse(r))
	}
	return responses
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeValidationErrors(w http.ResponseWriter, result validation.Result) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": result.Errors})
}

// CreateRestaurant handles registering a new restaurant
func (rc *RestaurantController) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	restaurant, err := req.toRestaurant("")
	if err != nil {
		http.Error(w, "Invalid cuisine code", http.StatusBadRequest)
		return
	}

	if !restaurant.Validate() {
		writeValidationErrors(w, restaurant.ValidationResult)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := rc.Repository.Insert(ctx, restaurant); err != nil {
		http.Error(w, "Error creating restaurant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, newRestaurantResponse(restaurant))
}

// GetRestaurants retrieves all restaurants, or those whose name
// contains the ?name= substring (case-insensitive)
func (rc *RestaurantController) GetRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var restaurants []*models.Restaurant
	var err error
	if r.URL.Query().Has("name") {
		restaurants, err = rc.Repository.FindByNameContains(ctx, r.URL.Query().Get("name"))
	} else {
		restaurants, err = rc.Repository.FindAll(ctx)
	}
	if err != nil {
		http.Error(w, "Error fetching restaurants", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newRestaurantListResponse(restaurants))
}

// GetRestaurantByID retrieves a single restaurant by ID
func (rc *RestaurantController) GetRestaurantByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	restaurant, err := rc.Repository.FindByID(ctx, params["id"])
	if err != nil {
		http.Error(w, "Error fetching restaurant", http.StatusInternalServerError)
		return
	}
	if restaurant == nil {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, newRestaurantResponse(restaurant))
}

// ReplaceRestaurant handles a whole-document update
func (rc *RestaurantController) ReplaceRestaurant(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid restaurant ID", http.StatusBadRequest)
		return
	}

	var req restaurantRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	restaurant, err := req.toRestaurant(id.Hex())
	if err != nil {
		http.Error(w, "Invalid cuisine code", http.StatusBadRequest)
		return
	}

	if !restaurant.Validate() {
		writeValidationErrors(w, restaurant.ValidationResult)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	err = rc.Repository.ReplaceFull(ctx, restaurant)
	if errors.Is(err, repository.ErrNoModification) {
		http.Error(w, "No restaurant was modified", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Error updating restaurant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"data": "Restaurant updated successfully"})
}

// PatchCuisine updates only the cuisine field of a restaurant
func (rc *RestaurantController) PatchCuisine(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid restaurant ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Cuisine int `json:"cuisine"`
	}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	cuisine, err := models.CuisineFromInt(req.Cuisine)
	if err != nil {
		http.Error(w, "Invalid cuisine code", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	err = rc.Repository.PatchCuisine(ctx, id.Hex(), cuisine)
	if errors.Is(err, repository.ErrNoModification) {
		http.Error(w, "No restaurant was modified", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Error updating cuisine", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"data": "Cuisine updated successfully"})
}

// DeleteRestaurant removes a restaurant and all of its ratings
func (rc *RestaurantController) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	restaurantsDeleted, ratingsDeleted, err := rc.Repository.Delete(ctx, params["id"])
	if err != nil {
		http.Error(w, "Error deleting restaurant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"restaurantsDeleted": restaurantsDeleted,
		"ratingsDeleted":     ratingsDeleted,
	})
}

// RateRestaurant records a star rating for a restaurant
func (rc *RestaurantController) RateRestaurant(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid restaurant ID", http.StatusBadRequest)
		return
	}

	var req ratingRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	rating := models.NewRating(req.Stars, req.Comment)
	if result := rating.Validate(); !result.Valid() {
		writeValidationErrors(w, result)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := rc.Repository.InsertRating(ctx, id.Hex(), rating); err != nil {
		http.Error(w, "Error recording rating", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"data": "Rating recorded successfully"})
}

// GetTopRated ranks restaurants by average stars using per-group
// follow-up queries
func (rc *RestaurantController) GetTopRated(w http.ResponseWriter, r *http.Request) {
	rc.topRated(w, r, rc.Repository.TopRated)
}

// GetTopRatedLookup ranks restaurants by average stars with the join
// done inside the aggregation
func (rc *RestaurantController) GetTopRatedLookup(w http.ResponseWriter, r *http.Request) {
	rc.topRated(w, r, rc.Repository.TopRatedLookup)
}

func (rc *RestaurantController) topRated(w http.ResponseWriter, r *http.Request, query func(context.Context, int) ([]repository.RatedRestaurant, error)) {
	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	rated, err := query(ctx, limit)
	if err != nil {
		http.Error(w, "Error fetching top rated restaurants", http.StatusInternalServerError)
		return
	}

	responses := make([]ratedRestaurantResponse, 0, len(rated))
	for _, entry := range rated {
		responses = append(responses, ratedRestaurantResponse{
			Restaurant:   newRestaurantResponse(entry.Restaurant),
			AverageStars: entry.Average,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// SearchRestaurants runs a free-text search over the restaurant text
// fields
func (rc *RestaurantController) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Search query missing", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	restaurants, err := rc.Repository.SearchText(ctx, query)
	if err != nil {
		http.Error(w, "Error searching restaurants", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newRestaurantListResponse(restaurants))
}
