// routes/routes.go
package routes

import (
	"restaurant-directory/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, restaurantController *controllers.RestaurantController) {
	// Fixed paths first so they are not captured by the {id} routes
	router.HandleFunc("/restaurants/top", restaurantController.GetTopRated).Methods("GET")
	router.HandleFunc("/restaurants/top/lookup", restaurantController.GetTopRatedLookup).Methods("GET")
	router.HandleFunc("/restaurants/search", restaurantController.SearchRestaurants).Methods("GET")

	router.HandleFunc("/restaurants", restaurantController.CreateRestaurant).Methods("POST")
	router.HandleFunc("/restaurants", restaurantController.GetRestaurants).Methods("GET")
	router.HandleFunc("/restaurants/{id}", restaurantController.GetRestaurantByID).Methods("GET")
	router.HandleFunc("/restaurants/{id}", restaurantController.ReplaceRestaurant).Methods("PUT")
	router.HandleFunc("/restaurants/{id}", restaurantController.DeleteRestaurant).Methods("DELETE")
	router.HandleFunc("/restaurants/{id}/cuisine", restaurantController.PatchCuisine).Methods("PATCH")
	router.HandleFunc("/restaurants/{id}/ratings", restaurantController.RateRestaurant).Methods("POST")
}
