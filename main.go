// main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"restaurant-directory/config"
	"restaurant-directory/controllers"
	"restaurant-directory/middleware"
	"restaurant-directory/repository"
	"restaurant-directory/routes"
	"restaurant-directory/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg := config.LoadConfig()

	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			logger.Fatal("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	repo := repository.NewRestaurantRepository(client.Database(cfg.MongoDatabase), logger)
	restaurantController := controllers.NewRestaurantController(repo)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, restaurantController)

	// Start the server
	logger.Info("server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("database", cfg.MongoDatabase),
	)
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
