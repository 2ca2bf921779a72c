package config

import "os"

type Config struct {
	MongoURI      string
	MongoDatabase string
	ServerPort    string
	Environment   string
}

func LoadConfig() *Config {
	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "restaurant_directory"),
		ServerPort:    getEnv("PORT", "8000"),
		Environment:   getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
