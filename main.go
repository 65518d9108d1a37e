package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/vlai-dev123/Climate-data-api/internal/handlers"
	"github.com/vlai-dev123/Climate-data-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	st := newStore()
	router := handlers.NewRouter(st)

	port := getEnv("PORT", "8080")
	log.Printf("Starting Climate Data API on :%s (storage: %s)", port, st.Name())
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start Climate Data API: %v", err)
	}
}

// newStore builds the persistence backend from the environment. The default
// is Postgres; STORAGE_BACKEND=memory runs the service without a database.
func newStore() store.Store {
	backend := getEnv("STORAGE_BACKEND", "postgres")
	if backend == "memory" {
		log.Printf("Using in-memory storage; uploaded data will not survive restarts")
		return store.NewMemory()
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "climate"),
		getEnv("DB_PASSWORD", "climate"),
		getEnv("DB_NAME", "climate_db"),
		getEnv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL connection: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping PostgreSQL: %v", err)
	}
	log.Println("Successfully connected to the database.")

	pg := store.NewPostgres(db)
	if err := pg.EnsureSchema(); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	return pg
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
