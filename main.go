package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("hl/healthylife-go-api: ")
	log.SetFlags(0)

	// .env is optional in production — env vars may come from the platform.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	// STORE=memory runs without Postgres (local development); anything else
	// connects a pgx pool.
	var s store
	if os.Getenv("STORE") == "memory" {
		fmt.Println("Using in-memory store")
		s = newMemoryStore()
	} else {
		s = &postgresStore{db: getDBPool()}
	}

	h := &Handler{store: s}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	fmt.Printf("Starting gin app on :%s...\n", port)
	// cors wraps the gin engine so browser clients on other origins can call
	// the API.
	if err := http.ListenAndServe(":"+port, cors.AllowAll().Handler(router)); err != nil {
		log.Fatal(err)
	}
}
