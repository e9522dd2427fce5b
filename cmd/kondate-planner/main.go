package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kondate-planner/internal/api"
	"kondate-planner/internal/clipper"
	"kondate-planner/internal/config"
	"kondate-planner/internal/database"
	"kondate-planner/internal/inventory"
	"kondate-planner/internal/llm"
	"kondate-planner/internal/meal"
	"kondate-planner/internal/recipe"
	"kondate-planner/internal/shopping"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var generator *recipe.Generator
	var recipeClipper *clipper.Clipper
	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	} else {
		log.Println("GEMINI_API_KEY not set; recipe generation and clipping are disabled.")
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	mealRepo := meal.NewRepository(db.SQL)
	inventoryRepo := inventory.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)

	builder := shopping.NewBuilder(mealRepo, inventoryRepo, shoppingRepo)
	if textGen != nil {
		generator = recipe.NewGenerator(textGen)
		recipeClipper = clipper.NewClipper(recipeRepo, textGen)
	}

	server := api.New(mealRepo, inventoryRepo, shoppingRepo, builder, recipeRepo, generator, recipeClipper)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
