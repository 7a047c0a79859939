package main

import (
	"context"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"google.golang.org/api/option"

	"github.com/sportstock/backend/internal/config"
	"github.com/sportstock/backend/internal/handlers"
	appMiddleware "github.com/sportstock/backend/internal/middleware"
	"github.com/sportstock/backend/internal/services"
	"github.com/sportstock/backend/internal/storage"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Firebase Auth (server-side verification of provider ID tokens) plus the
	// Firestore client when that backend is selected. Both are optional; the
	// server still runs with email/password auth and the file store.
	var authClient *fbauth.Client
	var firestoreClient *firestore.Client
	if cfg.FirebaseProjectID != "" {
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase app: %v", err)
		}
		authClient, err = app.Auth(ctx)
		if err != nil {
			log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
		}
		if cfg.StorageBackend == "firestore" {
			firestoreClient, err = app.Firestore(ctx)
			if err != nil {
				log.Fatalf("Failed to initialize Firestore client: %v", err)
			}
		}
	}

	// Inventory document store and user directory.
	var store services.InventoryStore
	var users services.UserStore
	switch cfg.StorageBackend {
	case "mongo":
		mongoStore, err := services.NewMongoInventoryStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoStore.Close(ctx)
		mongoUsers, err := services.NewMongoUserService(ctx, mongoStore)
		if err != nil {
			log.Fatalf("Failed to initialize Mongo user service: %v", err)
		}
		store = mongoStore
		users = mongoUsers
	case "firestore":
		if firestoreClient == nil {
			log.Fatal("STORAGE_BACKEND=firestore requires FIREBASE_PROJECT_ID")
		}
		store = services.NewFirestoreInventoryStore(firestoreClient)
		users = services.NewUserService()
	default:
		fileStore, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize file store: %v", err)
		}
		store = fileStore
		users = services.NewUserService()
	}

	syncService := services.NewSyncService(store)
	adviceService := services.NewAdviceService(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)

	var verifier appMiddleware.TokenVerifier
	if authClient != nil {
		verifier = authClient
	}

	authHandler := handlers.NewAuthHandler(users, verifier, cfg.JWTSecret, cfg.JWTExpiration)
	inventoryHandler := handlers.NewInventoryHandler(syncService, adviceService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/federated", authHandler.Federated)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Auth(cfg.JWTSecret, verifier))

			r.Get("/profile", authHandler.GetProfile)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventoryHandler.List)
				r.Get("/groups", inventoryHandler.Groups)
				r.Get("/suggestions", inventoryHandler.Suggestions)
				r.Get("/stream", inventoryHandler.Stream)
				r.Get("/report", inventoryHandler.Report)
				r.Post("/advice", inventoryHandler.Advice)

				r.Post("/items", inventoryHandler.AddItem)
				r.Route("/items/{itemID}", func(r chi.Router) {
					r.Post("/adjust", inventoryHandler.AdjustItem)
					r.Delete("/", inventoryHandler.DeleteItem)
				})
			})
		})
	})

	log.Printf("Sports Stock API server starting on %s (storage=%s)", cfg.ServerAddress, cfg.StorageBackend)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
