package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/chifamba/dzinza-sub003/config"
	"github.com/chifamba/dzinza-sub003/database"
	"github.com/chifamba/dzinza-sub003/handlers"
	"github.com/chifamba/dzinza-sub003/media"
	"github.com/chifamba/dzinza-sub003/realtime"
	"github.com/chifamba/dzinza-sub003/repository"
	"github.com/chifamba/dzinza-sub003/services"
	"github.com/chifamba/dzinza-sub003/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	handlers.SetJWTKey(cfg.JWTSecret)

	storagePaths := []string{cfg.PhotosPath, cfg.ThumbnailsPath, cfg.GedcomPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	statsDB, err := database.NewStatsDB(db)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize statistics queries: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePhoto:     filepath.Base(cfg.PhotosPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
		media.AssetTypeGedcom:    filepath.Base(cfg.GedcomPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	hub := realtime.NewHub()
	go hub.Run()

	userRepo := repository.NewUserRepository(db)
	treeRepo := repository.NewFamilyTreeRepository(db)
	personRepo := repository.NewPersonRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	txManager := repository.NewGormTransactionManager(db)

	importService := services.NewGedcomImportService(treeRepo, txManager, hub)
	relationshipService := services.NewRelationshipService(relationshipRepo, personRepo)
	treeService := services.NewFamilyTreeService(treeRepo, personRepo, relationshipRepo, statsDB)

	log.Printf("Initializing photo worker pool (Workers: %d, Queue Size: %d)...", cfg.NumPhotoWorkers, cfg.PhotoQueueSize)
	photoPool := workers.NewPhotoProcessor(personRepo, mediaProcessor, hub, cfg.ThumbnailMaxSize, cfg.PhotoQueueSize, cfg.NumPhotoWorkers)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing media in: %s", cfg.MediaStoragePath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := handlers.NewAuthHandler(userRepo)
	treeHandler := handlers.NewFamilyTreeHandler(treeRepo, treeService)
	personHandler := &handlers.PersonHandler{
		PersonRepo:       personRepo,
		RelationshipRepo: relationshipRepo,
		TreeRepo:         treeRepo,
		Store:            mediaStore,
		PhotoPool:        photoPool,
		Cfg:              cfg,
	}
	relationshipHandler := handlers.NewRelationshipHandler(relationshipRepo, personRepo, treeRepo, relationshipService)
	gedcomHandler := handlers.NewGedcomHandler(treeRepo, importService, mediaStore, cfg)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/roles", handlers.ListRoles)
		r.Get("/permissions", handlers.ListPermissions)

		r.Get("/ws", hub.ServeWS)

		// authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return handlers.AuthMiddleware(userRepo, next)
			})

			r.Get("/auth/me", authHandler.CurrentUser)

			r.Route("/trees", func(r chi.Router) {
				r.Get("/", treeHandler.ListTrees)
				r.Post("/", treeHandler.CreateTree)

				r.Route("/{treeID}", func(r chi.Router) {
					r.Get("/", treeHandler.GetTree)
					r.Put("/", treeHandler.UpdateTree)
					r.Delete("/", treeHandler.DeleteTree)

					r.Get("/statistics", treeHandler.GetStatistics)
					r.Post("/statistics/recompute", treeHandler.RecomputeStatistics)

					r.Post("/collaborators", treeHandler.AddCollaborator)
					r.Delete("/collaborators/{userID}", treeHandler.RemoveCollaborator)

					r.Post("/gedcom", gedcomHandler.Import)
					r.Get("/gedcom/sources", gedcomHandler.ListSources)

					r.Route("/persons", func(r chi.Router) {
						r.Get("/", personHandler.ListPersons)
						r.Post("/", personHandler.CreatePerson)
						r.Route("/{personID}", func(r chi.Router) {
							r.Get("/", personHandler.GetPerson)
							r.Put("/", personHandler.UpdatePerson)
							r.Delete("/", personHandler.DeletePerson)
							r.Put("/photo", personHandler.UploadPhoto)

							r.Get("/parents", relationshipHandler.GetParents)
							r.Get("/children", relationshipHandler.GetChildren)
							r.Get("/spouses", relationshipHandler.GetSpouses)
							r.Get("/siblings", relationshipHandler.GetSiblings)
						})
					})

					r.Route("/relationships", func(r chi.Router) {
						r.Get("/", relationshipHandler.ListRelationships)
						r.Post("/", relationshipHandler.CreateRelationship)
						r.Delete("/{relationshipID}", relationshipHandler.DeleteRelationship)
					})
				})
			})
		})

		photoSubDir := filepath.Base(cfg.PhotosPath)
		r.Get(fmt.Sprintf("/%s/*", photoSubDir), handlers.AssetServer(cfg.MediaStoragePath, photoSubDir))
		log.Printf("Registered photo server at /%s/*", photoSubDir)

		thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get(fmt.Sprintf("/%s/*", thumbnailSubDir), handlers.AssetServer(cfg.MediaStoragePath, thumbnailSubDir))
		log.Printf("Registered thumbnail server at /%s/*", thumbnailSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
