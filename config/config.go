package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPhotosSubDir     = "photos"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultGedcomSubDir     = "gedcom_sources"
)

const (
	defaultPhotoQueueSize   = 100
	defaultNumPhotoWorkers  = 2
	defaultThumbnailMaxSize = 300
	defaultMaxUploadMB      = 50
	defaultJWTSecret        = "development_only_jwt_secret"
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for stored assets (photos, thumbs, gedcom files)
	PhotosPath       string // full-calculated path for original photos
	ThumbnailsPath   string // full-calculated path for thumbnails
	GedcomPath       string // full-calculated path for retained GEDCOM sources

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	PhotoQueueSize  int
	NumPhotoWorkers int

	// upload limit for GEDCOM files and photos, in megabytes
	MaxUploadMB int

	// auth
	JWTSecret string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "dzinza.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	photosSubDir := getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir)
	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	gedcomSubDir := getEnvOrDefault("GEDCOM_SUBDIR", DefaultGedcomSubDir)

	jwtSecret := getEnvOrDefault("JWT_SECRET", defaultJWTSecret)
	if jwtSecret == defaultJWTSecret {
		log.Printf("Warning: JWT_SECRET not set, using insecure development default")
	}

	cfg := Config{
		DatabasePath:     dbPath,
		MediaStoragePath: absMediaStorage,
		PhotosPath:       filepath.Join(absMediaStorage, photosSubDir),
		ThumbnailsPath:   filepath.Join(absMediaStorage, thumbSubDir),
		GedcomPath:       filepath.Join(absMediaStorage, gedcomSubDir),
		ThumbnailMaxSize: getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		PhotoQueueSize:   getEnvIntOrDefault("PHOTO_QUEUE_SIZE", defaultPhotoQueueSize),
		NumPhotoWorkers:  getEnvIntOrDefault("NUM_PHOTO_WORKERS", defaultNumPhotoWorkers),
		MaxUploadMB:      getEnvIntOrDefault("MAX_UPLOAD_MB", defaultMaxUploadMB),
		JWTSecret:        jwtSecret,
	}

	return cfg, nil
}
