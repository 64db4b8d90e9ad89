package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	UploadDir  string
}

func LoadConfig() (*Config, error) {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads/"
	}
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		UploadDir:  uploadDir,
	}, nil
}

func EnsureUploadDir(cfg *Config) error {
	return os.MkdirAll(cfg.UploadDir, os.ModePerm)
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Venue{},
		&models.EventCategory{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		return nil, err
	}

	seedRoles(db)
	seedCategories(db)

	return db, nil
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleAdmin},
		{Name: models.RoleOrganizer},
		{Name: models.RoleUser},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}

func seedCategories(db *gorm.DB) {
	categories := []models.EventCategory{
		{CategoryID: 1, Title: "Wedding", IsActive: true},
		{CategoryID: 2, Title: "Conference", IsActive: true},
		{CategoryID: 3, Title: "Concert", IsActive: true},
		{CategoryID: 4, Title: "Exhibition", IsActive: true},
		{CategoryID: 5, Title: "Workshop", IsActive: true},
		{CategoryID: 6, Title: "Party", IsActive: true},
	}

	for _, category := range categories {
		var existing models.EventCategory
		result := db.Where("category_id = ?", category.CategoryID).First(&existing)
		if result.Error != nil {
			db.Create(&category)
		}
	}
}
