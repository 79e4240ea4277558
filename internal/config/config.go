package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/epiphanyresto/menu-backend/internal/models"
)

type Config struct {
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	JWT_SECRET    string
	KAFKA_ADDRESS string

	// Public URL the QR code points at.
	MENU_PUBLIC_URL string

	// "cascade" or "restrict"; what deleting a category does to its children.
	CATEGORY_DELETE_POLICY string

	LOG_LEVEL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:                os.Getenv("DB_HOST"),
		DB_PORT:                os.Getenv("DB_PORT"),
		DB_USER:                os.Getenv("DB_USER"),
		DB_PASSWORD:            os.Getenv("DB_PASSWORD"),
		DB_NAME:                os.Getenv("DB_NAME"),
		ES_URL:                 os.Getenv("ES_URL"),
		ES_USER:                os.Getenv("ES_USER"),
		ES_PASSWORD:            os.Getenv("ES_PASSWORD"),
		JWT_SECRET:             os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS:          os.Getenv("KAFKA_ADDRESS"),
		MENU_PUBLIC_URL:        os.Getenv("MENU_PUBLIC_URL"),
		CATEGORY_DELETE_POLICY: os.Getenv("CATEGORY_DELETE_POLICY"),
		LOG_LEVEL:              os.Getenv("LOG_LEVEL"),
	}

	if config.MENU_PUBLIC_URL == "" {
		config.MENU_PUBLIC_URL = "http://localhost:8080/menu"
	}
	if config.CATEGORY_DELETE_POLICY == "" {
		config.CATEGORY_DELETE_POLICY = "cascade"
	}

	return config, nil
}

func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Subcategory{},
		&models.Product{},
		&models.ProductExtra{},
		&models.ProductVerre{},
		&models.AdminSetting{},
	); err != nil {
		return nil, fmt.Errorf("cannot run migrations: %w", err)
	}
	return db, nil
}
