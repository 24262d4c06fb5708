package main

import (
	"log"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/dsn"
	"greenbites/internal/app/role"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Donation{},
		&ds.Request{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Начальный администратор
	var count int64
	db.Model(&ds.User{}).Where("role = ?", int(role.Admin)).Count(&count)
	if count == 0 {
		password, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin := ds.User{
			Login:    "admin",
			Password: string(password),
			FullName: "Administrator",
			Role:     int(role.Admin),
			IsActive: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
		log.Println("Admin user seeded (login: admin)")
	}

	log.Println("Database migration completed successfully")
}
