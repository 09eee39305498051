package database

import (
	"context"
	"fmt"
	"log"

	config "github.com/mkamau56/tutorhub/configs"
	"github.com/mkamau56/tutorhub/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

var Redis *redis.Client

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

// ConnectRedis opens the client backing the credential revocation list.
func ConnectRedis() {
	opts, err := redis.ParseURL(config.Config("REDIS_URL"))
	if err != nil {
		log.Fatalf("🔥 Invalid REDIS_URL: %v", err)
	}

	Redis = redis.NewClient(opts)
	if err := Redis.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("🔥 Failed to connect to redis: %v", err)
	}

	fmt.Println("✅ Redis connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.TutorApplication{},
		&models.Session{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		Email:         adminEmail,
		Password:      string(hashedPassword),
		Role:          models.RoleAdmin,
		EmailVerified: true,
		ProfileData: models.JSONMap{
			"first_name": config.Config("ADMIN_FIRST_NAME"),
			"last_name":  config.Config("ADMIN_LAST_NAME"),
		},
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}
