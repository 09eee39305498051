package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mkamau56/tutorhub/auth"
	config "github.com/mkamau56/tutorhub/configs"
	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/guard"
	"github.com/mkamau56/tutorhub/handlers"
	"github.com/mkamau56/tutorhub/jobs"
	"github.com/mkamau56/tutorhub/notifications"
	"github.com/mkamau56/tutorhub/routes"
	"github.com/mkamau56/tutorhub/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.ConnectRedis()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	gateway := auth.NewDBGateway(database.DB, database.Redis, config.Config("JWT_SECRET"), 72*time.Hour)
	store := auth.NewStore(gateway, notifications.Dispatcher{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)
	defer store.Close()

	c := cron.New()
	if _, err := c.AddFunc("*/5 * * * *", jobs.CompleteElapsedSessions); err != nil {
		log.Fatalf("🔥 Failed to schedule completion job: %v", err)
	}
	if _, err := c.AddFunc("*/5 * * * *", jobs.SendSessionReminders); err != nil {
		log.Fatalf("🔥 Failed to schedule reminder job: %v", err)
	}
	c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "TutorHub",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to TutorHub API",
		})
	})

	authHandler := &handlers.AuthHandler{Store: store}
	profileHandler := &handlers.ProfileHandler{Store: store}
	pageGuard := guard.New(store, store)

	routes.PublicRoutes(app)
	routes.AuthRoutes(app, authHandler)
	routes.ProfileRoutes(app, profileHandler)
	routes.TutorRoutes(app)
	routes.SessionRoutes(app)
	routes.AdminRoutes(app)
	routes.PageRoutes(app, pageGuard)
	routes.NotificationRoutes(app, store)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
