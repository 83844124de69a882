package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"region-quest-system/handlers"
	"region-quest-system/middleware"
	"region-quest-system/models"
	"region-quest-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.Region{},
		&models.Quest{},
		&models.Complete{},
		&models.Feed{},
		&models.Comment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	kakaoBaseURL := os.Getenv("KAKAO_BASE_URL")
	if kakaoBaseURL == "" {
		kakaoBaseURL = "https://dapi.kakao.com/v2/local"
	}
	kakaoAPIKey := os.Getenv("KAKAO_REST_API_KEY")
	if kakaoAPIKey == "" {
		log.Fatal("KAKAO_REST_API_KEY environment variable not set")
	}
	jusoBaseURL := os.Getenv("JUSO_BASE_URL")
	if jusoBaseURL == "" {
		jusoBaseURL = "https://business.juso.go.kr/addrlink/addrLinkApi.do"
	}
	jusoConfirmKey := os.Getenv("JUSO_CONFIRM_KEY")
	if jusoConfirmKey == "" {
		log.Fatal("JUSO_CONFIRM_KEY environment variable not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	tzName := os.Getenv("QUEST_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Seoul"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatal("invalid QUEST_TIMEZONE:", err)
	}

	batchSize := services.DefaultGeocodeBatchSize
	if v := os.Getenv("GEOCODE_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatal("invalid GEOCODE_BATCH_SIZE:", v)
		}
		batchSize = n
	}

	kakao := services.NewKakaoClient(kakaoBaseURL, kakaoAPIKey)
	juso := services.NewJusoClient(jusoBaseURL, jusoConfirmKey)
	clock := services.NewTodayClock(loc)
	synth := services.NewSynthesizer(juso, kakao, batchSize, loc)

	questService := services.NewQuestService(db, kakao, juso, synth, clock)
	playerService := services.NewPlayerService(db, jwtSecret)
	feedService := services.NewFeedService(db)
	commentService := services.NewCommentService(db)

	questService.StartQuestScheduler()

	app.Use(middleware.PlayerContextMiddleware(jwtSecret))

	handlers.SetupQuestRoutes(app, questService, feedService, commentService)
	handlers.SetupPlayerRoutes(app, playerService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5100"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Quest scheduler running (midnight snapshot + 02:00 rollover, %s)", tzName)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
