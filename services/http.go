package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/skillside-labs/questly_api/docs"
	"github.com/skillside-labs/questly_api/services/handlers"
	"github.com/skillside-labs/questly_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc         *AuthService
	gamificationSvc *GamificationService
	challengeSvc    *ChallengeService
	leaderboardSvc  *LeaderboardService
	catalogSvc      *CatalogService
	rateLimitSvc    *RateLimitService
	monitoringSvc   *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.gamificationSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)
	svc.challengeSvc = svc.Service(CHALLENGE_SVC).(*ChallengeService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	gamificationHandler := handlers.NewGamificationHandler(svc.gamificationSvc)
	challengeHandler := handlers.NewChallengeHandler(svc.challengeSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.leaderboardSvc)
	adminHandler := handlers.NewAdminHandler(svc.catalogSvc, svc.leaderboardSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Limit("auth"), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Limit("auth"), authHandler.Login)
	auth.Get("/me", svc.authSvc.RequiredAuth(), authHandler.GetMe)

	gamification := v1.Group("/gamification", svc.authSvc.RequiredAuth())
	gamification.Get("/profile", gamificationHandler.GetProfile)
	gamification.Post("/achievements/seen", gamificationHandler.MarkAchievementsSeen)
	gamification.Put("/goals", gamificationHandler.UpdateGoals)

	track := gamification.Group("/track", svc.rateLimitSvc.Limit("track"))
	track.Post("/lesson", gamificationHandler.TrackLesson)
	track.Post("/course", gamificationHandler.TrackCourse)
	track.Post("/quiz", gamificationHandler.TrackQuiz)
	track.Post("/exercise", gamificationHandler.TrackCodeExercise)
	track.Post("/study-time", gamificationHandler.TrackStudyTime)

	challenges := v1.Group("/challenges", svc.authSvc.RequiredAuth())
	challenges.Get("/", challengeHandler.GetDailyChallenges)
	challenges.Post("/:challengeId/claim", challengeHandler.ClaimReward)

	v1.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	admin := v1.Group("/admin", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Get("/badges", adminHandler.GetBadges)
	admin.Post("/badges", adminHandler.CreateBadge)
	admin.Delete("/badges/:badgeId", adminHandler.DeactivateBadge)
	admin.Post("/badges/:badgeId/icon", adminHandler.UploadBadgeIcon)
	admin.Post("/seed", adminHandler.SeedDefaults)
	admin.Post("/leaderboard/refresh/:userId", adminHandler.RefreshLeaderboard)
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithError(appErr.Err).WithField("path", c.Path()).Error(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
