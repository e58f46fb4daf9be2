package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/pyquest-hq/pyquest_api/docs"
	"github.com/pyquest-hq/pyquest_api/services/handlers"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// HttpService owns the public API surface. Handlers return domain errors;
// the fiber error handler maps them onto the wire format.
type HttpService struct {
	context.DefaultService

	authSvc      *AuthMiddleware
	rateLimitSvc *RateLimitService

	contentHandler     *handlers.ContentHandler
	progressHandler    *handlers.ProgressHandler
	challengeHandler   *handlers.ChallengeHandler
	leaderboardHandler *handlers.LeaderboardHandler

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
	svc.authSvc = svc.Service(AUTH_MIDDLEWARE_SVC).(*AuthMiddleware)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	svc.contentHandler = handlers.NewContentHandler(svc.Service(CONTENT_SVC).(*ContentService))
	svc.progressHandler = handlers.NewProgressHandler(svc.Service(PROGRESS_SVC).(*ProgressService))
	svc.challengeHandler = handlers.NewChallengeHandler(svc.Service(CHALLENGE_SVC).(*ChallengeService))
	svc.leaderboardHandler = handlers.NewLeaderboardHandler(svc.Service(LEADERBOARD_SVC).(*LeaderboardService))

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware())
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	content := v1.Group("/content")
	content.Get("/lessons", svc.contentHandler.GetLessons)
	content.Get("/lessons/:lessonId", svc.contentHandler.GetLesson)

	progress := v1.Group("/progress", svc.authSvc.RequiredAuth())
	progress.Get("/", svc.progressHandler.GetProgress)
	progress.Post("/complete", svc.rateLimitSvc.CompletionRateLimit(), svc.progressHandler.CompleteBlock)

	challenges := v1.Group("/challenges")
	challenges.Get("/today", svc.authSvc.OptionalAuth(), svc.challengeHandler.GetActiveChallenge)
	challenges.Post("/complete", svc.authSvc.RequiredAuth(), svc.rateLimitSvc.ChallengeRateLimit(), svc.challengeHandler.CompleteChallenge)

	leaderboard := v1.Group("/leaderboard")
	leaderboard.Get("/", svc.authSvc.OptionalAuth(), svc.leaderboardHandler.GetLeaderboard)
	leaderboard.Get("/me", svc.authSvc.RequiredAuth(), svc.leaderboardHandler.GetMyRank)

	admin := v1.Group("/admin", svc.authSvc.RequiredAuth())
	admin.Post("/lessons", svc.contentHandler.CreateLesson)
	admin.Post("/challenges", svc.challengeHandler.ScheduleChallenge)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
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

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, fiber.Map{
			"code": appErr.Code,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
