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
	log "github.com/sirupsen/logrus"

	"github.com/trigono-learn/trigono_api/services/handlers"
	"github.com/trigono-learn/trigono_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc      *AuthService
	progressSvc  *ProgressService
	contentSvc   *ContentService
	rateLimitSvc *RateLimitService

	port int
	app  *fiber.App
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
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	svc.app = fiber.New(fiber.Config{
		AppName:      "trigono_api",
		ErrorHandler: svc.handleError,
		JSONEncoder:  shared.Marshal,
		JSONDecoder:  shared.Unmarshal,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	svc.app.Use(MonitoringMiddleware())

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("HTTP service listening")
	return svc.app.Listen(fmt.Sprintf(":%d", svc.port))
}

func (svc *HttpService) registerRoutes() {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)

	svc.app.Get("/ping", svc.ping)

	v1 := svc.app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Middleware("register"), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Middleware("login"), authHandler.Login)

	authed := v1.Group("", svc.authSvc.RequiredAuth())

	authed.Get("/user", progressHandler.GetUserState)
	authed.Get("/lessons", progressHandler.ListLessons)
	authed.Get("/lessons/:id", contentHandler.GetLesson)
	authed.Get("/lessons/:id/exercises", contentHandler.GetExercises)
	authed.Post("/exercises/verify", svc.rateLimitSvc.Middleware("verify_answer"), contentHandler.VerifyAnswer)
	authed.Post("/lessons/complete", svc.rateLimitSvc.Middleware("lesson_complete"), progressHandler.CompleteLesson)

	admin := authed.Group("/admin")
	admin.Post("/lessons", contentHandler.CreateLesson)
	admin.Post("/lessons/:id/exercises", contentHandler.CreateExercise)
	admin.Post("/lessons/:id/diagram", contentHandler.UploadDiagram)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
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

	return shared.ResponseOK(c, "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithError(appErr.Err).WithField("path", c.Path()).Error("Request failed")
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
