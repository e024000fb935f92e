package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/trigono-learn/trigono_api/shared"
)

// RateLimitService throttles abuse-prone endpoints with fixed-window
// counters kept in redis (one key per client+endpoint per window).
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		"verify_answer": {
			EndpointType: "verify_answer",
			MaxRequests:  120,
			WindowSize:   time.Minute,
			Description:  "Answer verification rate limit",
			IsActive:     true,
		},
		"lesson_complete": {
			EndpointType: "lesson_complete",
			MaxRequests:  20,
			WindowSize:   time.Hour,
			Description:  "Lesson completion rate limit",
			IsActive:     true,
		},
	}
}

func (svc *RateLimitService) getConfig(endpointType string) *RateLimitConfig {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	return svc.configs[endpointType]
}

// Allow checks and consumes one request for the identifier.
func (svc *RateLimitService) Allow(identifier, endpointType string) error {
	config := svc.getConfig(endpointType)
	if config == nil || !config.IsActive {
		return nil
	}

	window := time.Now().Unix() / int64(config.WindowSize.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, identifier, window)

	count, err := svc.redisSvc.IncrWindow(context.Background(), key, config.WindowSize)
	if err != nil {
		// Rate limiting must not take the API down with it.
		log.WithError(err).Warn("Rate limit check failed, allowing request")
		return nil
	}

	if count > int64(config.MaxRequests) {
		log.WithFields(log.Fields{
			"identifier": identifier,
			"endpoint":   endpointType,
			"count":      count,
		}).Warn("Rate limit exceeded")
		return &shared.AppError{
			StatusCode: fiber.StatusTooManyRequests,
			Message:    "Too many requests, try again later",
			Err:        fmt.Errorf("rate limit exceeded for %s", endpointType),
		}
	}

	return nil
}

// Middleware throttles the wrapped route by client IP.
func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Allow(c.IP(), endpointType); err != nil {
			return err
		}
		return c.Next()
	}
}
