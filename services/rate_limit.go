package services

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/shared"
)

type rateLimitConfig struct {
	MaxRequests int
	WindowSize  time.Duration
	BlockTime   time.Duration
}

type rateLimitRecord struct {
	RequestCount int
	WindowStart  time.Time
	BlockedUntil time.Time
}

// RateLimitService throttles completion traffic per learner and general
// traffic per IP. Counters are in-memory; a restart resets them, which is
// acceptable for abuse damping.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*rateLimitConfig

	mutex   sync.Mutex
	records map[string]*rateLimitRecord
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.records = make(map[string]*rateLimitRecord)
	svc.configs = map[string]*rateLimitConfig{
		// Block completions faster than a human could read are abuse.
		"block_complete": {
			MaxRequests: 120,
			WindowSize:  time.Hour,
			BlockTime:   time.Hour,
		},

		"challenge_complete": {
			MaxRequests: 10,
			WindowSize:  time.Hour,
			BlockTime:   time.Hour * 2,
		},

		"api_general": {
			MaxRequests: 1000,
			WindowSize:  time.Hour,
			BlockTime:   time.Hour,
		},
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	go svc.cleanupLoop()
	return nil
}

func (svc *RateLimitService) IsAllowed(identifier, endpointType string) (bool, time.Time) {
	config, exists := svc.configs[endpointType]
	if !exists {
		return true, time.Time{}
	}

	now := time.Now()
	key := endpointType + ":" + identifier

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	record, ok := svc.records[key]
	if ok && now.Before(record.BlockedUntil) {
		return false, record.BlockedUntil
	}

	if !ok || record.WindowStart.Before(now.Add(-config.WindowSize)) {
		svc.records[key] = &rateLimitRecord{RequestCount: 1, WindowStart: now}
		return true, time.Time{}
	}

	if record.RequestCount >= config.MaxRequests {
		record.BlockedUntil = now.Add(config.BlockTime)
		return false, record.BlockedUntil
	}

	record.RequestCount++
	return true, time.Time{}
}

func (svc *RateLimitService) limit(endpointType string, identify func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, blockedUntil := svc.IsAllowed(identify(c), endpointType)
		if !allowed {
			if !blockedUntil.IsZero() {
				c.Set("Retry-After", strconv.FormatInt(blockedUntil.Unix(), 10))
			}
			return shared.ResponseJSON(c, http.StatusTooManyRequests, "Rate limit exceeded", nil)
		}
		return c.Next()
	}
}

// IPRateLimit is the general per-IP throttle applied to all routes.
func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return svc.limit("api_general", getClientIP)
}

// CompletionRateLimit throttles block completions per learner, falling back
// to IP when the request is anonymous.
func (svc *RateLimitService) CompletionRateLimit() fiber.Handler {
	return svc.limit("block_complete", learnerOrIP)
}

func (svc *RateLimitService) ChallengeRateLimit() fiber.Handler {
	return svc.limit("challenge_complete", learnerOrIP)
}

func learnerOrIP(c *fiber.Ctx) string {
	if learnerID, ok := c.Locals(shared.LearnerID).(string); ok && learnerID != "" {
		return learnerID
	}
	return getClientIP(c)
}

func getClientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.IP()
	}
	return ip
}

func (svc *RateLimitService) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		svc.cleanupOldRecords()
	}
}

func (svc *RateLimitService) cleanupOldRecords() {
	cutoff := time.Now().Add(-24 * time.Hour)

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	removed := 0
	for key, record := range svc.records {
		if record.WindowStart.Before(cutoff) && record.BlockedUntil.Before(time.Now()) {
			delete(svc.records, key)
			removed++
		}
	}

	if removed > 0 {
		log.WithField("removed", removed).Debug("Cleaned up stale rate limit records")
	}
}
