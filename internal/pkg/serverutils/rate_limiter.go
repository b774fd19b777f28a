package serverutils

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// LoginRateLimiter throttles credential attempts per client IP. A
// non-positive perMinute disables throttling.
func LoginRateLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(ctx *fiber.Ctx) error { return ctx.Next() }
	}

	limiters := cache.New(10*time.Minute, 10*time.Minute)
	var mu sync.Mutex

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if x, found := limiters.Get(ip); found {
			limiters.Set(ip, x, cache.DefaultExpiration)
			return x.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		limiters.Set(ip, l, cache.DefaultExpiration)
		return l
	}

	return func(ctx *fiber.Ctx) error {
		if !limiterFor(ctx.IP()).Allow() {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(429, "Too many attempts. Please wait a moment."))
		}
		return ctx.Next()
	}
}
