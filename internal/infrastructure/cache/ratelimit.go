package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
)

var _ ports.RateLimiter = (*RateLimiter)(nil)

const rateLimitPrefix = "ratelimit:"

// tokenBucketScript token bucket atómico: recarga y consumo en una sola operación.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens por segundo
	local burst = tonumber(ARGV[2])     -- capacidad del bucket
	local now = tonumber(ARGV[3])       -- segundos
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return allowed
`)

// RateLimiter limita por clave con un token bucket en Redis.
// La clave se hashea: no se guardan emails en Redis.
type RateLimiter struct {
	client *redis.Client
	rate   float64 // tokens por segundo
	burst  int
	ttl    time.Duration
	now    func() time.Time
}

// NewRateLimiter permite perMinute solicitudes por minuto por clave, con ráfagas de hasta perMinute.
func (c *Cache) NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		client: c.client,
		rate:   float64(perMinute) / 60.0,
		burst:  perMinute,
		ttl:    2 * time.Minute,
		now:    time.Now,
	}
}

// Allow consume un token de key. perMinute 0 permite todo.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.burst <= 0 {
		return true, nil
	}
	allowed, err := tokenBucketScript.Run(ctx, l.client,
		[]string{rateLimitPrefix + hashKey(key)},
		l.rate, l.burst, l.now().Unix(), int(l.ttl.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit: %w", err)
	}
	return allowed == 1, nil
}

// hashKey SHA256 truncado de la clave.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
