package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgRateLimited        = "слишком много запросов"
	msgRateLimiterFailure = "ограничитель запросов недоступен"

	backendRedis  = "redis"
	backendMemory = "memory"
)

// RejectionCounter учитывает отклоненные запросы
type RejectionCounter interface {
	IncRateLimitRejected(backend string)
}

// Limiter решает, пропускать ли очередной запрос клиента
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Backend() string
}

// fixedWindowScript INCR + PEXPIRE на первом запросе окна
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter фиксированное окно в Redis, общее для всех инстансов
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter создает лимитер на Redis
func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow увеличивает счетчик окна и сравнивает с лимитом
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		count, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unexpected redis script result type %T", res)
	}
	return count <= int64(l.limit), nil
}

// Backend имя бэкенда для метрик
func (l *RedisLimiter) Backend() string { return backendRedis }

// MemoryLimiter token bucket на клиента в памяти процесса, используется без Redis
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewMemoryLimiter создает лимитер limit запросов за window
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
	}
}

// Allow забирает токен из ведра клиента
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// Backend имя бэкенда для метрик
func (l *MemoryLimiter) Backend() string { return backendMemory }

// RateLimit ограничивает частоту запросов по ключу клиента.
// При ошибке лимитера failOpen пропускает запрос, иначе отвечает 503.
func RateLimit(limiter Limiter, counter RejectionCounter, failOpen bool, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), ClientKey(r))
			if err != nil {
				logger.Warn("RateLimit: %s limiter error: %v", limiter.Backend(), err)
				if failOpen {
					next.ServeHTTP(w, r)
					return
				}
				handlers.RespondError(w, http.StatusServiceUnavailable, msgRateLimiterFailure)
				return
			}
			if !allowed {
				if counter != nil {
					counter.IncRateLimitRejected(limiter.Backend())
				}
				handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey ключ клиента: пользователь, если известен, иначе IP
func ClientKey(r *http.Request) string {
	if userID, ok := ParseUserID(r); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
