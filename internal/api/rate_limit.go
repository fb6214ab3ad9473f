package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	rateLimitMaxClients = 10000
	rateLimitIdleTTL    = 10 * time.Minute
)

// clientLimiter 单客户端令牌桶及最近活跃时间
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiterStore 按客户端 IP 缓存令牌桶
// 条目数达到上限时先淘汰闲置条目,仍满则淘汰最久未活跃的
type clientLimiterStore struct {
	mu         sync.Mutex
	rps        float64
	burst      int
	maxClients int
	idleTTL    time.Duration
	entries    map[string]*clientLimiter
}

func newClientLimiterStore(rps float64, burst, maxClients int, idleTTL time.Duration) *clientLimiterStore {
	return &clientLimiterStore{
		rps:        rps,
		burst:      burst,
		maxClients: maxClients,
		idleTTL:    idleTTL,
		entries:    make(map[string]*clientLimiter),
	}
}

func (s *clientLimiterStore) get(clientIP string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[clientIP]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	if len(s.entries) >= s.maxClients {
		s.evict(now)
	}

	entry := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastSeen: now,
	}
	s.entries[clientIP] = entry
	return entry.limiter
}

// evict 先清理闲置超时条目;一个都没清掉时移除最久未活跃的
func (s *clientLimiterStore) evict(now time.Time) {
	evicted := false
	for ip, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.entries, ip)
			evicted = true
		}
	}
	if evicted {
		return
	}

	var oldestIP string
	var oldestSeen time.Time
	for ip, entry := range s.entries {
		if oldestIP == "" || entry.lastSeen.Before(oldestSeen) {
			oldestIP = ip
			oldestSeen = entry.lastSeen
		}
	}
	if oldestIP != "" {
		delete(s.entries, oldestIP)
	}
}

func (s *clientLimiterStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RateLimitMiddleware 按客户端 IP 限流
// 每个客户端独立令牌桶,避免单一客户端耗尽全局配额
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := newClientLimiterStore(rps, burst, rateLimitMaxClients, rateLimitIdleTTL)

	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
