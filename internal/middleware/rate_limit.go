package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter associa um limitador de taxa ao último acesso do cliente
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter aplica limite de requisições por minuto por IP de cliente
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	stopChan chan struct{}
}

// NewRateLimiter cria um limitador com o número de requisições por minuto
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    requestsPerMinute / 10,
		stopChan: make(chan struct{}),
	}
	if rl.burst < 1 {
		rl.burst = 1
	}

	go rl.cleanup()

	return rl
}

// getLimiter retorna o limitador do cliente, criando se necessário
func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rl.limit, rl.burst),
		}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()

	return client.limiter
}

// Middleware retorna o handler gin que aplica o limite
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !rl.getLimiter(clientIP).Allow() {
			log := logger.Get(c.Request.Context())
			log.Warn().
				Str("client_ip", clientIP).
				Str("path", c.Request.URL.Path).
				Msg("Limite de requisições excedido")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Limite de requisições excedido, tente novamente em instantes",
				"code":    "RATE_LIMIT_EXCEEDED",
			})
			return
		}

		c.Next()
	}
}

// cleanup remove periodicamente clientes inativos
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for ip, client := range rl.clients {
				if client.lastSeen.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopChan:
			return
		}
	}
}

// Stop encerra a goroutine de limpeza
func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}
