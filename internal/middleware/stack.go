package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/propdata-pk/propdata/internal/logger"
	"github.com/propdata-pk/propdata/internal/metrics"
)

// Stack returns the server's middleware chain in registration order.
// RequestID runs first so everything after it can log the ID. Metrics wraps
// Recovery so a request that panics is still counted with its 500.
func Stack(log *logger.Logger, origins []string, m *metrics.Metrics) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		RequestID(),
		Logger(log),
		Metrics(m),
		Recovery(log),
		CORS(origins),
	}
}
