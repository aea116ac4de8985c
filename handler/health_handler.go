package handler

import (
	"log"
	"runtime"
	"time"

	"maplenotes/repository"
	"maplenotes/utils"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthHandler reports process and storage health. The response names
// the configured storage engine so operators can tell the two backend
// variants apart.
func HealthHandler(c *gin.Context, store repository.Store) {
	if err := store.Ping(c.Request.Context()); err != nil {
		log.Printf("Health check failed to reach %s: %v", store.Backend(), err)
		utils.ServiceUnavailable(c, gin.H{
			"status":   "unhealthy",
			"database": store.Backend(),
			"backend":  "gin",
		})
		return
	}

	utils.Success(c, gin.H{
		"status":   "healthy",
		"database": store.Backend(),
		"backend":  "gin",
	})
}

// StatsHandler exposes basic process statistics for local debugging.
func StatsHandler(c *gin.Context) {
	utils.Success(c, gin.H{
		"uptime":         time.Since(startTime).Round(time.Second).String(),
		"goroutines":     runtime.NumGoroutine(),
		"cpu_percent":    utils.GetCPUUsage(),
		"memory_percent": utils.GetMemoryUsage(),
	})
}
