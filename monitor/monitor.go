package monitor

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"law-office-api/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterMonitorRoutes mounts /monitor/status and /logs. Both require MONITOR_TOKEN;
// when the variable is unset the routes always answer 401.
func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/monitor/status", requireMonitorToken(), statusHandler)
	router.GET("/logs", requireMonitorToken(), logsHandler)
}

func requireMonitorToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("MONITOR_TOKEN")
		given := c.Query("token")
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(given)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func statusHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{
		"database": databaseStatus(ctx),
		"redis":    redisStatus(ctx),
		"mailer":   mailerStatus(),
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(startedAt).Round(time.Second).String(),
		"started_at": startedAt,
		"components": components,
	})
}

func logsHandler(c *gin.Context) {
	path := config.LogFilePath()
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "File logging is disabled"})
		return
	}
	logData, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
}

func databaseStatus(ctx context.Context) componentStatus {
	if config.DB == nil {
		return componentStatus{Status: "disabled"}
	}
	sqlDB, err := config.DB.DB()
	if err != nil {
		return componentStatus{Status: "down", Error: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentStatus{Status: "down", Error: err.Error()}
	}
	return componentStatus{Status: "up"}
}

func redisStatus(ctx context.Context) componentStatus {
	if config.RDB == nil {
		return componentStatus{Status: "disabled"}
	}
	if err := config.RDB.Ping(ctx).Err(); err != nil {
		return componentStatus{Status: "down", Error: err.Error()}
	}
	return componentStatus{Status: "up"}
}

func mailerStatus() componentStatus {
	if !config.MailerConfigured() {
		return componentStatus{Status: "disabled"}
	}
	return componentStatus{Status: "configured"}
}
