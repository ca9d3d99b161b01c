package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ymurata/peoplewiki/api/handlers"
	"github.com/ymurata/peoplewiki/internal/repository"
)

// NewRouter wires the HTTP surface. The transport stays a thin layer
// over the stores; every route maps onto exactly one core operation.
func NewRouter(db *repository.Database, person *handlers.PersonHandler, event *handlers.EventHandler, family *handlers.FamilyHandler) *gin.Engine {
	r := gin.Default()

	// Ping endpoint for health check
	r.GET("/ping", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(503, gin.H{"message": "database unreachable"})
			return
		}
		c.JSON(200, gin.H{"message": "pong"})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		v1.GET("/people", person.List)
		v1.POST("/people", person.Create)
		v1.GET("/people/:id", person.Get)
		v1.PUT("/people/:id", person.Update)
		v1.DELETE("/people/:id", person.Delete)
		v1.GET("/people/:id/profile", person.Profile)

		v1.GET("/people/:id/events", event.ListForPerson)
		v1.POST("/people/:id/events", event.Create)
		v1.PUT("/events/:id", event.Update)
		v1.DELETE("/events/:id", event.Delete)

		v1.GET("/people/:id/family", family.ListForPerson)
		v1.POST("/people/:id/family", family.Create)
		v1.DELETE("/family/:id", family.Delete)
		v1.GET("/family/:id/claim", family.ClaimPrefill)
	}

	return r
}
