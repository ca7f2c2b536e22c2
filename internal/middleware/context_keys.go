package middleware

import "github.com/gin-gonic/gin"

const actorKey = contextKey("actor")

// actorHeader names the caller for audit fields and the activity log.
// Authentication is handled upstream of this service.
const actorHeader = "X-Actor"

// defaultActor is recorded when the caller does not identify itself.
const defaultActor = "system"

// ActorMiddleware copies the caller identity header into the Gin context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(actorHeader)
		if actor == "" {
			actor = defaultActor
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the caller identity set by ActorMiddleware.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return defaultActor
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return defaultActor
	}
	return actor
}
