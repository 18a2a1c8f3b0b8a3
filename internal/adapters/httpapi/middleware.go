package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/example/waterwatch/internal/ctxutil"
)

// Actor headers. Role assertion is left to the deployment's auth proxy; the
// engine only threads the claimed identity through for role defaults and the
// audit trail.
const (
	HeaderActorRole     = "X-Actor-Role"
	HeaderActorDistrict = "X-Actor-District"
)

// ActorMiddleware copies the actor headers into the request context so the
// services and audit log see who is calling.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(HeaderActorRole)
		district := c.GetHeader(HeaderActorDistrict)
		if role != "" || district != "" {
			ctx := ctxutil.WithActor(c.Request.Context(), ctxutil.Actor{
				Role:     role,
				District: district,
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
