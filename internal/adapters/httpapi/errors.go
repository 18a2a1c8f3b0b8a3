package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/waterwatch/internal/faults"
)

// writeError translates a fault into an HTTP status and a stable error body.
// Clients dispatch on kind, not on message text.
func writeError(c *gin.Context, err error) {
	kind := faults.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case faults.KindValidation, faults.KindGeo:
		status = http.StatusBadRequest
	case faults.KindInvalidTransition:
		status = http.StatusUnprocessableEntity
	case faults.KindNotFound:
		status = http.StatusNotFound
	case faults.KindConflict:
		status = http.StatusConflict
	}

	c.AbortWithStatusJSON(status, gin.H{
		"kind":  kind,
		"error": err.Error(),
	})
}
