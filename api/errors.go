package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/venuedesk/tableops/internal/domain"
)

// respondError maps the operation error taxonomy onto HTTP statuses.
// Conflict and validation failures carry the sentinel message verbatim;
// they are expected outcomes, never retried server-side.
func respondError(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case domain.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
