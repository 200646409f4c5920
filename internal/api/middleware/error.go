package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// ErrorHandlingMiddleware recovers panics and maps application errors onto
// HTTP responses
func ErrorHandlingMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error("Panic recovered in HTTP handler")

		utils.SendError(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}

// HandleServiceError writes the response for an error returned by a service
// call. Application errors keep their status code; anything else is a 500.
func HandleServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.Details != "" {
			utils.SendErrorWithDetails(c, appErr.Code, appErr.Message, appErr.Details)
		} else {
			utils.SendError(c, appErr.Code, appErr.Message)
		}
		return
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("Unhandled service error")

	utils.SendError(c, http.StatusInternalServerError, "Internal server error")
}
