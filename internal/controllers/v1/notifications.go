package v1

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/kalkyl-app/backend/internal/httputil"
	"github.com/kalkyl-app/backend/internal/notify"
)

// RegisterNotificationRoutes registers the notification stream with
// the RouterGroup that is passed.
func RegisterNotificationRoutes(r *gin.RouterGroup, notifications *notify.Service) {
	r.OPTIONS("", OptionsNotifications)
	r.GET("", GetNotifications(notifications))
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications [options]
func OptionsNotifications(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Notification stream
// @Description	Streams save and delete notifications as server-sent events until the client disconnects
// @Tags			Notifications
// @Produce		text/event-stream
// @Success		200
// @Router			/v1/notifications [get]
func GetNotifications(notifications *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, cancel := notifications.Subscribe()
		defer cancel()

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(_ io.Writer) bool {
			select {
			case message, ok := <-messages:
				if !ok {
					return false
				}

				c.SSEvent("notification", message)
				return true

			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
