package billing

import (
	"net/http"

	"edustream-app/config"

	"github.com/gin-gonic/gin"
)

// GetSubscriptionInfo returns the manual payment instructions shown on the
// subscription page. Activation itself happens through the admin endpoints
// once the transfer is confirmed.
func GetSubscriptionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"price_pen":      config.PAYMENT_PRICE_PEN,
		"payment_method": "yape",
		"phone":          config.PAYMENT_YAPE_PHONE,
		"payee_name":     config.PAYMENT_YAPE_NAME,
		"note":           "Send the payment and contact us with your account email. Access is enabled manually after confirmation.",
	})
}
