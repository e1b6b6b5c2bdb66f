package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// AuditTrail records successful administrative write operations.
// Route patterns are mapped to audit actions; reads and failed requests
// are not audited.
func AuditTrail(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		var actor string
		if u, exists := c.Get(CtxAdminUser); exists {
			if name, ok := u.(string); ok {
				actor = name
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditEntry{
			ID:           domain.NewID(domain.AuditIDPrefix),
			Actor:        actor,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			Details:      string(details),
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/auth/login":
		return domain.AuditActionLogin, "session"
	case "/api/v1/recipients":
		return domain.AuditActionRegisterRecipient, "recipient"
	case "/api/v1/recipients/:id/fund":
		return domain.AuditActionFundRecipient, "recipient"
	case "/api/v1/vendors":
		return domain.AuditActionRegisterVendor, "vendor"
	}
	return "", ""
}
