package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/reserva/internal/principal"
)

// Caller identity headers asserted by the upstream gateway. The gateway
// terminates authentication; this service only enforces tenancy.
const (
	headerUserID     = "X-User-ID"
	headerRole       = "X-Role"
	headerMerchantID = "X-Merchant-ID"
)

const principalContextKey = "server.principal"

// RequirePrincipal extracts the caller identity from the gateway headers
// and rejects requests that carry no usable role.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := principalFromHeaders(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(principalContextKey, p)
		c.Next()
	}
}

func principalFromHeaders(c *gin.Context) (principal.Principal, error) {
	role := principal.Role(strings.ToLower(strings.TrimSpace(c.GetHeader(headerRole))))
	switch role {
	case principal.RoleAdmin, principal.RoleOperator, principal.RoleCustomer:
	default:
		return principal.Principal{}, ErrUnauthorized
	}

	p := principal.Principal{
		UserID: strings.TrimSpace(c.GetHeader(headerUserID)),
		Role:   role,
	}
	if raw := strings.TrimSpace(c.GetHeader(headerMerchantID)); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return principal.Principal{}, ErrUnauthorized
		}
		p.MerchantID = id
	}
	return p, nil
}

func currentPrincipal(c *gin.Context) principal.Principal {
	if v, ok := c.Get(principalContextKey); ok {
		if p, ok := v.(principal.Principal); ok {
			return p
		}
	}
	return principal.Principal{}
}
