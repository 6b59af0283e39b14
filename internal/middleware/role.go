package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/response"
)

// ContextMembership is the gin context key holding the caller's
// membership of the workplace being accessed
const ContextMembership = "membership"

// MembershipLookup resolves the caller's membership of a workplace.
// repository.MembershipRepository satisfies it.
type MembershipLookup interface {
	FindByWorkplaceAndUser(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error)
}

// RequireRole gates a workplace-scoped route by minimum role. Callers
// without a membership get the same 404 as a nonexistent workplace, so
// membership checks never leak workplace existence. Only members with a
// role below the minimum see a 403.
func RequireRole(lookup MembershipLookup, min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		workplaceID, err := uuid.Parse(c.Param("workplaceId"))
		if err != nil {
			response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
			c.Abort()
			return
		}

		membership, err := lookup.FindByWorkplaceAndUser(c.Request.Context(), workplaceID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
			} else {
				response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to check membership")
			}
			c.Abort()
			return
		}

		if !membership.Role.AtLeast(min) {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Insufficient role")
			c.Abort()
			return
		}

		c.Set(ContextMembership, membership)
		c.Next()
	}
}

// MembershipFromContext extracts the membership set by RequireRole
func MembershipFromContext(c *gin.Context) (*domain.Membership, bool) {
	value, exists := c.Get(ContextMembership)
	if !exists {
		return nil, false
	}
	membership, ok := value.(*domain.Membership)
	return membership, ok
}
