package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/communitycore/membership-system/internal/api/metrics"
	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// MemberKey is the context key under which RequireRoles stores the resolved
// member profile for downstream handlers.
const MemberKey = "member"

// RequireRoles resolves the token subject to its member profile and admits
// the request only when the profile's role is in the allowed set. Role is
// read from the profile on every request, never from the token, so a role
// change takes effect on the next request.
func RequireRoles(gate ports.AccessGate, allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, _ := c.Get(SubjectKey).(string)

			member, err := gate.Authorize(c.Request().Context(), subject, allowed...)
			if err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					metrics.AuthzDenialsTotal.WithLabelValues(c.Path()).Inc()
				}
				return err
			}

			c.Set(MemberKey, member)
			return next(c)
		}
	}
}

// RequireAuthenticated resolves the token subject to its member profile
// without restricting the role. Any linked, known member passes.
func RequireAuthenticated(gate ports.AccessGate) echo.MiddlewareFunc {
	return RequireRoles(gate,
		domain.RoleMember, domain.RoleAdmin, domain.RoleWelfareAdmin, domain.RoleFinancialAdmin)
}
