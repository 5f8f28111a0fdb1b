package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communitycore/membership-system/internal/api/middleware"
	"github.com/communitycore/membership-system/internal/core/domain"
)

// ctxSubject extracts the verified token subject injected by the Auth
// middleware. An empty subject means the middleware did not run on this
// route; fail closed with 401 rather than trusting the request.
func ctxSubject(c echo.Context) (string, error) {
	subject, _ := c.Get(middleware.SubjectKey).(string)
	if subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return subject, nil
}

// ctxMember extracts the member profile resolved by the role gate.
func ctxMember(c echo.Context) (*domain.Member, error) {
	m, _ := c.Get(middleware.MemberKey).(*domain.Member)
	if m == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return m, nil
}
