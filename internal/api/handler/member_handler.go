package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// MemberHandler exposes profile updates a member may perform on themselves
// and admins may perform on anyone.
type MemberHandler struct {
	gate          ports.AccessGate
	memberService ports.MemberService
}

func NewMemberHandler(gate ports.AccessGate, memberService ports.MemberService) *MemberHandler {
	return &MemberHandler{gate: gate, memberService: memberService}
}

type updateProfileRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	DateOfBirth  *string `json:"dateOfBirth"`
	ShowEmail    *bool   `json:"showEmail"`
	ShowPhone    *bool   `json:"showPhone"`
	ShowAddress  *bool   `json:"showAddress"`
	ShowBirthday *bool   `json:"showBirthday"`
	Role         *string `json:"role"`
	Status       *string `json:"status"`
}

// UpdateProfile applies a partial update to a member profile. The caller
// must own the profile or hold the admin role; role and status fields are
// additionally rejected for non-admins downstream.
//
// @Summary      Update member profile
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Member id"
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Member
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/members/{id} [put]
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	memberID := c.Param("id")
	actor, err := h.gate.AuthorizeSelfOrRole(c.Request().Context(), subject, memberID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Address:      req.Address,
		DateOfBirth:  req.DateOfBirth,
		ShowEmail:    req.ShowEmail,
		ShowPhone:    req.ShowPhone,
		ShowAddress:  req.ShowAddress,
		ShowBirthday: req.ShowBirthday,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}
	if req.Status != nil {
		status := domain.MembershipStatus(*req.Status)
		in.Status = &status
	}

	member, err := h.memberService.UpdateProfile(c.Request().Context(), actor, memberID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}
