package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// UserHandler exposes admin-side account management.
type UserHandler struct {
	memberService ports.MemberService
}

func NewUserHandler(memberService ports.MemberService) *UserHandler {
	return &UserHandler{memberService: memberService}
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List returns all member accounts.
//
// @Summary      List members
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.Member
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	members, err := h.memberService.List(c.Request().Context())
	if err != nil {
		return err
	}
	if members == nil {
		members = []*domain.Member{}
	}
	return c.JSON(http.StatusOK, members)
}

// Create provisions an account with an explicit role and active status.
//
// @Summary      Create member account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.Member
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxMember(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.memberService.CreateUser(c.Request().Context(), actor, ports.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}

// ResetPassword replaces a member's password.
//
// @Summary      Reset member password
// @Tags         users
// @Accept       json
// @Param        id    path      string                true  "Member id"
// @Param        body  body      resetPasswordRequest  true  "New password"
// @Success      204
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	actor, err := ctxMember(c)
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.memberService.ResetPassword(c.Request().Context(), actor, c.Param("id"), req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus transitions a member's lifecycle status.
//
// @Summary      Set membership status
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Member id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  domain.Member
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/users/{id}/status [post]
func (h *UserHandler) SetStatus(c echo.Context) error {
	actor, err := ctxMember(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.memberService.SetStatus(c.Request().Context(), actor, c.Param("id"), domain.MembershipStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}
