package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/validation"
)

type UserHTTP struct {
	Svc *service.UserService
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Router /users [get]
func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_users_error", http.StatusInternalServerError, "cannot get users", err)
	}

	l.Info("list_users_success", "count", len(users))
	return c.JSON(http.StatusOK, users)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /users/me [get]
func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	actor, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}

	user, err := h.Svc.Me(ctx, *actor)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fail(l, "get_me_error", http.StatusNotFound, "user not found", err)
		}
		return fail(l, "get_me_error", http.StatusInternalServerError, "cannot get user", err)
	}
	return c.JSON(http.StatusOK, user)
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param payload body transport.RegisterRequest true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} transport.ErrorResponse
// @Router /users/register [post]
func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return bindFailed(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return fail(l, "register_error", http.StatusBadRequest, "user with this email already exists", err)
		}
		if errors.Is(err, service.ErrValidation) {
			return fail(l, "register_error", http.StatusBadRequest, "name and surname must not be blank", err)
		}
		return fail(l, "register_error", http.StatusInternalServerError, "cannot register user", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param payload body transport.LoginRequest true "Credentials"
// @Success 200 {object} transport.LoginResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Router /users/login [post]
func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return bindFailed(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fail(l, "login_error", http.StatusUnauthorized, "invalid email or password", err)
		}
		return fail(l, "login_error", http.StatusInternalServerError, "cannot log in", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Users may update themselves; admins may update anyone and change roles.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param payload body transport.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	actor, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}

	id, err := parseID(c)
	if err != nil {
		return bindFailed(l, "update_user_error", err)
	}

	var req transport.UpdateUserRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return bindFailed(l, "update_user_error", err)
	}

	user, err := h.Svc.Update(ctx, *actor, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			reason := "you can only modify your own account"
			if errors.Is(err, service.ErrRoleChange) {
				reason = "only admins can change roles"
			}
			return fail(l, "update_user_error", http.StatusForbidden, reason, err)
		case errors.Is(err, service.ErrNotFound):
			return fail(l, "update_user_error", http.StatusNotFound, "user not found", err)
		case errors.Is(err, service.ErrConflict):
			return fail(l, "update_user_error", http.StatusBadRequest, "user with this email already exists", err)
		case errors.Is(err, service.ErrEmptyUpdate):
			return fail(l, "update_user_error", http.StatusBadRequest, "at least one field must be provided", err)
		case errors.Is(err, service.ErrBlankName):
			return fail(l, "update_user_error", http.StatusBadRequest, "name and surname must not be blank", err)
		case errors.Is(err, service.ErrValidation):
			return fail(l, "update_user_error", http.StatusBadRequest, "email must not be blank", err)
		default:
			return fail(l, "update_user_error", http.StatusInternalServerError, "cannot update user", err)
		}
	}

	l.Info("update_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} transport.MessageResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	actor, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}

	id, err := parseID(c)
	if err != nil {
		return bindFailed(l, "delete_user_error", err)
	}

	if err := h.Svc.Delete(ctx, *actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			return fail(l, "delete_user_error", http.StatusForbidden, "you can only delete your own account", err)
		case errors.Is(err, service.ErrNotFound):
			return fail(l, "delete_user_error", http.StatusNotFound, "user not found", err)
		default:
			return fail(l, "delete_user_error", http.StatusInternalServerError, "cannot delete user", err)
		}
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "user deleted"})
}
