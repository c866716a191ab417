package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/repository"
	"github.com/iliyamo/travel-api/internal/utils"
)

// AuthHandler exchanges credentials for bearer tokens.
type AuthHandler struct {
	Users  UserFinder
	Tokens TokenIssuer
	Log    *zap.Logger
}

func NewAuthHandler(users UserFinder, tokens TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Log: log}
}

type loginRequest struct {
	Email    flexString `json:"email" validate:"required,email"`
	Password flexString `json:"password" validate:"required"`
}

// Login handles POST /api/v1/login.  Unknown email and wrong password get
// the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	errs, err := validateRequest(c, &req)
	if err != nil {
		return err
	}
	if !errs.Empty() {
		return unprocessable(c, errs)
	}

	// Passwords are compared untrimmed.
	password := string(req.Password)
	ctx := c.Request().Context()
	u, err := h.Users.GetByEmail(ctx, req.Email.String())
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		utils.BurnPasswordCheck(password)
		return invalidCredentials(c)
	case err != nil:
		return serverError(c, h.Log, "login lookup", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return invalidCredentials(c)
	}

	token, err := h.Tokens.Issue(ctx, u.ID, c.Request().UserAgent())
	if err != nil {
		return serverError(c, h.Log, "issue token", err)
	}
	h.Log.Info("login", zap.Uint64("user_id", u.ID))
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "Invalid credentials."})
}
