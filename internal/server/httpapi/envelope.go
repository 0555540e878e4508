package httpapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uscre/auth-service/internal/server/models"
)

// envelope is the uniform response body. Code 0 is success; nonzero codes
// distinguish failure kinds for API clients (1 generic, 2 unknown user,
// 3 already verified).
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeOK              = 0
	codeError           = 1
	codeUserNotFound    = 2
	codeAlreadyVerified = 3
)

func respond(c echo.Context, httpStatus, code int, message string, data any) error {
	return c.JSON(httpStatus, envelope{Code: code, Message: message, Data: data})
}

// userResponse is the public projection of a user record. The password hash
// never leaves the service.
type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	Nickname   string    `json:"nickname"`
	Avatar     string    `json:"avatar"`
	Bio        string    `json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		Nickname:   u.Nickname,
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		CreatedAt:  u.CreatedAt,
	}
}
