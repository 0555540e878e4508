package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uscre/auth-service/internal/common"
	"github.com/uscre/auth-service/internal/server/services"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, codeError, "invalid request body", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return respond(c, http.StatusBadRequest, codeError, "username, email and password are required", nil)
	}

	user, status, err := s.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return respond(c, http.StatusBadRequest, codeError, "user already exists", nil)
		}
		s.logger.Error(c.Request().Context(), "registration failed", "error", err)
		return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
	}

	return respond(c, http.StatusCreated, codeOK, status, map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

func (s *Server) verifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return respond(c, http.StatusBadRequest, codeError, "missing token", nil)
	}

	_, status, err := s.auth.VerifyEmail(c.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
			return respond(c, http.StatusBadRequest, codeError, "invalid or expired token", nil)
		case errors.Is(err, common.ErrorNotFound):
			return respond(c, http.StatusBadRequest, codeUserNotFound, "user not found", nil)
		default:
			s.logger.Error(c.Request().Context(), "email verification failed", "error", err)
			return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
		}
	}

	if status == services.StatusAlreadyVerified {
		return respond(c, http.StatusOK, codeAlreadyVerified, status, nil)
	}
	return respond(c, http.StatusOK, codeOK, status, nil)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, codeError, "invalid request body", nil)
	}

	token, status, err := s.auth.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return respond(c, http.StatusUnauthorized, codeError, err.Error(), nil)
		}
		s.logger.Error(c.Request().Context(), "login failed", "error", err)
		return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
	}

	return respond(c, http.StatusOK, codeOK, status, map[string]any{"token": token})
}

func (s *Server) oauthLogin(c echo.Context) error {
	provider, ok := s.providers[c.Param("provider")]
	if !ok {
		return respond(c, http.StatusInternalServerError, codeError,
			fmt.Sprintf("%s login not configured", c.Param("provider")), nil)
	}
	return c.Redirect(http.StatusFound, provider.AuthorizeURL())
}

func (s *Server) oauthCallback(c echo.Context) error {
	provider, ok := s.providers[c.Param("provider")]
	if !ok {
		return respond(c, http.StatusInternalServerError, codeError,
			fmt.Sprintf("%s login not configured", c.Param("provider")), nil)
	}

	code := c.QueryParam("code")
	if code == "" {
		return respond(c, http.StatusBadRequest, codeError, "missing code", nil)
	}

	identity, err := provider.ResolveCode(c.Request().Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNoVerifiedEmail):
			return respond(c, http.StatusBadRequest, codeError,
				fmt.Sprintf("no verified email found in %s account", provider.Name()), nil)
		case errors.Is(err, common.ErrorUpstream):
			s.logger.Error(c.Request().Context(), "oauth exchange failed", "provider", provider.Name(), "error", err)
			return respond(c, http.StatusBadGateway, codeError, "failed to get access token", nil)
		default:
			s.logger.Error(c.Request().Context(), "oauth callback failed", "provider", provider.Name(), "error", err)
			return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
		}
	}

	_, token, err := s.auth.LoginOrRegisterOAuth(c.Request().Context(), provider.Name(), identity)
	if err != nil {
		s.logger.Error(c.Request().Context(), "oauth login failed", "provider", provider.Name(), "error", err)
		return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
	}

	callback := fmt.Sprintf("%s/oauth-callback?token=%s", s.config.FrontendURL, token)
	return c.Redirect(http.StatusFound, callback)
}

func (s *Server) getProfile(c echo.Context) error {
	user := currentUser(c)
	return respond(c, http.StatusOK, codeOK, "user profile fetched successfully", newUserResponse(user))
}

func (s *Server) updateProfile(c echo.Context) error {
	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, codeError, "invalid request body", nil)
	}

	user := currentUser(c)
	updated, err := s.auth.UpdateProfile(c.Request().Context(), user.ID, services.ProfileUpdate{
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respond(c, http.StatusNotFound, codeUserNotFound, "user not found", nil)
		}
		s.logger.Error(c.Request().Context(), "profile update failed", "error", err)
		return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
	}

	return respond(c, http.StatusOK, codeOK, "user profile updated successfully", newUserResponse(updated))
}

func (s *Server) avatarUploadURL(c echo.Context) error {
	key, url, err := s.avatars.GetPresignedPutURL(c.Request().Context())
	if err != nil {
		s.logger.Error(c.Request().Context(), "presign upload failed", "error", err)
		return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
	}
	return respond(c, http.StatusOK, codeOK, "upload url issued", map[string]any{
		"key":        key,
		"upload_url": url,
	})
}

func (s *Server) avatarURL(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return respond(c, http.StatusBadRequest, codeError, "missing key", nil)
	}

	url, err := s.avatars.GetPresignedGetURL(c.Request().Context(), key)
	if err != nil {
		s.logger.Error(c.Request().Context(), "presign download failed", "error", err)
		return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
	}
	return respond(c, http.StatusOK, codeOK, "download url issued", map[string]any{"url": url})
}
