package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/hanzi/internal/auth"
	"github.com/abhisek/hanzi/internal/store"
)

const claimsKey = "claims"

type credentials struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type sessionJSON struct {
	Success   bool      `json:"success"`
	User      userJSON  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func bindCredentials(c echo.Context) (credentials, error) {
	var cr credentials
	if err := c.Bind(&cr); err != nil {
		return cr, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cr.Name = strings.TrimSpace(cr.Name)
	if err := c.Validate(&cr); err != nil {
		return cr, echo.NewHTTPError(http.StatusBadRequest, "name and password are required")
	}
	return cr, nil
}

func (s *Server) register(c echo.Context) error {
	cr, err := bindCredentials(c)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(cr.Password)
	if err != nil {
		return err
	}
	u, err := s.store.UserRepo().Create(c.Request().Context(), cr.Name, hash)
	if errors.Is(err, store.ErrUserExists) {
		return echo.NewHTTPError(http.StatusConflict, "user name already taken")
	}
	if err != nil {
		return err
	}

	s.log.Info("user registered", "user_id", u.ID, "name", u.Name)
	return s.startSession(c, http.StatusCreated, u)
}

func (s *Server) login(c echo.Context) error {
	cr, err := bindCredentials(c)
	if err != nil {
		return err
	}

	u, err := s.store.UserRepo().ByName(c.Request().Context(), cr.Name)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrBadCredentials.Error())
	}
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, cr.Password); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrBadCredentials.Error())
	}
	return s.startSession(c, http.StatusOK, u)
}

func (s *Server) startSession(c echo.Context, status int, u *store.User) error {
	token, exp, err := s.issuer.Issue(u.ID, u.Name)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(status, sessionJSON{
		Success:   true,
		User:      userJSON{ID: u.ID, Name: u.Name},
		Token:     token,
		ExpiresAt: exp,
	})
}

func (s *Server) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) checkAuth(c echo.Context) error {
	claims, err := s.claims(c)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}
	id, _ := claims.UserID()
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userJSON{ID: id, Name: claims.Name},
	})
}

// claims reads the session token from the cookie, falling back to a
// bearer Authorization header.
func (s *Server) claims(c echo.Context) (*auth.Claims, error) {
	var token string
	if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		token = ck.Value
	} else if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.claims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// userID is only valid behind requireAuth.
func userID(c echo.Context) int64 {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	if claims == nil {
		return 0
	}
	id, _ := claims.UserID()
	return id
}
