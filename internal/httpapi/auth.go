package httpapi

import (
	"errors"
	"net/http"
	"time"

	"musicbox/internal/app/users"
	"musicbox/internal/models"
	"musicbox/internal/policy"
	"musicbox/internal/schema"
)

const sessionCookieName = "sid"

type authResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// currentUser resolves the caller from the bearer header, falling back to the
// session cookie. A missing or invalid credential yields (nil, nil).
func (s *Server) currentUser(r *http.Request) (*models.User, error) {
	ctx := r.Context()

	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		sid := s.sessionID(r)
		if sid == "" {
			return nil, nil
		}
		var err error
		token, err = s.svc.Users.SessionToken(ctx, sid)
		if errors.Is(err, users.ErrUnauthorized) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	user, err := s.svc.Users.Resolve(ctx, token)
	if errors.Is(err, users.ErrUnauthorized) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// identity is currentUser reduced to what authorization needs.
func (s *Server) identity(r *http.Request) (*models.Identity, error) {
	user, err := s.currentUser(r)
	if err != nil || user == nil {
		return nil, err
	}
	return &models.Identity{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// requireAdmin resolves the caller and applies the admin gate.
func (s *Server) requireAdmin(r *http.Request) (*models.Identity, error) {
	id, err := s.identity(r)
	if err != nil {
		return nil, err
	}
	if err := policy.Admin(id); err != nil {
		return nil, err
	}
	return id, nil
}

// requireUser resolves the caller and rejects anonymous requests.
func (s *Server) requireUser(r *http.Request) (*models.Identity, error) {
	id, err := s.identity(r)
	if err != nil {
		return nil, err
	}
	if err := policy.Authenticated(id); err != nil {
		return nil, err
	}
	return id, nil
}

func (s *Server) sessionID(r *http.Request) string {
	if s.opts.CookieSigner == nil {
		return ""
	}
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	sid, ok := s.opts.CookieSigner.Unsign(c.Value)
	if !ok {
		return ""
	}
	return sid
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session *users.Session) {
	if s.opts.CookieSigner == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.opts.CookieSigner.Sign(session.ID),
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req schema.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Normalize()

	session, err := s.svc.Users.Register(r.Context(), users.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logFor(r).Info().Str("user_id", session.User.ID).Msg("user registered")
	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, authResponse{Message: "registration successful", User: session.User, Token: session.Token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req schema.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.svc.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, authResponse{Message: "login successful", User: session.User, Token: session.Token})
}

// handleLogout always succeeds. A failure to delete the session row is logged only.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid := s.sessionID(r); sid != "" {
		if err := s.svc.Users.Logout(r.Context(), sid); err != nil {
			logFor(r).Warn().Err(err).Msg("logout: delete session")
		}
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "logout successful"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, policy.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
