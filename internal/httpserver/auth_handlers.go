package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"mangabook/catalog-api/internal/audit"
	"mangabook/catalog-api/internal/auth"
)

func registerAuthHandlers(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := deps.Accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if writeValidation(w, err) {
				return
			}
			if errors.Is(err, auth.ErrInvalidCredentials) {
				auditReq(deps.Audit, r, strings.TrimSpace(req.Email), "auth.login", "session", audit.OutcomeFailure, "invalid credentials")
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			deps.Logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
		auditReq(deps.Audit, r, actorOf(&res.Session), "auth.login", "session", audit.OutcomeSuccess, "tipo="+res.Session.Tipo)
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		actor := sessionActor(r, deps)
		if err := deps.Accounts.Logout(r.Context()); err != nil {
			deps.Logger.Error("logout failed", "error", err)
			writeError(w, http.StatusInternalServerError, "logout failed")
			return
		}
		auditReq(deps.Audit, r, actor, "auth.logout", "session", audit.OutcomeSuccess, "")
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s, err := deps.Sessions.Current(r.Context())
		if err != nil {
			deps.Logger.Error("read session failed", "error", err)
			writeError(w, http.StatusInternalServerError, "read session failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session":   s,
			"logged_in": deps.Sessions.IsLoggedIn(r.Context()),
			"is_admin":  deps.Sessions.IsAdmin(r.Context()),
		})
	})

	mux.HandleFunc("/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var in auth.RegisterInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		u, err := deps.Accounts.Register(r.Context(), in)
		if err != nil {
			if writeValidation(w, err) {
				return
			}
			if errors.Is(err, auth.ErrEmailTaken) {
				auditReq(deps.Audit, r, strings.TrimSpace(in.Email), "auth.register", "users", audit.OutcomeFailure, "email taken")
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			deps.Logger.Error("register failed", "error", err)
			writeError(w, http.StatusInternalServerError, "register failed")
			return
		}
		auditReq(deps.Audit, r, u.Email, "auth.register", "users", audit.OutcomeSuccess, "")
		u.Password = ""
		writeJSON(w, http.StatusCreated, u)
	})

	mux.HandleFunc("/v1/auth/recover", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Email string `json:"email"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		msg, err := deps.Accounts.Recover(r.Context(), req.Email)
		if err != nil {
			if writeValidation(w, err) {
				return
			}
			if errors.Is(err, auth.ErrRecoverNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			deps.Logger.Error("recover failed", "error", err)
			writeError(w, http.StatusInternalServerError, "recover failed")
			return
		}
		auditReq(deps.Audit, r, strings.TrimSpace(req.Email), "auth.recover", "users", audit.OutcomeSuccess, "")
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	})
}

func registerProfileHandlers(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			u, err := deps.Accounts.Profile(r.Context())
			if err != nil {
				writeProfileError(w, deps, err)
				return
			}
			u.Password = ""
			writeJSON(w, http.StatusOK, u)
		case http.MethodPut:
			s, ok := requireSession(w, r, deps)
			if !ok {
				return
			}
			var in auth.ProfileInput
			if err := decodeJSON(w, r, &in); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			u, err := deps.Accounts.UpdateProfile(r.Context(), s.Usuario, in)
			if err != nil {
				if writeValidation(w, err) {
					return
				}
				auditReq(deps.Audit, r, actorOf(s), "profile.update", s.Usuario, audit.OutcomeFailure, err.Error())
				writeProfileError(w, deps, err)
				return
			}
			auditReq(deps.Audit, r, u.Email, "profile.update", s.Usuario, audit.OutcomeSuccess, "usuario="+u.Usuario)
			u.Password = ""
			writeJSON(w, http.StatusOK, u)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

func writeProfileError(w http.ResponseWriter, deps Deps, err error) {
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		deps.Logger.Error("profile request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "profile request failed")
	}
}

// requireSession writes 401 and reports false when nobody is logged in.
func requireSession(w http.ResponseWriter, r *http.Request, deps Deps) (*auth.Session, bool) {
	s, err := deps.Sessions.Current(r.Context())
	if err != nil {
		deps.Logger.Error("read session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "read session failed")
		return nil, false
	}
	if s == nil || !s.Logueado {
		writeError(w, http.StatusUnauthorized, auth.ErrNotLoggedIn.Error())
		return nil, false
	}
	return s, true
}

// requireAdmin additionally writes 403 for a non-admin session.
func requireAdmin(w http.ResponseWriter, r *http.Request, deps Deps) (*auth.Session, bool) {
	s, ok := requireSession(w, r, deps)
	if !ok {
		return nil, false
	}
	if !deps.Sessions.IsAdmin(r.Context()) {
		auditReq(deps.Audit, r, actorOf(s), "admin.access", r.URL.Path, audit.OutcomeDenied, "tipo="+s.Tipo)
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return s, true
}

func sessionActor(r *http.Request, deps Deps) string {
	s, err := deps.Sessions.Current(r.Context())
	if err != nil {
		return "anonymous"
	}
	return actorOf(s)
}

// actorOf names s in audit events: email first, then username.
func actorOf(s *auth.Session) string {
	switch {
	case s == nil:
		return "anonymous"
	case s.Email != "":
		return s.Email
	case s.Usuario != "":
		return s.Usuario
	default:
		return "anonymous"
	}
}
