package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("La contraseña ingresada no es válida, por favor intenta nuevamente.")
	ErrEmailTaken         = errors.New("Ya existe una cuenta registrada con ese correo.")
	ErrRecoverNotFound    = errors.New("Usuario no encontrado con ese correo.")
	ErrNotLoggedIn        = errors.New("No hay una sesión activa.")
	ErrUserNotFound       = errors.New("No se pudo encontrar el usuario para actualizar. Intenta cerrar y volver a iniciar sesión.")
)

const (
	RedirectAdmin = "/panel"
	RedirectUser  = "/perfil"
)

// Service implements the account flows on top of the Directory and the
// session Manager.
type Service struct {
	users    *Directory
	sessions *Manager
	nowFunc  func() time.Time
}

type LoginResult struct {
	Session  Session `json:"session"`
	Redirect string  `json:"redirect"`
}

type RegisterInput struct {
	Nombre          string `json:"nombre"`
	Usuario         string `json:"usuario"`
	Email           string `json:"email"`
	FechaNacimiento string `json:"fechaNacimiento"`
	Password        string `json:"password"`
	Password2       string `json:"password2"`
	Direccion       string `json:"direccion"`
}

type ProfileInput struct {
	Nombre   string `json:"nombre"`
	Usuario  string `json:"usuario"`
	Password string `json:"password"`
}

func NewService(users *Directory, sessions *Manager) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &Service{users: users, sessions: sessions, nowFunc: time.Now}, nil
}

func (s *Service) Sessions() *Manager { return s.sessions }

func (s *Service) Directory() *Directory { return s.users }

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	var c fieldChecker
	c.check("email", validEmail(email))
	c.check("password", required(password))
	if err := c.err(MsgIncomplete); err != nil {
		return LoginResult{}, err
	}

	u, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	sess := snapshot(*u)
	if err := s.sessions.Login(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	redirect := RedirectUser
	if u.IsAdmin() {
		redirect = RedirectAdmin
	}
	return LoginResult{Session: sess, Redirect: redirect}, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// Register validates the whole form, then adds the user with role usuario.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Email = normalizeEmail(in.Email)
	var c fieldChecker
	c.check("nombre", required(in.Nombre))
	c.check("usuario", required(in.Usuario))
	c.check("email", validEmail(in.Email))
	birth, okBirth := parseBirthDate(in.FechaNacimiento)
	c.check("fechaNacimiento", okBirth)
	c.check("password", passwordLength(in.Password, minPasswordLength, maxPasswordLength) && strongPassword(in.Password))
	c.check("password2", required(in.Password2) && in.Password2 == in.Password)
	if err := c.err(MsgIncomplete); err != nil {
		return User{}, err
	}

	if ageOn(birth, s.nowFunc()) < minAge {
		return User{}, &ValidationError{Message: MsgUnderage, Fields: []string{"fechaNacimiento"}}
	}

	u := User{
		Nombre:    in.Nombre,
		Usuario:   in.Usuario,
		Email:     in.Email,
		Password:  in.Password,
		Direccion: in.Direccion,
		Tipo:      RoleUser,
	}
	added, err := s.users.AddUser(ctx, u)
	if err != nil {
		return User{}, err
	}
	if !added {
		return User{}, ErrEmailTaken
	}
	return u, nil
}

// Recover returns the greeting that reveals the stored password.
func (s *Service) Recover(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	var c fieldChecker
	c.check("email", validEmail(email))
	if err := c.err(MsgIncomplete); err != nil {
		return "", err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrRecoverNotFound
	}
	return fmt.Sprintf("Hola %s, tu contraseña es: %s", u.Nombre, u.Password), nil
}

// Profile resolves the logged in username against the directory.
func (s *Service) Profile(ctx context.Context) (User, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return User{}, err
	}
	if sess == nil || !sess.Logueado {
		return User{}, ErrNotLoggedIn
	}
	u, err := s.users.FindByUsername(ctx, sess.Usuario)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrUserNotFound
	}
	return *u, nil
}

// UpdateProfile edits the user found under originalUsername and re-snapshots
// the session from the result. Email and role cannot change here.
func (s *Service) UpdateProfile(ctx context.Context, originalUsername string, in ProfileInput) (User, error) {
	var c fieldChecker
	c.check("nombre", required(in.Nombre))
	c.check("usuario", required(in.Usuario))
	c.check("password", passwordLength(in.Password, minPasswordLength, 0) && strongPassword(in.Password))
	if err := c.err(MsgProfileCheck); err != nil {
		return User{}, err
	}

	u, err := s.users.updateUser(ctx, originalUsername, UserPatch{
		Nombre:   &in.Nombre,
		Usuario:  &in.Usuario,
		Password: &in.Password,
	})
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrUserNotFound
	}

	if err := s.sessions.Login(ctx, snapshot(*u)); err != nil {
		return User{}, err
	}
	return *u, nil
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(s)
}
