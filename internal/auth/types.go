package auth

const (
	RoleAdmin = "admin"
	RoleUser  = "usuario"
)

// User is one directory record. Passwords are kept as entered.
type User struct {
	Nombre    string `json:"nombre"`
	Usuario   string `json:"usuario"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Tipo      string `json:"tipo"`
	Direccion string `json:"direccion,omitempty"`
}

func (u User) IsAdmin() bool { return u.Tipo == RoleAdmin }

// UserPatch lists the fields UpdateUser may replace. Nil fields are kept.
type UserPatch struct {
	Nombre    *string
	Usuario   *string
	Password  *string
	Direccion *string
}

func (p UserPatch) apply(u User) User {
	if p.Nombre != nil {
		u.Nombre = *p.Nombre
	}
	if p.Usuario != nil {
		u.Usuario = *p.Usuario
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Direccion != nil {
		u.Direccion = *p.Direccion
	}
	return u
}

// Session is the snapshot of a user taken at login and stored under the
// session key. Its absence means nobody is logged in.
type Session struct {
	Logueado bool   `json:"logueado"`
	Usuario  string `json:"usuario"`
	Tipo     string `json:"tipo"`
	Nombre   string `json:"nombre,omitempty"`
	Email    string `json:"email,omitempty"`
}

func snapshot(u User) Session {
	tipo := u.Tipo
	if tipo == "" {
		tipo = RoleUser
	}
	return Session{Logueado: true, Usuario: u.Usuario, Tipo: tipo, Nombre: u.Nombre, Email: u.Email}
}
