package domain

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleTrainer:
		return true
	}
	return false
}

// PanelPath is where a role lands after login or a denied route.
func (r Role) PanelPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleTrainer:
		return "/trainer-panel"
	default:
		return "/user-panel"
	}
}

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	Name      string `db:"name" json:"name"`
	Hash      string `db:"password_hash" json:"-"`
	Role      Role   `db:"role" json:"role"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// AuthData is the client-facing view of a session.
type AuthData struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}
