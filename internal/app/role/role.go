package role

// Role определяет права доступа пользователя сессии
type Role string

const (
	Client  Role = "client"
	Manager Role = "manager"
)

func (r Role) Valid() bool {
	return r == Client || r == Manager
}
