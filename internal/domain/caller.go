package domain

// UserRole роль аутентифицированного пользователя
// Выдаётся вышестоящим шлюзом, сервис ей доверяет
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleAdmin  UserRole = "admin"
)

// IsValidRole проверяет, что строка является допустимой ролью
func IsValidRole(s string) bool {
	return s == string(RoleClient) || s == string(RoleAdmin)
}

// Caller контекст аутентифицированного вызова
type Caller struct {
	UserID int64
	Role   UserRole
}

// IsAdmin проверяет административную роль
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccessBooking доступ к бронированию имеет владелец или администратор
func (c Caller) CanAccessBooking(b *Booking) bool {
	return c.IsAdmin() || b.UserID == c.UserID
}
