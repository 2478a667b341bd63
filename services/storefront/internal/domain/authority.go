package domain

import "strings"

// Authority право, которое проверяют политики доступа
type Authority string

const (
	AuthorityUser  Authority = "USER"
	AuthorityAdmin Authority = "ADMIN"
)

// Authorities возвращает набор прав для роли. Чистая функция, без обращения к хранилищам.
func Authorities(role Role) []Authority {
	switch role {
	case RoleAdmin:
		return []Authority{AuthorityAdmin}
	case RoleUser:
		return []Authority{AuthorityUser}
	default:
		return nil
	}
}

// HasAuthority проверяет наличие права у Principal
func (p *Principal) HasAuthority(a Authority) bool {
	if p == nil {
		return false
	}
	for _, granted := range Authorities(p.Role) {
		if granted == a {
			return true
		}
	}
	return false
}

// ParseRole разбирает роль из запроса регистрации: "admin" в любом регистре дает ADMIN, иначе USER
func ParseRole(name string) Role {
	if strings.EqualFold(strings.TrimSpace(name), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}
