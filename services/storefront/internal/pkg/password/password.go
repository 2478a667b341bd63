// Package password хеширует пароли пользователей bcrypt.
package password

import (
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength bcrypt учитывает только первые 72 байта, более длинные пароли отклоняются
const MaxLength = 72

// ErrTooLong пароль длиннее MaxLength байт
var ErrTooLong = stderrors.New("password exceeds 72 bytes")

// Hasher хеширует и сверяет пароли
type Hasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// BcryptHasher Hasher на bcrypt с фиксированной стоимостью
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cost вне [bcrypt.MinCost, bcrypt.MaxCost] заменяется на bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > MaxLength {
		return "", ErrTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Check false и для неверного пароля, и для поврежденного хеша
func (h *BcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
