package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role роль пользователя магазина
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User представляет зарегистрированного пользователя.
// Пароль хранится только в виде bcrypt хеша, email уникален.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal идентичность запроса, которую AuthGate публикует в контексте.
// Живет ровно один запрос.
type Principal struct {
	ID    int64
	Email string
	Role  Role
}

// PrincipalOf строит Principal из пользователя
func PrincipalOf(u *User) *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Product позиция каталога. Цена может меняться, заказ фиксирует цену на момент покупки.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"categoryId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Order заказ. TotalPrice всегда равен сумме Price*Quantity по позициям.
type Order struct {
	ID         int64           `json:"id"`
	Items      []OrderItem     `json:"orderItemList"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// OrderItem позиция заказа со своим жизненным циклом
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	UserID    int64           `json:"userId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// LineTotal стоимость позиции: цена на момент покупки, умноженная на количество
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderLine строка запроса на оформление заказа
type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest запрос на оформление заказа.
// TotalPrice от клиента игнорируется, итог всегда считается по каталогу.
type OrderRequest struct {
	Items      []OrderLine      `json:"items"`
	TotalPrice *decimal.Decimal `json:"totalPrice,omitempty"`
}
