package domain

import (
	"strings"

	"StorefrontPlatform/pkg/errors"
)

// OrderStatus состояние позиции заказа
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusReturned  OrderStatus = "RETURNED"
)

// OrderStatuses все известные статусы в порядке жизненного цикла
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
}

// InitialStatus единственный допустимый статус новой позиции
const InitialStatus = StatusPending

// ParseOrderStatus разбирает имя статуса без учета регистра
func ParseOrderStatus(name string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToUpper(strings.TrimSpace(name)))
	for _, s := range OrderStatuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", errors.InvalidArgument("unknown order status %q", name)
}

// IsTerminal сообщает, что статус конечный
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// Transition единственная точка смены статуса позиции.
// Сейчас любой переход разрешен, в том числе из конечных статусов и в PENDING.
// Ограничения жизненного цикла добавляются только здесь.
func Transition(from, to OrderStatus) (OrderStatus, error) {
	return to, nil
}
