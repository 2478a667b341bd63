package http

import (
	"encoding/json"
	"net/http"
	"time"

	"StorefrontPlatform/services/storefront/internal/domain"
)

// Response единый конверт ответа API. Пустые поля не сериализуются.
type Response struct {
	Status         int                `json:"status"`
	Message        string             `json:"message,omitempty"`
	Token          string             `json:"token,omitempty"`
	Role           domain.Role        `json:"role,omitempty"`
	ExpirationTime string             `json:"expirationTime,omitempty"`
	User           *UserDTO           `json:"user,omitempty"`
	UserList       []domain.User      `json:"userList,omitempty"`
	Product        *domain.Product    `json:"product,omitempty"`
	ProductList    []domain.Product   `json:"productList,omitempty"`
	Order          *domain.Order      `json:"order,omitempty"`
	OrderItem      *domain.OrderItem  `json:"orderItem,omitempty"`
	OrderItemList  []domain.OrderItem `json:"orderItemList,omitempty"`
	TotalPage      int                `json:"totalPage,omitempty"`
	TotalElement   int64              `json:"totalElement,omitempty"`
	Timestamp      string             `json:"timestamp"`
}

// UserDTO пользователь с необязательной историей заказов
type UserDTO struct {
	*domain.User
	OrderItemList []domain.OrderItem `json:"orderItemList,omitempty"`
}

// writeJSON отправляет конверт ответа со статусом
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	resp.Status = status
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
