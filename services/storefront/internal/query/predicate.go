// Package query собирает фильтр позиций заказа из необязательных критериев.
// Каждый предикат умеет и проверять позицию в памяти, и рендериться в параметризованный SQL для pgx.
package query

import (
	"fmt"
	"strings"
	"time"

	"StorefrontPlatform/services/storefront/internal/domain"
)

// Колонки таблицы order_items, по которым идет фильтрация
const (
	columnID        = "id"
	columnStatus    = "status"
	columnCreatedAt = "created_at"
)

// Predicate условие отбора позиций заказа
type Predicate interface {
	// Match проверяет позицию в памяти
	Match(item *domain.OrderItem) bool
	// SQL рендерит условие, добавляя параметры в args. Пустая строка означает "без условия".
	SQL(args *Args) string
}

// Args накапливает позиционные параметры запроса ($1, $2, ...)
type Args struct {
	values []interface{}
}

// Add добавляет параметр и возвращает его плейсхолдер
func (a *Args) Add(value interface{}) string {
	a.values = append(a.values, value)
	return fmt.Sprintf("$%d", len(a.values))
}

// Values возвращает накопленные параметры в порядке плейсхолдеров
func (a *Args) Values() []interface{} {
	return a.values
}

// Len количество накопленных параметров
func (a *Args) Len() int {
	return len(a.values)
}

// Where рендерит предикат в " WHERE ..." или пустую строку, если условий нет
func Where(p Predicate, args *Args) string {
	if p == nil {
		return ""
	}
	clause := p.SQL(args)
	if clause == "" {
		return ""
	}
	return " WHERE " + clause
}

type all struct{}

// All предикат, которому удовлетворяет любая позиция. В SQL не дает условия.
func All() Predicate {
	return all{}
}

func (all) Match(*domain.OrderItem) bool { return true }
func (all) SQL(*Args) string            { return "" }

type statusEquals struct {
	status domain.OrderStatus
}

// ByStatus отбирает позиции с указанным статусом. nil дает нейтральный фрагмент.
func ByStatus(status *domain.OrderStatus) Predicate {
	if status == nil {
		return nil
	}
	return statusEquals{status: *status}
}

func (p statusEquals) Match(item *domain.OrderItem) bool {
	return item.Status == p.status
}

func (p statusEquals) SQL(args *Args) string {
	return columnStatus + " = " + args.Add(string(p.status))
}

type createdRange struct {
	start *time.Time
	end   *time.Time
}

// ByCreatedRange отбирает позиции по дате создания.
// Обе границы дают включающий BETWEEN, одна граница дает >= или <=, ни одной nil.
func ByCreatedRange(start, end *time.Time) Predicate {
	if start == nil && end == nil {
		return nil
	}
	return createdRange{start: start, end: end}
}

func (p createdRange) Match(item *domain.OrderItem) bool {
	if p.start != nil && item.CreatedAt.Before(*p.start) {
		return false
	}
	if p.end != nil && item.CreatedAt.After(*p.end) {
		return false
	}
	return true
}

func (p createdRange) SQL(args *Args) string {
	switch {
	case p.start != nil && p.end != nil:
		return columnCreatedAt + " BETWEEN " + args.Add(*p.start) + " AND " + args.Add(*p.end)
	case p.start != nil:
		return columnCreatedAt + " >= " + args.Add(*p.start)
	default:
		return columnCreatedAt + " <= " + args.Add(*p.end)
	}
}

type itemIDEquals struct {
	id int64
}

// ByItemID отбирает позицию по идентификатору. nil дает нейтральный фрагмент.
func ByItemID(id *int64) Predicate {
	if id == nil {
		return nil
	}
	return itemIDEquals{id: *id}
}

func (p itemIDEquals) Match(item *domain.OrderItem) bool {
	return item.ID == p.id
}

func (p itemIDEquals) SQL(args *Args) string {
	return columnID + " = " + args.Add(p.id)
}

type conjunction []Predicate

// And объединяет фрагменты через AND, пропуская nil.
// Без фрагментов возвращает All, с одним фрагментом возвращает его самого.
func And(fragments ...Predicate) Predicate {
	present := make(conjunction, 0, len(fragments))
	for _, f := range fragments {
		switch v := f.(type) {
		case nil, all:
		case conjunction:
			present = append(present, v...)
		default:
			present = append(present, v)
		}
	}

	switch len(present) {
	case 0:
		return All()
	case 1:
		return present[0]
	default:
		return present
	}
}

func (c conjunction) Match(item *domain.OrderItem) bool {
	for _, p := range c {
		if !p.Match(item) {
			return false
		}
	}
	return true
}

func (c conjunction) SQL(args *Args) string {
	parts := make([]string, 0, len(c))
	for _, p := range c {
		if clause := p.SQL(args); clause != "" {
			parts = append(parts, clause)
		}
	}
	return strings.Join(parts, " AND ")
}

// ItemFilter необязательные критерии фильтра позиций заказа
type ItemFilter struct {
	Status        *domain.OrderStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ItemID        *int64
}

// Predicate собирает предикат из заданных критериев
func (f ItemFilter) Predicate() Predicate {
	return And(
		ByStatus(f.Status),
		ByCreatedRange(f.CreatedAfter, f.CreatedBefore),
		ByItemID(f.ItemID),
	)
}
