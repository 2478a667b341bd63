package domain

import (
	"math"

	"StorefrontPlatform/pkg/errors"
)

// Границы пагинации. Смещение Page*Size не превышает MaxOffset.
const (
	DefaultPageSize = 1000
	MaxPageSize     = 10000
	MaxOffset       = math.MaxInt32
)

// PageRequest номер страницы (с нуля) и ее размер
type PageRequest struct {
	Page int
	Size int
}

// Offset смещение первой строки страницы
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Normalize подставляет значения по умолчанию для некорректных параметров
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

// Validate отклоняет размер больше MaxPageSize и страницы со смещением за MaxOffset
func (p PageRequest) Validate() error {
	p = p.Normalize()
	if p.Size > MaxPageSize {
		return errors.InvalidArgument("page size must not exceed %d, got %d", MaxPageSize, p.Size)
	}
	if p.Page > MaxOffset/p.Size {
		return errors.InvalidArgument("page %d is out of range for size %d", p.Page, p.Size)
	}
	return nil
}

// Page страница результатов с общими счетчиками
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages количество страниц при текущем размере
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

// Empty сообщает, что на странице нет элементов
func (p *Page[T]) Empty() bool {
	return len(p.Content) == 0
}
