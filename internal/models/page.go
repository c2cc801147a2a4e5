package models

import "math"

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int
}

// NormalizePage maps missing or non-positive page numbers to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset is the number of items preceding the given page. It saturates at
// math.MaxInt for page numbers too large to multiply out.
func Offset(page, perPage int) int {
	page = NormalizePage(page)
	if perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// Bounds clips the [start, end) window of a page against total items.
func Bounds(page, perPage, total int) (start, end int) {
	start = Offset(page, perPage)
	if start > total {
		return total, total
	}
	end = start + perPage
	if end > total || end < start {
		end = total
	}
	return start, end
}

// HasNext reports whether items remain after this page.
func (p Page[T]) HasNext() bool {
	offset := Offset(p.Page, p.PerPage)
	return offset < p.Total && p.Total-offset > p.PerPage
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }

func (p Page[T]) NextNum() int { return p.Page + 1 }

func (p Page[T]) PrevNum() int { return p.Page - 1 }

// Pages is the number of pages needed to hold Total items.
func (p Page[T]) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}
