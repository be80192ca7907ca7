package view

// Pagination describes the page links under a listing.
type Pagination struct {
	Page       int
	TotalPages int
	Total      int
}

// NewPagination computes the page count for total rows at limit per page.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 1
	}
	return Pagination{
		Page:       max(page, 1),
		TotalPages: (total + limit - 1) / limit,
		Total:      total,
	}
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) Prev() int     { return p.Page - 1 }
func (p Pagination) Next() int     { return p.Page + 1 }

// Pages lists every page number, 1-based.
func (p Pagination) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
