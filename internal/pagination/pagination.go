package pagination

import "strconv"

// window is how many pages either side of the current page Range includes.
const window = 2

// Page describes one page of a listing, ready for a template.
type Page struct {
	Current    int   `json:"current"`
	TotalPages int   `json:"total_pages"`
	Pages      []int `json:"pages"`
	Prev       int   `json:"prev,omitempty"`
	Next       int   `json:"next,omitempty"`
}

// TotalPages returns ceil(total / perPage).
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Offset returns how many items precede page.
func Offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

// ParsePage reads a ?page= value; anything invalid or below 1 is page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Range returns the page numbers within two of current, clamped to [1, total].
func Range(current, total int) []int {
	pages := []int{}
	for p := current - window; p <= current+window; p++ {
		if p >= 1 && p <= total {
			pages = append(pages, p)
		}
	}
	return pages
}

// New builds the Page for current given total items.
func New(current, totalItems, perPage int) Page {
	total := TotalPages(totalItems, perPage)
	p := Page{
		Current:    current,
		TotalPages: total,
		Pages:      Range(current, total),
	}
	if current > 1 {
		p.Prev = current - 1
	}
	if current < total {
		p.Next = current + 1
	}
	return p
}
