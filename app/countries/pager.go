package countries

import (
	"fmt"

	"github.com/joefazee/atlas/models"
)

// PageSize is the number of cards shown per page
const PageSize = 20

// Page is one window of the filtered list
type Page struct {
	Items      []models.Country
	TotalPages int
	PageIndex  int
}

// TotalPages returns ceil(n/size), 0 for an empty list
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate slices out page pageIndex (1-based). The index is not clamped: an
// out of range page yields no items.
func Paginate(list []models.Country, pageIndex, pageSize int) Page {
	p := Page{
		Items:      []models.Country{},
		TotalPages: TotalPages(len(list), pageSize),
		PageIndex:  pageIndex,
	}
	// compare page numbers before multiplying so huge indexes cannot overflow
	if pageIndex < 1 || pageSize <= 0 || pageIndex > p.TotalPages {
		return p
	}

	start := (pageIndex - 1) * pageSize
	if start >= len(list) {
		return p
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	p.Items = list[start:end]
	return p
}

// ChangePage moves the page by step. A move landing before page 1 or past
// totalPages is rejected and current is returned unchanged.
func ChangePage(current, step, totalPages int) (int, bool) {
	next := current + step
	if next < 1 || next > totalPages {
		return current, false
	}
	return next, true
}

// HasPrev reports whether a step back would be accepted
func HasPrev(current, totalPages int) bool {
	_, ok := ChangePage(current, -1, totalPages)
	return ok
}

// HasNext reports whether a step forward would be accepted
func HasNext(current, totalPages int) bool {
	_, ok := ChangePage(current, 1, totalPages)
	return ok
}

// PageLabel renders the pager caption. An empty list always reads "Page 0 of 0".
func PageLabel(current, totalPages int) string {
	if totalPages == 0 {
		return "Page 0 of 0"
	}
	return fmt.Sprintf("Page %d of %d", current, totalPages)
}
