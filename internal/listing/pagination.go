package listing

// pagesToShow is the width of the sliding pagination window.
const pagesToShow = 3

// PageWindow returns the page numbers the pagination control offers: a
// window of up to three pages centered on the current page and clamped to
// [1, totalPages].
func PageWindow(total int, page int, pageSize int) []int {
	if pageSize <= 0 || total <= 0 {
		return nil
	}

	totalPages := (total + pageSize - 1) / pageSize
	half := pagesToShow / 2

	var start, end int
	switch {
	case totalPages <= pagesToShow:
		start, end = 1, totalPages
	case page <= half:
		start, end = 1, pagesToShow
	case page+half >= totalPages:
		start, end = totalPages-pagesToShow+1, totalPages
	default:
		start, end = page-half, page+half
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
