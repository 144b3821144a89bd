package services

// PageMeta describes one slice of an ordered listing.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// Paginate resolves a requested 1-based page number against the item count
// and returns the page metadata plus the row offset to query at. Page
// numbers below 1 fall back to 1 and numbers past the end clamp to the last
// page, so out-of-range requests serve the final page instead of failing.
// An empty collection still counts as a single empty page.
func Paginate(total int64, page, pageSize int) (PageMeta, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	meta := PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	return meta, (page - 1) * pageSize
}
