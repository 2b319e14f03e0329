package dto

// Pagination is the envelope block returned with every paginated listing.
type Pagination struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalDocuments int64 `json:"totalDocuments"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:    page,
		TotalPages:     totalPages,
		TotalDocuments: total,
	}
}
