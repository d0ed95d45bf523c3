package services

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

type PageRequest struct {
	Page     int
	PageSize int
}

// NormalizePageRequest clamps the raw query values to sane bounds: page
// starts at 1, page size defaults to 5 and is capped at 100.
func NormalizePageRequest(page int, pageSize int) PageRequest {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

func (request PageRequest) Offset() int {
	return (request.Page - 1) * request.PageSize
}
