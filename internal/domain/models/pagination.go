package models

// PaginationRequest selects a window of a list.
type PaginationRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DefaultPageLimit is used when a caller does not supply a limit.
const DefaultPageLimit = 10

// NewPaginationRequest returns a request with the default window.
func NewPaginationRequest() PaginationRequest {
	return PaginationRequest{Offset: 0, Limit: DefaultPageLimit}
}

// PaginationResponse echoes the window together with the total count.
type PaginationResponse struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// Paginated is one page of T plus its pagination metadata.
type Paginated[T any] struct {
	Data       []T                `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// NewPaginated builds a page, never returning a nil Data slice.
func NewPaginated[T any](data []T, req PaginationRequest, total int) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return Paginated[T]{
		Data: data,
		Pagination: PaginationResponse{
			Offset: req.Offset,
			Limit:  req.Limit,
			Total:  total,
		},
	}
}
