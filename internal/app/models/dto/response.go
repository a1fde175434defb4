package dto

// PaginationInfo describes one page of a list response
type PaginationInfo struct {
	Page  int   `json:"page" example:"1"`
	Limit int   `json:"limit" example:"10"`
	Total int64 `json:"total" example:"25"`
	Pages int   `json:"pages" example:"3"`
}

// ListResponse is the envelope for every paginated list endpoint
type ListResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// DataResponse is the envelope for single-record reads
type DataResponse struct {
	Data interface{} `json:"data"`
}

// MessageResponse is the envelope for mutations
type MessageResponse struct {
	Message string      `json:"message" example:"Siswa berhasil ditambahkan"`
	Data    interface{} `json:"data,omitempty"`
}

// Page is a typed page of rows returned by services before it is wrapped in a ListResponse.
type Page[T any] struct {
	Items      []T
	Pagination PaginationInfo
}

// ToResponse wraps the page in the list envelope. A nil slice is rendered as [].
func (p Page[T]) ToResponse() ListResponse {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse{Data: items, Pagination: p.Pagination}
}
