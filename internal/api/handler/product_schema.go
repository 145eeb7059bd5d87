package handler

// productRequest carries the full set of mutable product fields; it is used
// for both create and full-replace update. Price zero is legal, so only the
// lower bound is validated.
type productRequest struct {
	Name        string  `json:"name"        validate:"required,min=3"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
}
