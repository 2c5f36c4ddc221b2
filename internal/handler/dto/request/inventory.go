package request

type CreateItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity" binding:"min=0"`
	Notes    *string `json:"notes,omitempty"`
}
