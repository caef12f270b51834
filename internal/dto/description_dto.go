package dto

// DescriptionRequest asks for generated catalogue copy.
type DescriptionRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Category string `json:"category" validate:"required,max=120"`
}

// DescriptionResponse carries the generated text.
type DescriptionResponse struct {
	Description string `json:"description"`
}
