package request

type CreateContentDTO struct {
	Section string `json:"section" validate:"required"`
	Key     string `json:"key" validate:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type" validate:"omitempty,oneof=text html image"`
}

type UpdateContentDTO struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
