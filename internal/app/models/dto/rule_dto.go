package dto

// CreateChapterRequest represents rule chapter creation data.
type CreateChapterRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"omitempty,gte=0"`
}

// CreateDimensionRequest represents rule dimension creation data.
type CreateDimensionRequest struct {
	ChapterID   int64  `json:"chapterId" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"omitempty,gte=0"`
}

// CreateSubItemRequest represents rule sub-item creation data.
type CreateSubItemRequest struct {
	DimensionID int64  `json:"dimensionId" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"omitempty,gte=0"`
}

// UpdateRuleRequest updates the editable fields of any taxonomy level.
type UpdateRuleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"omitempty,gte=0"`
}
