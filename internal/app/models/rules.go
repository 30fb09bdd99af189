package models

// RuleChapter is the top level of the moral-education rule taxonomy.
type RuleChapter struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Order       int    `json:"order" db:"display_order"`
}

// RuleDimension is a core dimension within a chapter, e.g. "Respect and Courtesy".
// (ChapterID, Name) is unique.
type RuleDimension struct {
	ID          int64  `json:"id" db:"id"`
	ChapterID   int64  `json:"chapterId" db:"chapter_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Order       int    `json:"order" db:"display_order"`
}

// RuleSubItem is a specific scorable behavior within a dimension,
// e.g. "Greets teachers and elders". (DimensionID, Name) is unique.
type RuleSubItem struct {
	ID          int64  `json:"id" db:"id"`
	DimensionID int64  `json:"dimensionId" db:"dimension_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Order       int    `json:"order" db:"display_order"`
}
