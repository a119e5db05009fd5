package model

// TagCategory is one of the five fixed tag categories.
type TagCategory string

const (
	TagManagement  TagCategory = "management"
	TagDesign      TagCategory = "design"
	TagDevelopment TagCategory = "development"
	TagResearch    TagCategory = "research"
	TagMarketing   TagCategory = "marketing"
)

// TagLabels maps each category to its display label.
var TagLabels = map[TagCategory]string{
	TagManagement:  "Management",
	TagDesign:      "Design",
	TagDevelopment: "Development",
	TagResearch:    "Research",
	TagMarketing:   "Marketing",
}

// Tag is a categorized label attached to a task. A task carries at most
// one tag per category.
type Tag struct {
	Category TagCategory `json:"category"`
	Label    string      `json:"label"`
}

// NewTag builds the canonical tag for a category.
func NewTag(category TagCategory) Tag {
	return Tag{Category: category, Label: TagLabels[category]}
}
