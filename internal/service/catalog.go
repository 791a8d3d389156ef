package service

import (
	"github.com/orfo-trainer/spelling-bot/internal/domain/entities"
)

// RuleFallback is shown for categories without rule text.
const RuleFallback = "Текст отсутствует."

// Catalog is the ordered list of menu categories together with their rule
// texts. The mix category id is shared with the question bank filter.
type Catalog struct {
	categories    []entities.Category
	mixCategoryID int
}

// NewCatalog creates a new Catalog.
func NewCatalog(categories []entities.Category, mixCategoryID int) *Catalog {
	return &Catalog{
		categories:    append([]entities.Category(nil), categories...),
		mixCategoryID: mixCategoryID,
	}
}

// Categories returns the categories in menu order.
func (c *Catalog) Categories() []entities.Category {
	return append([]entities.Category(nil), c.categories...)
}

// Category returns the category with the given id.
func (c *Catalog) Category(id int) (entities.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return entities.Category{}, false
}

// Rule returns the rule text for a category id, or RuleFallback.
func (c *Catalog) Rule(id int) string {
	cat, ok := c.Category(id)
	if !ok || cat.Rule == "" {
		return RuleFallback
	}
	return cat.Rule
}

// IsMix reports whether id selects questions of every category.
func (c *Catalog) IsMix(id int) bool {
	return id == c.mixCategoryID
}
