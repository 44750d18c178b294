package payment

import (
	"strings"

	"github.com/innledger/backend/internal/domain/shared"
)

// CategoryKind separates expense and income categories
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

// IsValid checks if the kind is valid
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindExpense || k == CategoryKindIncome
}

// Category groups payment items for reporting
type Category struct {
	shared.BaseEntity
	Name      string
	Kind      CategoryKind
	Color     string
	SortOrder int
}

// NewCategory creates a new category
func NewCategory(name string, kind CategoryKind, color string, sortOrder int) (*Category, error) {
	c := &Category{BaseEntity: shared.NewBaseEntity()}
	if err := c.Update(name, kind, color, sortOrder); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields of the category
func (c *Category) Update(name string, kind CategoryKind, color string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if kind == "" {
		kind = CategoryKindExpense
	}
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", "Category kind must be expense or income")
	}
	c.Name = name
	c.Kind = kind
	c.Color = color
	c.SortOrder = sortOrder
	c.Touch()
	return nil
}
