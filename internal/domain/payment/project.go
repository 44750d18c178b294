package payment

import (
	"strings"

	"github.com/innledger/backend/internal/domain/shared"
)

// Project is an optional grouping such as a renovation or a new branch opening
type Project struct {
	shared.BaseEntity
	Name        string
	Description string
	IsActive    bool
}

// NewProject creates an active project
func NewProject(name, description string) (*Project, error) {
	p := &Project{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	p.Description = description
	return p, nil
}

// Rename validates and sets the project name
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	p.Name = name
	p.Touch()
	return nil
}
