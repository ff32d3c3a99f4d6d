package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCategories = errors.New("invalid category list")
)

// DefaultCategoryNames is the registry used when none is configured
var DefaultCategoryNames = []string{"Electronics", "Furniture", "Clothing", "Books", "Other"}

// Categories is the fixed, ordered set of allowed category names
type Categories struct {
	names []string
	set   map[string]struct{}
}

// NewCategories builds a registry, rejecting empty lists, blank names and duplicates
func NewCategories(names ...string) (*Categories, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidCategories)
	}

	c := &Categories{
		names: make([]string, 0, len(names)),
		set:   make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: blank category name", ErrInvalidCategories)
		}
		if _, dup := c.set[name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidCategories, name)
		}
		c.set[name] = struct{}{}
		c.names = append(c.names, name)
	}
	return c, nil
}

// DefaultCategories returns the registry built from DefaultCategoryNames
func DefaultCategories() *Categories {
	c, err := NewCategories(DefaultCategoryNames...)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns the category names in declaration order
func (c *Categories) All() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports exact, case-sensitive membership
func (c *Categories) Contains(value string) bool {
	_, ok := c.set[value]
	return ok
}
