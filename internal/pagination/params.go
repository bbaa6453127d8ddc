package pagination

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sort directions and defaults.
const (
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = errors.New("page size is not one of the allowed options")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'date:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params is the user's request for one page: 0-based page index, page size
// and an optional server-side sort.
type Params struct {
	// Page is the 0-based page index.
	Page int
	// Size is the number of items per page.
	Size int
	// SortField is the API field name to sort by, e.g. "transactionDate".
	SortField string
	// SortOrder is "asc" or "desc".
	SortOrder string
}

// FromFlag converts a 1-based --page flag value to Params with the given size.
func FromFlag(page, size int) (Params, error) {
	if page < 1 {
		return Params{}, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	return Params{Page: page - 1, Size: size}, nil
}

// Validate checks the page index and that Size is one of options.
// An empty options slice accepts any positive size.
func (p Params) Validate(options []int) error {
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.Size)
	}
	if len(options) > 0 && !slices.Contains(options, p.Size) {
		return fmt.Errorf("%w: got %d, allowed %v", ErrInvalidPageSize, p.Size, options)
	}
	if p.SortOrder != "" && p.SortOrder != SortOrderAsc && p.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// SortParam renders the sort in the backend's "field,dir" query form, or ""
// when no sort is set.
func (p Params) SortParam() string {
	if p.SortField == "" {
		return ""
	}
	order := p.SortOrder
	if order == "" {
		order = DefaultSortOrder
	}
	return p.SortField + "," + order
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "date", "amount:desc".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return "", DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// SortFields maps user-facing sort names to API field names.
type SortFields map[string]string

// Resolve parses sortStr and maps its field through the table.
func (s SortFields) Resolve(sortStr string) (field, order string, err error) { //nolint:nonamedreturns // Mirrors ParseSort.
	name, order, err := ParseSort(sortStr)
	if err != nil || name == "" {
		return "", order, err
	}
	apiField, ok := s[name]
	if !ok {
		return "", "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, name, strings.Join(s.Names(), ", "))
	}
	return apiField, order, nil
}

// Names returns the user-facing sort names in sorted order.
func (s SortFields) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
