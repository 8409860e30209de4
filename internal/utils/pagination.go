package utils

import "strconv" // String conversion

const (
	DefaultPageSize = 20  // Default page size
	MaxPageSize     = 100 // Upper bound for page_size
)

// Page holds parsed pagination parameters
type Page struct {
	Number int // 1-based page number
	Size   int // Items per page
}

// ParsePage reads page and page_size query values, falling back to defaults on bad input
func ParsePage(page, pageSize string) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Number = v // Set page if valid
		}
	}
	if pageSize != "" {
		if v, err := strconv.Atoi(pageSize); err == nil && v > 0 && v <= MaxPageSize {
			p.Size = v // Set page size if valid
		}
	}
	return p
}

// Offset is the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns how many pages total rows span
func (p Page) TotalPages(total int64) int {
	return (int(total) + p.Size - 1) / p.Size
}
