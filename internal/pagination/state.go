package pagination

import "fmt"

// State is the pagination part of a page envelope: which page was returned
// and how many exist.
type State struct {
	Number        int `json:"number"        yaml:"number"`
	Size          int `json:"size"          yaml:"size"`
	TotalPages    int `json:"totalPages"    yaml:"total_pages"`
	TotalElements int `json:"totalElements" yaml:"total_elements"`
}

// HasPrevious reports whether a page before Number exists.
func (s State) HasPrevious() bool {
	return s.Number > 0
}

// HasNext reports whether a page after Number exists.
func (s State) HasNext() bool {
	return s.Number < s.TotalPages-1
}

// Caption returns the result-count line for the page, e.g. "Showing 21-23 of 23".
func (s State) Caption() string {
	return Caption(s.Number, s.Size, s.TotalElements)
}

// Caption returns "Showing {start}-{end} of {total}" for the 0-based page
// number. When total is 0 it returns "Showing 0-0 of 0".
func Caption(number, size, total int) string {
	if total <= 0 {
		return "Showing 0-0 of 0"
	}
	start := number*size + 1
	end := min((number+1)*size, total)
	if start > total {
		// Past the last page the server returns no rows.
		start, end = total, total
	}
	return fmt.Sprintf("Showing %d-%d of %d", start, end, total)
}

// TotalPages returns ceil(total/size), or 0 when size is not positive.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
