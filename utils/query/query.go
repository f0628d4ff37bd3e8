package queryHelper

import (
	"strconv"
	"strings"
)

// Pagination contains pagination metadata for list pages
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// ParsePage reads a 1-based page number; anything invalid or below 1 becomes 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// CalculatePagination calculates pagination metadata. A page past the end is
// clamped to the first empty page, so it yields an empty result set and the
// offset cannot overflow.
func CalculatePagination(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	totalPages := int(total / int64(perPage))
	if total%int64(perPage) > 0 {
		totalPages++
	}
	if page > totalPages+1 {
		page = totalPages + 1
	}

	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
	}
}

// Offset is the number of rows to skip for the current page
func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

func (p Pagination) PrevPage() int {
	return p.CurrentPage - 1
}

func (p Pagination) NextPage() int {
	return p.CurrentPage + 1
}

// Pages lists every page number, for rendering page links
func (p Pagination) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// SortOption maps a user-facing sort key to a fixed ORDER BY clause
type SortOption struct {
	Key    string
	Label  string
	Clause string
}

// SortOptions is an allow-list of sort keys with a default
type SortOptions struct {
	options    []SortOption
	defaultKey string
}

// NewSortOptions builds an allow-list; the first option is the default
func NewSortOptions(options ...SortOption) SortOptions {
	s := SortOptions{options: options}
	if len(options) > 0 {
		s.defaultKey = options[0].Key
	}
	return s
}

// Resolve returns the option for key, or the default for unknown keys
func (s SortOptions) Resolve(key string) SortOption {
	var def SortOption
	for _, o := range s.options {
		if o.Key == key {
			return o
		}
		if o.Key == s.defaultKey {
			def = o
		}
	}
	return def
}

// Options returns the allow-list in declaration order
func (s SortOptions) Options() []SortOption {
	return s.options
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a lower-cased LIKE pattern matching s anywhere, with wildcards escaped
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
