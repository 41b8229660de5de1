// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// Page limits shared by the admin listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage reads raw page and page_size values and clamps them to
// page >= 1 and 1 <= size <= MaxPageSize. Unparsable input falls back to
// page 1 and DefaultPageSize.
//
//	utils.ParsePage("3", "50")   // 3, 50
//	utils.ParsePage("", "")      // 1, 20
//	utils.ParsePage("-2", "999") // 1, 100
func ParsePage(rawPage, rawSize string) (page, size int) {
	return NormalizePage(AtoiDefault(rawPage, 1), AtoiDefault(rawSize, DefaultPageSize))
}

// NormalizePage clamps already parsed values the same way ParsePage does,
// except that a non-positive size means DefaultPageSize.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

// Offset returns the number of rows to skip for page.
func Offset(page, size int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * size
}

// TotalPages returns ceil(total/size), or 0 for an empty result.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
