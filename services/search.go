package services

import (
	"regexp"
	"strings"

	"stockview/storage"
)

// VINPrefixLength is how much of a typed VIN is sent to the search.
const VINPrefixLength = 11

var yearRegex = regexp.MustCompile(`^\d{4}$`)

// SearchMode is how the search box input is interpreted
type SearchMode string

const (
	SearchByStock SearchMode = "stock"
	SearchByVIN   SearchMode = "vin"
	SearchByName  SearchMode = "name"
)

// SearchRequest is a parsed search box submission
type SearchRequest struct {
	Mode      SearchMode
	Stock     string
	VINPrefix string
	Query     storage.SearchQuery
}

// ParseSearch interprets raw input for a mode. It returns false when the
// input does not form a search (empty, or a name without "Make Model Year").
func ParseSearch(mode SearchMode, input string) (SearchRequest, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return SearchRequest{}, false
	}

	switch mode {
	case SearchByStock:
		return SearchRequest{Mode: mode, Stock: input}, true

	case SearchByVIN:
		return SearchRequest{Mode: mode, VINPrefix: VINPrefix(input)}, true

	case SearchByName:
		parts := strings.Fields(input)
		if len(parts) < 3 || !yearRegex.MatchString(parts[2]) {
			return SearchRequest{}, false
		}
		return SearchRequest{
			Mode:  mode,
			Query: storage.SearchQuery{Make: parts[0], Model: parts[1], Year: parts[2]},
		}, true
	}
	return SearchRequest{}, false
}

// VINPrefix upper-cases a typed VIN and keeps its first 11 characters
func VINPrefix(vin string) string {
	r := []rune(strings.ToUpper(strings.TrimSpace(vin)))
	if len(r) > VINPrefixLength {
		r = r[:VINPrefixLength]
	}
	return string(r)
}
