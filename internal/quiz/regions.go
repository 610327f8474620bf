package quiz

import "slices"

// RegionUnset is what a region select reports before anything is chosen.
// It is never a valid answer.
const RegionUnset = "na"

// Regions is the closed domain of the region select.
var Regions = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California",
	"Colorado", "Connecticut", "Delaware", "District of Columbia", "Florida",
	"Georgia", "Hawaii", "Idaho", "Illinois", "Indiana",
	"Iowa", "Kansas", "Kentucky", "Louisiana", "Maine",
	"Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi",
	"Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
	"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota",
	"Ohio", "Oklahoma", "Oregon", "Pennsylvania", "Rhode Island",
	"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah",
	"Vermont", "Virginia", "Washington", "West Virginia", "Wisconsin",
	"Wyoming",
}

func IsRegion(s string) bool {
	return s != RegionUnset && slices.Contains(Regions, s)
}
