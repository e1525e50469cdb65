package openlibrary

import "strings"

// publisherPlace is one entry of the publisher-to-place fallback table.
type publisherPlace struct {
	Name  string
	Place string
}

// publisherPlaces maps well-known publishers to their canonical place of
// publication. Order matters: the first matching entry wins. Used only when
// a candidate record names a publisher but no publish place.
var publisherPlaces = []publisherPlace{
	// US university presses.
	{"Harvard University Press", "Cambridge"},
	{"MIT Press", "Cambridge"},
	{"Yale University Press", "New Haven"},
	{"Princeton University Press", "Princeton"},
	{"Stanford University Press", "Stanford"},
	{"University of California Press", "Berkeley"},
	{"University of Chicago Press", "Chicago"},
	{"Columbia University Press", "New York"},
	{"Cornell University Press", "Ithaca"},
	{"Duke University Press", "Durham"},
	{"Johns Hopkins University Press", "Baltimore"},
	// UK.
	{"Oxford University Press", "Oxford"},
	{"Cambridge University Press", "Cambridge"},
	// Trade houses.
	{"Penguin", "New York"},
	{"Random House", "New York"},
	{"HarperCollins", "New York"},
	{"Simon & Schuster", "New York"},
}

// PlaceForPublisher returns the canonical place for a publisher name, or ""
// when no table entry matches. Matching is case-insensitive substring in
// either direction, so "Penguin Books Ltd" matches the "Penguin" entry and
// "Oxford" matches "Oxford University Press".
func PlaceForPublisher(publisher string) string {
	if publisher == "" {
		return ""
	}
	p := strings.ToLower(publisher)
	for _, e := range publisherPlaces {
		n := strings.ToLower(e.Name)
		if strings.Contains(p, n) || strings.Contains(n, p) {
			return e.Place
		}
	}
	return ""
}
