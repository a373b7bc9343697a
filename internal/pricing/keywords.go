package pricing

import (
	"strings"
	"unicode"

	"github.com/Veraticus/tourquote/internal/model"
)

// categoryKeywords maps each service category onto words that may appear in a
// catalog entry's free-text category tag.
var categoryKeywords = map[model.ServiceCategory][]string{
	model.CategoryTransportation: {"transport", "transfer", "car", "vehicle", "train", "flight", "boat"},
	model.CategoryGuide:          {"guide", "personnel", "escort", "staff", "leader", "egyptologist"},
	model.CategoryEntranceFee:    {"entrance", "ticket", "admission", "fee", "site", "museum"},
	model.CategoryAccommodation:  {"accommodation", "hotel", "lodge", "room", "resort", "camp", "cruise"},
	model.CategoryMeal:           {"meal", "lunch", "dinner", "breakfast", "restaurant", "food"},
	model.CategoryOptional:       {"optional", "extra", "activity", "excursion"},
	model.CategoryOther:          {"other", "misc", "service"},
}

// categoryMatches reports whether entryCategory carries a keyword for c.
func categoryMatches(c model.ServiceCategory, entryCategory string) bool {
	entryCategory = strings.ToLower(entryCategory)
	if entryCategory == "" {
		return false
	}
	for _, kw := range categoryKeywords[c] {
		if strings.Contains(entryCategory, kw) {
			return true
		}
	}
	return false
}

// searchTerms tokenizes the service into lower-cased, de-duplicated words.
// Words shorter than three runes ("to", "at") carry no signal and are dropped.
func searchTerms(svc model.DetectedService) []string {
	seen := make(map[string]bool)
	var terms []string

	for _, field := range []string{svc.Description, string(svc.Category), svc.Location} {
		words := strings.FieldsFunc(strings.ToLower(field), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if len([]rune(w)) < 3 || seen[w] {
				continue
			}
			seen[w] = true
			terms = append(terms, w)
		}
	}

	return terms
}

// comparisonText concatenates the searchable fields of a catalog entry.
func comparisonText(entry *model.CatalogEntry) string {
	return strings.ToLower(strings.Join([]string{
		entry.ServiceName,
		entry.Category,
		entry.RouteName,
		entry.Location,
		entry.VehicleType,
	}, " "))
}
