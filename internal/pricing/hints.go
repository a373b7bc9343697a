package pricing

import (
	"fmt"

	"github.com/Veraticus/tourquote/internal/model"
)

var hintTemplates = map[model.ServiceCategory]string{
	model.CategoryTransportation: "Add a price for: '%s'%s. Specify vehicle type and passenger capacity if applicable.",
	model.CategoryGuide:          "Add a guide or staff rate for: '%s'%s. Specify language and whether the rate is per day or per group.",
	model.CategoryEntranceFee:    "Add an entrance fee for: '%s'%s. Specify whether the ticket is priced per person.",
	model.CategoryAccommodation:  "Add an accommodation rate for: '%s'%s. Specify room type and whether the rate is per night or per room.",
	model.CategoryMeal:           "Add a meal price for: '%s'%s. Specify whether the meal is priced per person.",
	model.CategoryOptional:       "Add a price for the optional activity: '%s'%s.",
	model.CategoryOther:          "Add a price for: '%s'%s.",
}

// generateHint describes the catalog data that would let svc be priced.
func generateHint(svc model.DetectedService) string {
	tmpl, ok := hintTemplates[svc.Category]
	if !ok {
		tmpl = hintTemplates[model.CategoryOther]
	}

	where := ""
	if svc.Location != "" {
		where = " in " + svc.Location
	}

	return fmt.Sprintf(tmpl, svc.Description, where)
}
