package extract

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tourquote/internal/model"
)

const systemPrompt = `You are a tour operations analyst. You read travel itineraries and list every ` +
	`billable service they imply. You MUST respond with ONLY a valid JSON object. Do not include ` +
	`explanatory text or markdown formatting.`

// buildPrompt renders the extraction instructions for one itinerary.
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("List the services implied by the following itinerary, one entry per service per day.\n\n")

	if req.Days > 0 {
		fmt.Fprintf(&sb, "The itinerary covers %d days. Use day numbers 1 to %d.\n", req.Days, req.Days)
	}
	if req.Travelers > 0 {
		fmt.Fprintf(&sb, "The party has %d travelers.\n", req.Travelers)
	}

	sb.WriteString("\nAllowed categories: ")
	names := make([]string, 0, len(model.ServiceCategories))
	for _, c := range model.ServiceCategories {
		names = append(names, string(c))
	}
	sb.WriteString(strings.Join(names, ", "))

	sb.WriteString("\nAllowed cost bases: ")
	bases := make([]string, 0, len(model.CostBases))
	for _, b := range model.CostBases {
		bases = append(bases, string(b))
	}
	sb.WriteString(strings.Join(bases, ", "))

	sb.WriteString(`

Guidance:
- Vehicles, transfers and drivers are transportation, usually per_group.
- Guides and escorts are guide, usually per_day.
- Hotel nights are accommodation, per_night, with quantity set to the number of nights.
- Museum, temple and site tickets are entrance_fee, per_person.
- Do not invent services the itinerary does not imply.

Respond with JSON in exactly this shape:
{"services": [{"day": 1, "description": "Private airport transfer", "category": "transportation", "cost_basis": "per_group", "location": "Cairo", "quantity": 1, "notes": ""}]}

Itinerary:
`)
	sb.WriteString(strings.TrimSpace(req.Itinerary))
	sb.WriteString("\n")

	return sb.String()
}
