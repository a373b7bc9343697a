package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/model"
)

// rawService mirrors the JSON shape requested from providers.
type rawService struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	CostBasis   string `json:"cost_basis"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
	Day         int    `json:"day"`
	Quantity    int    `json:"quantity"`
}

// cleanMarkdownWrapper strips a ```json fence around a response, if present.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.Index(content, "\n"); nl >= 0 {
		content = content[nl+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// parseServices decodes a provider reply into validated services. Entries that
// fail validation are logged and dropped.
func parseServices(content string) ([]model.DetectedService, error) {
	content = cleanMarkdownWrapper(content)

	var raws []rawService
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedExtraction, err)
		}
	} else {
		var wrapper struct {
			Services []rawService `json:"services"`
		}
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedExtraction, err)
		}
		raws = wrapper.Services
	}

	services := make([]model.DetectedService, 0, len(raws))
	for i, raw := range raws {
		svc, err := raw.toService()
		if err != nil {
			slog.Warn("dropping extracted service", "index", i, "description", raw.Description, "error", err)
			continue
		}
		services = append(services, svc)
	}
	return services, nil
}

func (r rawService) toService() (model.DetectedService, error) {
	category, err := model.ParseServiceCategory(r.Category)
	if err != nil {
		category = model.CategoryOther
	}

	basis := model.CostPerPerson
	if strings.TrimSpace(r.CostBasis) != "" {
		basis, err = model.ParseCostBasis(r.CostBasis)
		if err != nil {
			return model.DetectedService{}, err
		}
	}

	svc := model.DetectedService{
		Day:         r.Day,
		Description: r.Description,
		Category:    category,
		CostBasis:   basis,
		Location:    r.Location,
		Quantity:    r.Quantity,
		Notes:       r.Notes,
	}
	if err := svc.Validate(); err != nil {
		return model.DetectedService{}, err
	}
	svc.Normalize()
	return svc, nil
}
