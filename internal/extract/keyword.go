package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/model"
)

var (
	dayHeading   = regexp.MustCompile(`(?im)^[ \t]*day[ \t]+(\d+)\b[ \t]*[:.\-]?[ \t]*(.*)$`)
	placeMention = regexp.MustCompile(`(?i:in|at|to|from)\s+((?:[A-Z][\p{L}']+)(?:\s+[A-Z][\p{L}']+)*)`)
	titlePlace   = regexp.MustCompile(`^([A-Z][\p{L}']+(?:\s+[A-Z][\p{L}']+){0,2})\s*$`)
	sentenceEnd  = regexp.MustCompile(`[.;!\n]+`)
)

// keywordRule maps itinerary vocabulary onto a category and its usual cost basis.
type keywordRule struct {
	category model.ServiceCategory
	basis    model.CostBasis
	words    []string
}

var keywordRules = []keywordRule{
	{model.CategoryTransportation, model.CostPerGroup, []string{
		"transfer", "drive", "driver", "car", "van", "minibus", "bus", "coach", "flight", "fly", "train", "pick up", "pickup",
	}},
	{model.CategoryGuide, model.CostPerDay, []string{"guide", "guided", "escort", "tour leader", "egyptologist"}},
	{model.CategoryEntranceFee, model.CostPerPerson, []string{
		"ticket", "entrance", "admission", "museum", "temple", "tomb", "pyramid", "site", "monument",
	}},
	{model.CategoryAccommodation, model.CostPerNight, []string{
		"hotel", "overnight", "check in", "check-in", "night at", "stay at", "lodge", "cruise", "camp",
	}},
	{model.CategoryMeal, model.CostPerPerson, []string{"breakfast", "lunch", "dinner", "meal"}},
	{model.CategoryOptional, model.CostPerPerson, []string{"optional", "balloon", "felucca", "sound and light"}},
}

// KeywordExtractor detects services with a fixed vocabulary. It needs no
// network access and serves as an offline fallback.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a keyword extractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

type dayBlock struct {
	location string
	text     string
	day      int
}

// Extract splits the itinerary into days and emits one service per matching
// keyword rule per sentence.
func (k *KeywordExtractor) Extract(ctx context.Context, req Request) ([]model.DetectedService, error) {
	if err := req.Validate(); err != nil {
		return nil, common.NewUserError("invalid extraction request", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var services []model.DetectedService
	seen := make(map[string]bool)

	for _, block := range splitDays(req.Itinerary) {
		for _, sentence := range sentenceEnd.Split(block.text, -1) {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			lower := strings.ToLower(sentence)

			location := block.location
			if m := placeMention.FindStringSubmatch(sentence); m != nil {
				location = m[1]
			}

			for _, rule := range keywordRules {
				if !containsAny(lower, rule.words) {
					continue
				}
				key := strconv.Itoa(block.day) + "|" + string(rule.category) + "|" + strings.ToLower(sentence)
				if seen[key] {
					continue
				}
				seen[key] = true

				services = append(services, model.DetectedService{
					Day:         block.day,
					Description: truncate(sentence, 120),
					Category:    rule.category,
					CostBasis:   rule.basis,
					Location:    location,
					Quantity:    1,
				})
			}
		}
	}

	services = inRange(services, req.Days)
	if len(services) == 0 {
		return nil, common.ErrNoServicesDetected
	}
	return services, nil
}

// splitDays cuts the itinerary at "Day N" headings. Text without headings is
// treated as day 1.
func splitDays(itinerary string) []dayBlock {
	matches := dayHeading.FindAllStringSubmatchIndex(itinerary, -1)
	if len(matches) == 0 {
		return []dayBlock{{day: 1, text: itinerary}}
	}

	blocks := make([]dayBlock, 0, len(matches))
	for i, m := range matches {
		day, err := strconv.Atoi(itinerary[m[2]:m[3]])
		if err != nil || day < 1 {
			continue
		}
		heading := strings.TrimSpace(itinerary[m[4]:m[5]])

		end := len(itinerary)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		blocks = append(blocks, dayBlock{
			day:      day,
			location: headingLocation(heading),
			text:     heading + "\n" + itinerary[m[1]:end],
		})
	}
	return blocks
}

// headingLocation guesses the place a day is spent from its heading:
// "Arrival in Cairo" and "Luxor" both yield a location.
func headingLocation(heading string) string {
	if m := placeMention.FindStringSubmatch(heading); m != nil {
		return m[1]
	}
	if m := titlePlace.FindStringSubmatch(heading); m != nil {
		return m[1]
	}
	return ""
}

// containsAny reports whether text holds any of words as a whole word,
// allowing a plural "s".
func containsAny(text string, words []string) bool {
	for _, w := range words {
		for offset := 0; ; {
			i := strings.Index(text[offset:], w)
			if i < 0 {
				break
			}
			start, end := offset+i, offset+i+len(w)
			if boundaryBefore(text, start) && boundaryAfter(text, end) {
				return true
			}
			offset = start + 1
		}
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[i:])
	if r == 's' {
		if i+size >= len(text) {
			return true
		}
		r, _ = utf8.DecodeRuneInString(text[i+size:])
	}
	return !unicode.IsLetter(r)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
