package generator

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casedeck/casedeck/internal/gateway"
	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/schema"
	"github.com/casedeck/casedeck/internal/validator"
)

// RefineOptions tune a single Refine call.
type RefineOptions struct {
	PreserveSlides []int // indices whose content must not change
	TargetSlides   []int // indices to rework; empty means all
	Model          string
	Temperature    float32
	MaxTokens      int
}

// Refine reworks a subset of an existing deck per free-text instructions.
// Preserved slides come back untouched; the refinement history gains one
// entry. Refinement never touches the deck cache.
func (g *Generator) Refine(ctx context.Context, existing *models.SlideDeck, instructions string, opts RefineOptions) (*models.SlideDeck, error) {
	start := g.clock.Now()

	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, models.NewError(models.KindEmptyInstructions, "refinement instructions are empty")
	}
	if existing == nil || len(existing.Slides) == 0 {
		return nil, models.NewError(models.KindInvalidExistingDeck, "existing deck has no slides")
	}
	for _, i := range opts.PreserveSlides {
		if i < 0 || i >= len(existing.Slides) {
			return nil, models.NewError(models.KindInvalidExistingDeck,
				"preserve index %d is out of range for a %d-slide deck", i, len(existing.Slides))
		}
	}
	for _, i := range opts.TargetSlides {
		if i < 0 || i >= len(existing.Slides) {
			return nil, models.NewError(models.KindInvalidExistingDeck,
				"target index %d is out of range for a %d-slide deck", i, len(existing.Slides))
		}
	}

	preserved := indexSet(opts.PreserveSlides)
	targets := indexSet(opts.TargetSlides)
	if len(targets) == 0 {
		for i := range existing.Slides {
			targets[i] = true
		}
	}
	// The effective target set excludes preserved slides.
	effective := map[int]bool{}
	for i := range targets {
		if !preserved[i] {
			effective[i] = true
		}
	}

	temp := opts.Temperature
	if temp == 0 {
		temp = defaultTemperature
	}

	raw, err := g.gw.Invoke(ctx, gateway.Request{
		Prompt:       refinePrompt(existing, instructions, preserved, targets),
		SystemPrompt: systemPrompt(nil, false),
		Schema:       schema.Deck(),
		SchemaName:   schema.DeckSchemaName,
		Model:        opts.Model,
		Temperature:  temp,
		MaxTokens:    opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	refined, err := decodeDeck(raw)
	if err != nil {
		return nil, err
	}

	// Start from a deep copy of the existing deck and overwrite only the
	// effective targets; slides the model dropped or reordered outside
	// that set cannot leak through.
	out := existing.Clone()
	now := g.clock.Now()
	for i := range effective {
		if i >= len(refined.Slides) {
			continue
		}
		slide := refined.Slides[i].Clone()
		slide.Modified = true
		slide.ModifiedAt = &now
		out.Slides[i] = slide
	}
	out.TotalSlides = len(out.Slides)
	if refined.Title != "" && effective[0] {
		out.Title = refined.Title
	}

	entry := models.RefinementEntry{
		ID:              uuid.New().String(),
		Timestamp:       now,
		Instructions:    instructions,
		TargetSlides:    sortedIndices(effective),
		PreservedSlides: sortedIndices(preserved),
		DurationMs:      g.clock.Now().Sub(start).Milliseconds(),
	}
	out.RefinementHistory = append(out.RefinementHistory, entry)

	out.Validation = g.validator.Validate(out, validator.Context{Input: instructions})
	out.FromCache = false

	log.Info().
		Int("targets", len(effective)).
		Int("preserved", len(preserved)).
		Int("score", out.Validation.OverallScore).
		Msg("Deck refined")

	return out, nil
}

func indexSet(indices []int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return set
}

func sortedIndices(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
