package generator

import (
	"encoding/json"
	"strings"

	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/validator"
)

// deckWire mirrors the structured-output schema: only the fields the model
// produces, not the pipeline metadata.
type deckWire struct {
	Title  string         `json:"title"`
	Slides []models.Slide `json:"slides"`
}

// decodeDeck parses a structured gateway response into a deck, enforcing the
// slide bounds. A response with no slides is a semantic failure; one with too
// many is truncated to the maximum.
func decodeDeck(raw json.RawMessage) (*models.SlideDeck, error) {
	var wire deckWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, models.WrapError(models.KindSchemaViolation, err, "deck response violates schema")
	}
	if len(wire.Slides) == 0 {
		return nil, models.NewError(models.KindNoSlidesGenerated, "model returned a deck with no slides")
	}

	if len(wire.Slides) > models.MaxSlideCount {
		wire.Slides = wire.Slides[:models.MaxSlideCount]
	}

	deck := &models.SlideDeck{
		Title:       strings.TrimSpace(validator.StripMarkup(wire.Title)),
		Slides:      wire.Slides,
		TotalSlides: len(wire.Slides),
	}
	for i := range deck.Slides {
		// Titles are plain text; the color-coding belongs in blocks.
		deck.Slides[i].Title = strings.TrimSpace(validator.StripMarkup(deck.Slides[i].Title))
		if n := len(deck.Slides[i].SuggestedImages); n > 2 {
			deck.Slides[i].SuggestedImages = deck.Slides[i].SuggestedImages[:2]
		}
	}
	return deck, nil
}
