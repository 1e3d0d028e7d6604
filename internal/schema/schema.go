// Package schema holds the declarative response schemas enforced on
// structured LLM output. Every component that exchanges model-generated data
// consumes these descriptors rather than declaring its own.
package schema

import (
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Names registered with the gateway alongside their schemas.
const (
	DeckSchemaName     = "slide_deck"
	CitationSchemaName = "citation_result"
)

// Deck returns the response schema for a generated slide deck.
//
// Block payloads stay a free-form object here: the provider's schema
// validator rejects the nesting depth a full tagged-variant schema would
// need, so payload shapes are re-checked after decoding.
func Deck() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title": {
				Type:        jsonschema.String,
				Description: "Presentation title, plain text without markdown",
			},
			"slides": {
				Type:  jsonschema.Array,
				Items: slideSchema(),
			},
		},
		Required: []string{"title", "slides"},
	}
}

func slideSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title": {
				Type:        jsonschema.String,
				Description: "Slide title, plain text without markdown markers",
			},
			"subtitle": {
				Type: jsonschema.String,
			},
			"suggested_images": {
				Type:        jsonschema.Array,
				Description: "Up to two stock-image search keywords",
				Items:       &jsonschema.Definition{Type: jsonschema.String},
			},
			"blocks": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"type": {
							Type: jsonschema.String,
							Enum: []string{"text", "quote", "callout", "timeline", "evidence", "twoColumn"},
						},
						"data": {
							Type:                 jsonschema.Object,
							Description:          "Payload whose shape depends on type",
							AdditionalProperties: true,
						},
					},
					Required: []string{"type", "data"},
				},
			},
		},
		Required: []string{"title", "blocks"},
	}
}

// Citation returns the response schema for a legal-citation lookup result.
func Citation() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"case_name": {
				Type:        jsonschema.String,
				Description: "Parties in 'X v. Y' form",
			},
			"citation": {
				Type:        jsonschema.String,
				Description: "Reporter citation, e.g. (2017) 10 SCC 1",
			},
			"year": {
				Type: jsonschema.Integer,
			},
			"court": {
				Type: jsonschema.String,
			},
			"summary": {
				Type:        jsonschema.String,
				Description: "One-paragraph summary of the holding",
			},
			"principles": {
				Type:        jsonschema.Array,
				Description: "Key legal principles laid down",
				Items:       &jsonschema.Definition{Type: jsonschema.String},
			},
			"found": {
				Type:        jsonschema.Boolean,
				Description: "False when the case could not be identified",
			},
		},
		Required: []string{"case_name", "citation", "year", "found"},
	}
}
