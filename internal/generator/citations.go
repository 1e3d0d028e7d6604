package generator

import (
	"context"
	"encoding/json"

	"github.com/casedeck/casedeck/internal/gateway"
	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/schema"
)

// CitationResult is a resolved legal citation.
type CitationResult struct {
	CaseName   string   `json:"case_name"`
	Citation   string   `json:"citation"`
	Year       int      `json:"year"`
	Court      string   `json:"court,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Principles []string `json:"principles,omitempty"`
	Found      bool     `json:"found"`
}

const citationSystemPrompt = `You resolve references to Indian case law. Given a partial or informal reference, return the full case name, reporter citation, year, and court. If you cannot identify the case with confidence, set found to false and leave the other fields empty rather than guessing.`

// LookupCitation resolves a free-text case reference through the gateway
// against the citation schema.
func (g *Generator) LookupCitation(ctx context.Context, query string) (*CitationResult, error) {
	raw, err := g.gw.Invoke(ctx, gateway.Request{
		Prompt:       "Reference to resolve: " + query,
		SystemPrompt: citationSystemPrompt,
		Schema:       schema.Citation(),
		SchemaName:   schema.CitationSchemaName,
		Temperature:  0.1,
	})
	if err != nil {
		return nil, err
	}

	var result CitationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, models.WrapError(models.KindSchemaViolation, err, "citation response violates schema")
	}
	return &result, nil
}
