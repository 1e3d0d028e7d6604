// Package templates holds the catalog of legal-scenario presentation
// templates. The catalog is immutable in-memory data; there is no I/O.
package templates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/casedeck/casedeck/internal/models"
)

// SlideConstraint bounds the content allowed on one slide role.
type SlideConstraint struct {
	AllowedBlockTypes []models.BlockType `json:"allowed_block_types"`
	MaxPoints         int                `json:"max_points,omitempty"`
	RequireCitation   bool               `json:"require_citation,omitempty"`
}

// Template is a named recipe for a legal scenario: the slide roles it must
// cover, per-role constraints, and the prompt fragment that steers the model.
type Template struct {
	Type                models.TemplateType        `json:"type"`
	Name                string                     `json:"name"`
	Description         string                     `json:"description"`
	MandatorySlides     []string                   `json:"mandatory_slides"`
	SlideStructure      map[string]SlideConstraint `json:"slide_structure"`
	PromptAddendum      string                     `json:"-"`
	SuggestedSlideCount int                        `json:"suggested_slide_count"`
}

// MatchReport grades how well a template fits an analyzed case.
type MatchReport struct {
	MatchScore  int      `json:"match_score"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// ErrNotFound is returned by Get for unknown template types.
type ErrNotFound struct {
	Type models.TemplateType
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("template not found: %q", e.Type)
}

// Registry is a read-only catalog of templates.
type Registry struct {
	order    []models.TemplateType
	byType   map[models.TemplateType]*Template
	mootWord *regexp.Regexp
}

// NewRegistry builds the built-in catalog.
func NewRegistry() *Registry {
	r := &Registry{
		byType:   make(map[models.TemplateType]*Template),
		mootWord: regexp.MustCompile(`(?i)\b(moot|submission|prayer)\b`),
	}
	for _, t := range builtinTemplates() {
		tc := t
		r.order = append(r.order, tc.Type)
		r.byType[tc.Type] = &tc
	}
	return r
}

// List returns all templates in stable catalog order.
func (r *Registry) List() []*Template {
	out := make([]*Template, 0, len(r.order))
	for _, ty := range r.order {
		out = append(out, r.byType[ty])
	}
	return out
}

// Get returns the template for the given type.
func (r *Registry) Get(ty models.TemplateType) (*Template, error) {
	t, ok := r.byType[ty]
	if !ok {
		return nil, &ErrNotFound{Type: ty}
	}
	return t, nil
}

// Suggest picks the best-fitting template for a profile, or "" when no rule
// applies. The moot-court cue is checked against the raw text because the
// profile does not carry it.
func (r *Registry) Suggest(profile models.CaseProfile, text string) models.TemplateType {
	if r.mootWord.MatchString(text) {
		return models.TemplateMootCourt
	}
	switch profile.CaseType {
	case models.CaseTypeConstitutional:
		return models.TemplateConstitutionalChallenge
	case models.CaseTypeCriminal:
		return models.TemplateCriminalProsecution
	case models.CaseTypeCivil, models.CaseTypeProcedural:
		return models.TemplateCivilDispute
	}
	// No strong type signal: a detected citation suggests a case brief.
	if profile.Elements.HasCitations {
		return models.TemplateCaseBrief
	}
	return ""
}

// ValidateMatch scores how well the given template fits the profile.
func (r *Registry) ValidateMatch(ty models.TemplateType, profile models.CaseProfile) (*MatchReport, error) {
	t, err := r.Get(ty)
	if err != nil {
		return nil, err
	}

	report := &MatchReport{
		MatchScore:  100,
		Warnings:    []string{},
		Suggestions: []string{},
	}

	expected := expectedCaseType(ty)
	if expected != "" && expected != profile.CaseType && profile.CaseType != models.CaseTypeGeneral {
		report.MatchScore -= 30
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("input reads as a %s case but the %s template targets %s cases",
				profile.CaseType, t.Name, expected))
	}

	if requiresCitations(ty) && !profile.Elements.HasCitations {
		report.MatchScore -= 20
		report.Suggestions = append(report.Suggestions,
			"This template leans on precedent; add at least one case citation")
	}
	if !profile.Elements.HasFacts {
		report.MatchScore -= 10
		report.Suggestions = append(report.Suggestions,
			"Add the factual background so the mandatory facts slide has material")
	}
	if !profile.Elements.HasStatutes && ty != models.TemplateMootCourt {
		report.MatchScore -= 10
		report.Suggestions = append(report.Suggestions,
			"Name the provisions involved so the template's statute slides can be filled")
	}

	if report.MatchScore < 0 {
		report.MatchScore = 0
	}
	return report, nil
}

func expectedCaseType(ty models.TemplateType) models.CaseType {
	switch ty {
	case models.TemplateConstitutionalChallenge:
		return models.CaseTypeConstitutional
	case models.TemplateCriminalProsecution:
		return models.CaseTypeCriminal
	case models.TemplateCivilDispute:
		return models.CaseTypeCivil
	}
	return ""
}

func requiresCitations(ty models.TemplateType) bool {
	return ty == models.TemplateCaseBrief || ty == models.TemplateConstitutionalChallenge
}

// ContainsRole reports whether a slide title covers one of the template's
// mandatory roles, by loose substring match.
func ContainsRole(title, role string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(role))
}
