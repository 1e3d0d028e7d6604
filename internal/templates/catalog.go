package templates

import (
	"github.com/casedeck/casedeck/internal/models"
)

func builtinTemplates() []Template {
	return []Template{
		{
			Type:        models.TemplateConstitutionalChallenge,
			Name:        "Constitutional Challenge",
			Description: "Writ petition challenging state action against fundamental rights",
			MandatorySlides: []string{
				"Case Overview",
				"Constitutional Provisions",
				"Grounds of Challenge",
				"Precedents",
				"Prayer",
			},
			SlideStructure: map[string]SlideConstraint{
				"Case Overview": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockCallout},
					MaxPoints:         4,
				},
				"Constitutional Provisions": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockQuote},
					RequireCitation:   true,
				},
				"Grounds of Challenge": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockTwoColumn},
					MaxPoints:         4,
				},
				"Precedents": {
					AllowedBlockTypes: []models.BlockType{models.BlockQuote, models.BlockText},
					RequireCitation:   true,
				},
				"Prayer": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockCallout},
					MaxPoints:         3,
				},
			},
			PromptAddendum: `This is a constitutional challenge. Organize around the impugned action, ` +
				`the fundamental rights engaged (quote the articles verbatim in a quote block with citation), ` +
				`the grounds of challenge, binding precedent, and the relief sought. ` +
				`Cite at least one landmark constitutional bench decision.`,
			SuggestedSlideCount: 6,
		},
		{
			Type:        models.TemplateCriminalProsecution,
			Name:        "Criminal Prosecution",
			Description: "Prosecution case built on charges, evidence, and chronology",
			MandatorySlides: []string{
				"Case Overview",
				"Charges and Offences",
				"Chronology",
				"Evidence",
				"Arguments",
			},
			SlideStructure: map[string]SlideConstraint{
				"Case Overview": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockCallout},
					MaxPoints:         4,
				},
				"Charges and Offences": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         4,
					RequireCitation:   true,
				},
				"Chronology": {
					AllowedBlockTypes: []models.BlockType{models.BlockTimeline},
				},
				"Evidence": {
					AllowedBlockTypes: []models.BlockType{models.BlockEvidence},
				},
				"Arguments": {
					AllowedBlockTypes: []models.BlockType{models.BlockTwoColumn, models.BlockText},
				},
			},
			PromptAddendum: `This is a criminal prosecution. Lead with the charges: every offence must name ` +
				`its section and statute in blue formatting (for example _Section 302 IPC_). ` +
				`Present the chronology of the incident as a timeline block and the evidence as an ` +
				`evidence block with labeled items. Close with prosecution versus defence arguments.`,
			SuggestedSlideCount: 6,
		},
		{
			Type:        models.TemplateCivilDispute,
			Name:        "Civil Dispute",
			Description: "Civil suit over contracts, property, or damages",
			MandatorySlides: []string{
				"Case Overview",
				"Facts",
				"Issues",
				"Claims and Defences",
				"Relief Sought",
			},
			SlideStructure: map[string]SlideConstraint{
				"Case Overview": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         4,
				},
				"Facts": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockTimeline},
				},
				"Issues": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         4,
				},
				"Claims and Defences": {
					AllowedBlockTypes: []models.BlockType{models.BlockTwoColumn},
				},
				"Relief Sought": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockCallout},
					MaxPoints:         3,
				},
			},
			PromptAddendum: `This is a civil dispute. Frame the issues precisely, set plaintiff claims ` +
				`against defendant defences in a two-column block, and state the relief sought ` +
				`with the statutory basis in blue formatting.`,
			SuggestedSlideCount: 5,
		},
		{
			Type:        models.TemplateMootCourt,
			Name:        "Moot Court",
			Description: "Moot submissions for either side with speaking structure",
			MandatorySlides: []string{
				"Case Overview",
				"Issues Raised",
				"Submissions",
				"Authorities",
				"Prayer",
			},
			SlideStructure: map[string]SlideConstraint{
				"Case Overview": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         3,
				},
				"Issues Raised": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         4,
				},
				"Submissions": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockTwoColumn},
				},
				"Authorities": {
					AllowedBlockTypes: []models.BlockType{models.BlockQuote, models.BlockText},
					RequireCitation:   true,
				},
				"Prayer": {
					AllowedBlockTypes: []models.BlockType{models.BlockCallout, models.BlockText},
					MaxPoints:         3,
				},
			},
			PromptAddendum: `This deck supports moot court submissions. Number the issues the way a ` +
				`memorial would, keep each submission to one crisp proposition with its authority, ` +
				`and end with the prayer in a callout block.`,
			SuggestedSlideCount: 6,
		},
		{
			Type:        models.TemplateCaseBrief,
			Name:        "Case Brief",
			Description: "Brief of a decided case: facts, holding, and reasoning",
			MandatorySlides: []string{
				"Case Overview",
				"Facts",
				"Issues",
				"Holding",
				"Ratio Decidendi",
			},
			SlideStructure: map[string]SlideConstraint{
				"Case Overview": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         4,
					RequireCitation:   true,
				},
				"Facts": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockTimeline},
				},
				"Issues": {
					AllowedBlockTypes: []models.BlockType{models.BlockText},
					MaxPoints:         4,
				},
				"Holding": {
					AllowedBlockTypes: []models.BlockType{models.BlockQuote, models.BlockCallout},
					RequireCitation:   true,
				},
				"Ratio Decidendi": {
					AllowedBlockTypes: []models.BlockType{models.BlockText, models.BlockQuote},
				},
			},
			PromptAddendum: `This is a case brief of a decided judgment. Open with the full citation, ` +
				`separate the *ratio decidendi* from *obiter dicta* using gold formatting for doctrines, ` +
				`and quote the operative holding verbatim with its citation.`,
			SuggestedSlideCount: 5,
		},
	}
}
