package validator

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/templates"
)

const murderInput = "Murder case under Section 302 IPC with 15 witnesses, CCTV footage at 11:45 PM, eyewitnesses identifying accused. Court found guilty."

// goodDeck is a well-formed criminal deck anchored in murderInput.
func goodDeck() *models.SlideDeck {
	return &models.SlideDeck{
		Title:       "State v. Accused: Murder Trial",
		TotalSlides: 5,
		Slides: []models.Slide{
			{
				Title:  "Case Overview",
				Blocks: []models.Block{models.NewTextBlock("Murder case before the sessions court", "Accused identified by eyewitnesses", "Court found the accused guilty")},
			},
			{
				Title:  "Facts of the Case",
				Blocks: []models.Block{models.NewTextBlock("The incident was captured on CCTV footage at 11:45 PM", "15 witnesses supported the prosecution case", "Eyewitnesses identifying the accused at the scene")},
			},
			{
				Title:  "Issues",
				Blocks: []models.Block{models.NewTextBlock("Whether the charge of ~murder~ is made out", "Whether the identification evidence is reliable")},
			},
			{
				Title:  "Charges and Offences",
				Blocks: []models.Block{models.NewTextBlock("Charged under _Section 302 IPC_ for ~murder~", "The *mens rea* requirement is satisfied by the planning", "Conviction recorded by the trial court")},
			},
			{
				Title: "Evidence",
				Blocks: []models.Block{models.NewEvidenceBlock(
					models.EvidenceItem{Label: "Exhibit A", Description: "CCTV footage of the incident"},
					models.EvidenceItem{Label: "PW-1 to PW-15", Description: "Eyewitness testimony identifying the accused"},
				)},
			},
		},
	}
}

func TestParseSpans(t *testing.T) {
	spans := ParseSpans("Charged under _Section 302 IPC_ for ~murder~ where *mens rea* is present")

	require.Len(t, spans, 3)
	byKind := map[SpanKind]string{}
	for _, sp := range spans {
		byKind[sp.Kind] = sp.Text
	}
	assert.Equal(t, "Section 302 IPC", byKind[SpanBlue])
	assert.Equal(t, "murder", byKind[SpanRed])
	assert.Equal(t, "mens rea", byKind[SpanGold])
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Section 302 IPC and murder",
		StripMarkup("_Section 302 IPC_ and ~murder~"))
	assert.False(t, HasMarkup(StripMarkup("*mens rea* and _Article 21_")))
}

func TestValidate_GoodDeckPasses(t *testing.T) {
	v := New()
	report := v.Validate(goodDeck(), Context{Input: murderInput})

	assert.GreaterOrEqual(t, report.OverallScore, ValidThreshold)
	assert.Zero(t, report.ErrorCount())
	assert.True(t, report.Valid)
}

func TestValidate_OverallIsWeightedSum(t *testing.T) {
	v := New()
	decks := []*models.SlideDeck{
		goodDeck(),
		{Title: "Thin", TotalSlides: 1, Slides: []models.Slide{{Title: "Only slide"}}},
	}
	for _, deck := range decks {
		report := v.Validate(deck, Context{Input: murderInput})
		want := int(math.Round(float64(
			report.Scores.Structure*25+
				report.Scores.LegalAccuracy*30+
				report.Scores.Formatting*20+
				report.Scores.Relevance*25) / 100.0))
		assert.Equal(t, want, report.OverallScore)
		assert.GreaterOrEqual(t, report.OverallScore, 0)
		assert.LessOrEqual(t, report.OverallScore, 100)
	}
}

func TestValidate_StructureDeductions(t *testing.T) {
	v := New()

	tooFew := &models.SlideDeck{
		Title:       "Too small",
		TotalSlides: 1,
		Slides: []models.Slide{
			{Title: "Lonely", Blocks: []models.Block{models.NewTextBlock("a", "b")}},
		},
	}
	report := v.Validate(tooFew, Context{Input: murderInput})
	assert.Equal(t, 70, report.Scores.Structure)
	assert.False(t, report.Valid)

	missingTitle := goodDeck()
	missingTitle.Slides[0].Title = ""
	report = v.Validate(missingTitle, Context{Input: murderInput})
	assert.GreaterOrEqual(t, report.ErrorCount(), 1)

	noBlocks := goodDeck()
	noBlocks.Slides[1].Blocks = nil
	report = v.Validate(noBlocks, Context{Input: murderInput})
	assert.GreaterOrEqual(t, report.ErrorCount(), 1)

	fatTextBlock := goodDeck()
	fatTextBlock.Slides[0].Blocks = []models.Block{
		models.NewTextBlock("1", "2", "3", "4", "5"),
	}
	report = v.Validate(fatTextBlock, Context{Input: murderInput})
	found := false
	for _, is := range report.Issues {
		if is.Type == models.IssueStructure && is.Severity == models.SeverityWarning {
			found = true
		}
	}
	assert.True(t, found, "expected a point-count warning")
}

func TestValidate_InvalidArticleIsError(t *testing.T) {
	v := New()
	deck := goodDeck()
	deck.Slides[3].Blocks = []models.Block{
		models.NewTextBlock("Relies on _Article 999_ of the Constitution", "And on _Section 302 IPC_"),
	}

	report := v.Validate(deck, Context{Input: murderInput})

	assert.GreaterOrEqual(t, report.ErrorCount(), 1)
	assert.False(t, report.Valid)

	var legalErr *models.ValidationIssue
	for i := range report.Issues {
		if report.Issues[i].Type == models.IssueLegal && report.Issues[i].Severity == models.SeverityError {
			legalErr = &report.Issues[i]
		}
	}
	require.NotNil(t, legalErr)
	assert.Contains(t, legalErr.Message, "Article 999")
}

func TestValidate_UnformattedReferencesDeduct(t *testing.T) {
	v := New()

	formatted := goodDeck()
	unformatted := goodDeck()
	unformatted.Slides[3].Blocks = []models.Block{
		models.NewTextBlock("Charged under Section 302 IPC for ~murder~", "The *mens rea* requirement is satisfied", "Conviction recorded"),
	}

	fr := v.Validate(formatted, Context{Input: murderInput})
	ur := v.Validate(unformatted, Context{Input: murderInput})

	assert.Less(t, ur.Scores.Formatting, fr.Scores.Formatting)
}

func TestValidate_RelevancePenalties(t *testing.T) {
	v := New()

	offTopic := &models.SlideDeck{
		Title:       "Maritime Arbitration",
		TotalSlides: 3,
		Slides: []models.Slide{
			{Title: "Shipping lanes", Blocks: []models.Block{models.NewTextBlock("cargo", "vessel")}},
			{Title: "Charter party", Blocks: []models.Block{models.NewTextBlock("demurrage", "laytime")}},
			{Title: "Award", Blocks: []models.Block{models.NewTextBlock("tribunal", "seat")}},
		},
	}

	report := v.Validate(offTopic, Context{Input: murderInput})
	// 20 for low overlap, 15+15+5 for missing overview/facts/issues slides.
	assert.Equal(t, 45, report.Scores.Relevance)
}

func TestValidate_DesiredCountMismatchIsWarningOnly(t *testing.T) {
	v := New()
	report := v.Validate(goodDeck(), Context{Input: murderInput, DesiredSlideCount: 7})

	assert.Zero(t, report.ErrorCount())
	found := false
	for _, is := range report.Issues {
		if is.Type == models.IssueRelevance && is.Severity == models.SeverityWarning {
			found = true
		}
	}
	assert.True(t, found, "expected a slide-count warning")
}

func TestValidate_Metrics(t *testing.T) {
	v := New()
	report := v.Validate(goodDeck(), Context{Input: murderInput})

	assert.InDelta(t, 1.0, report.Metrics.AvgBlocksPerSlide, 0.01)
	assert.Greater(t, report.Metrics.AvgPointsPerBlock, 1.9)
	assert.Greater(t, report.Metrics.LegalTermDensity, 0.0)
	assert.Greater(t, report.Metrics.FormattingCompliance, 0.9)
}

func TestValidate_CitationCountedOnce(t *testing.T) {
	v := New()
	deck := &models.SlideDeck{
		Title:       "Privacy Challenge",
		TotalSlides: 3,
		Slides: []models.Slide{
			{Title: "Case Overview", Blocks: []models.Block{models.NewTextBlock("Writ petition on informational privacy", "State surveillance scheme impugned")}},
			{Title: "Precedents", Blocks: []models.Block{models.NewQuoteBlock("Privacy is intrinsic to life and liberty", "(2017) 10 SCC 1")}},
			{Title: "Issues", Blocks: []models.Block{models.NewTextBlock("Whether the scheme is proportionate", "Whether consent is meaningful")}},
		},
	}

	// A quote block's citation is one citation, not two.
	report := v.Validate(deck, Context{Input: murderInput})
	assert.Equal(t, 1, report.Metrics.CitationCount)

	// A reporter reference outside any quote block counts on its own.
	deck.Slides[0].Blocks = []models.Block{models.NewTextBlock("Relies on Maneka Gandhi, (1978) 1 SCC 248", "State surveillance scheme impugned")}
	report = v.Validate(deck, Context{Input: murderInput})
	assert.Equal(t, 2, report.Metrics.CitationCount)
}

func TestValidate_TemplateSlideConstraints(t *testing.T) {
	v := New()
	reg := templates.NewRegistry()
	tpl, err := reg.Get(models.TemplateCriminalProsecution)
	require.NoError(t, err)

	deck := &models.SlideDeck{
		Title:       "State v. Accused",
		TotalSlides: 5,
		Slides: []models.Slide{
			{Title: "Case Overview", Blocks: []models.Block{models.NewTextBlock("one", "two", "three", "four", "five")}},
			{Title: "Charges and Offences", Blocks: []models.Block{models.NewTextBlock("Charged with theft", "Tried before the sessions court")}},
			{Title: "Chronology", Blocks: []models.Block{models.NewTextBlock("First the quarrel", "Then the incident")}},
			{Title: "Evidence", Blocks: []models.Block{models.NewEvidenceBlock(models.EvidenceItem{Label: "Exhibit A", Description: "Recovered knife"})}},
			{Title: "Arguments", Blocks: []models.Block{models.NewTwoColumnBlock("Prosecution", []string{"Motive established"}, "Defence", []string{"Alibi raised"})}},
		},
	}

	withTpl := v.Validate(deck, Context{Input: murderInput, Template: tpl})
	without := v.Validate(deck, Context{Input: murderInput})

	// The Chronology slide carries a text block where the template wants a
	// timeline; that is the only scoring constraint violation.
	assert.Equal(t, without.Scores.Relevance-5, withTpl.Scores.Relevance)
	assert.True(t, hasIssueContaining(withTpl, models.SeverityWarning, "Chronology"))

	// Charges need a citation or statutory reference; the point budget on
	// the overview is advisory.
	assert.True(t, hasIssueContaining(withTpl, models.SeverityInfo, "Charges and Offences"))
	assert.True(t, hasIssueContaining(withTpl, models.SeverityInfo, "at most 4"))

	// Satisfying the constraints clears the issues.
	deck.Slides[2].Blocks = []models.Block{models.NewTimelineBlock(
		models.TimelineEvent{Date: "12 Jan", Title: "The quarrel"},
		models.TimelineEvent{Date: "14 Jan", Title: "The incident"},
	)}
	deck.Slides[1].Blocks = []models.Block{models.NewTextBlock("Charged under _Section 379 IPC_", "Tried before the sessions court")}
	fixed := v.Validate(deck, Context{Input: murderInput, Template: tpl})
	assert.False(t, hasIssueContaining(fixed, models.SeverityWarning, "Chronology"))
	assert.False(t, hasIssueContaining(fixed, models.SeverityInfo, "Charges and Offences"))
}

func hasIssueContaining(report *models.ValidationReport, severity models.IssueSeverity, substr string) bool {
	for _, issue := range report.Issues {
		if issue.Severity == severity && strings.Contains(issue.Message, substr) {
			return true
		}
	}
	return false
}
