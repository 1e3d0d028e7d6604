package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/templates"
)

// Axis weights of the overall score.
const (
	weightStructure  = 25
	weightLegal      = 30
	weightFormatting = 20
	weightRelevance  = 25
)

// ValidThreshold is the overall score a deck must reach (with zero
// error-severity issues) to count as valid.
const ValidThreshold = 60

// Context carries the request-side information a deck is judged against.
type Context struct {
	Input             string
	DesiredSlideCount int
	Template          *templates.Template
}

// Validator scores decks. It is stateless and safe for concurrent use.
type Validator struct{}

// New creates a Validator.
func New() *Validator { return &Validator{} }

// Validate scores the deck on four weighted axes and returns the report.
// It never fails; malformed decks simply score low.
func (v *Validator) Validate(deck *models.SlideDeck, vc Context) *models.ValidationReport {
	report := &models.ValidationReport{Issues: []models.ValidationIssue{}}

	deckText := collectDeckText(deck)
	spans := ParseSpans(deckText)

	report.Scores.Structure = v.scoreStructure(deck, report)
	report.Scores.LegalAccuracy = v.scoreLegal(deckText, spans, report)
	report.Scores.Formatting = v.scoreFormatting(deckText, spans, report)
	report.Scores.Relevance = v.scoreRelevance(deck, deckText, vc, report)

	report.OverallScore = int(math.Round(float64(
		report.Scores.Structure*weightStructure+
			report.Scores.LegalAccuracy*weightLegal+
			report.Scores.Formatting*weightFormatting+
			report.Scores.Relevance*weightRelevance) / 100.0))

	report.Metrics = v.metrics(deck, deckText, spans)
	report.Valid = report.OverallScore >= ValidThreshold && report.ErrorCount() == 0

	return report
}

func (v *Validator) scoreStructure(deck *models.SlideDeck, report *models.ValidationReport) int {
	score := 100

	n := len(deck.Slides)
	if n < models.MinSlideCount {
		score -= 30
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityError,
			Type:       models.IssueStructure,
			Message:    fmt.Sprintf("deck has %d slides, minimum is %d", n, models.MinSlideCount),
			Suggestion: "Regenerate with more material or a lower requested count",
		})
	}
	if n > models.MaxSlideCount {
		score -= 15
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityWarning,
			Type:       models.IssueStructure,
			Message:    fmt.Sprintf("deck has %d slides, maximum is %d", n, models.MaxSlideCount),
			Suggestion: "Trim the deck to its strongest slides",
		})
	}

	for i := range deck.Slides {
		slide := &deck.Slides[i]
		idx := i

		if strings.TrimSpace(slide.Title) == "" {
			score -= 10
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityError,
				Type:       models.IssueStructure,
				Message:    "slide has no title",
				SlideIndex: &idx,
				Suggestion: "Give every slide a short, descriptive title",
			})
		} else if HasMarkup(slide.Title) {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Type:       models.IssueFormatting,
				Message:    "slide title contains markdown markers",
				SlideIndex: &idx,
				Suggestion: "Keep titles plain; color-coding belongs in block content",
			})
		}

		switch nb := len(slide.Blocks); {
		case nb == 0:
			score -= 15
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityError,
				Type:       models.IssueStructure,
				Message:    "slide has no content blocks",
				SlideIndex: &idx,
				Suggestion: "Every slide needs at least one block",
			})
		case nb > 2:
			score -= 10
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Type:       models.IssueStructure,
				Message:    fmt.Sprintf("slide has %d blocks, expected at most 2", nb),
				SlideIndex: &idx,
				Suggestion: "Split dense slides instead of stacking blocks",
			})
		}

		for b := range slide.Blocks {
			block := slide.Blocks[b]
			bi := b
			if block.Type == models.BlockText && block.Text != nil {
				if p := len(block.Text.Points); p < 2 || p > 4 {
					score -= 5
					report.Issues = append(report.Issues, models.ValidationIssue{
						Severity:   models.SeverityWarning,
						Type:       models.IssueStructure,
						Message:    fmt.Sprintf("text block has %d points, expected 2-4", p),
						SlideIndex: &idx,
						BlockIndex: &bi,
						Suggestion: "Aim for two to four bullet points per text block",
					})
				}
			}
			if err := block.Validate(); err != nil {
				score -= 10
				report.Issues = append(report.Issues, models.ValidationIssue{
					Severity:   models.SeverityError,
					Type:       models.IssueStructure,
					Message:    err.Error(),
					SlideIndex: &idx,
					BlockIndex: &bi,
					Suggestion: "Regenerate the slide with a well-formed block",
				})
			}
		}
	}

	return clampScore(score)
}

func (v *Validator) scoreLegal(deckText string, spans []Span, report *models.ValidationReport) int {
	score := 100
	lowered := strings.ToLower(deckText)

	// Out-of-range statutory references are hard errors.
	for _, m := range articleRefRe.FindAllStringSubmatch(deckText, -1) {
		if n := articleNumber(m); n < 1 || n > maxArticleNumber {
			score -= 20
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityError,
				Type:       models.IssueLegal,
				Message:    fmt.Sprintf("Article %d does not exist in the Constitution of India", n),
				Suggestion: "Check the article number against the bare act",
			})
		}
	}
	for _, m := range sectionRefRe.FindAllStringSubmatch(deckText, -1) {
		n := articleNumber(m)
		isIPC := ipcSectionHintRe.MatchString(m[0])
		if n < 1 || (isIPC && n > maxIPCSectionNumber) {
			score -= 20
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityError,
				Type:       models.IssueLegal,
				Message:    fmt.Sprintf("Section %d is outside the statute's range", n),
				Suggestion: "Check the section number against the bare act",
			})
		}
	}

	// Doctrines and violations carried in the wrong color read as sloppy
	// legal drafting.
	for _, sp := range spans {
		spLower := strings.ToLower(sp.Text)
		if term, ok := containsTerm(spLower, doctrineTerms); ok && sp.Kind != SpanGold {
			score -= 5
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Type:       models.IssueLegal,
				Message:    fmt.Sprintf("doctrine %q is not in gold formatting", term),
				Suggestion: "Wrap doctrines in *…*",
			})
		}
		if term, ok := containsTerm(spLower, violationTerms); ok && sp.Kind == SpanBlue {
			score -= 5
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Type:       models.IssueLegal,
				Message:    fmt.Sprintf("offence %q is formatted as a provision", term),
				Suggestion: "Wrap offences and violations in ~…~",
			})
		}
	}

	// Citations without years are informational only.
	for _, c := range caseCitationRe.FindAllString(deckText, -1) {
		if !citationYearRe.MatchString(c) && !citationYearRe.MatchString(deckText) {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityInfo,
				Type:       models.IssueCitation,
				Message:    fmt.Sprintf("citation %q has no year", strings.TrimSpace(c)),
				Suggestion: "Prefer the full form: Parties, (Year) Reporter",
			})
		}
	}

	// A deck with no legal vocabulary at all is suspect for this domain.
	if countTerms(lowered, doctrineTerms)+countTerms(lowered, violationTerms) == 0 &&
		!articleRefRe.MatchString(deckText) && !sectionRefRe.MatchString(deckText) {
		score -= 10
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityInfo,
			Type:       models.IssueLegal,
			Message:    "no legal terminology detected in the deck",
			Suggestion: "Ground the slides in provisions, doctrines, or precedent",
		})
	}

	return clampScore(score)
}

func (v *Validator) scoreFormatting(deckText string, spans []Span, report *models.ValidationReport) int {
	score := 100

	// Every statutory reference must be carried in a blue span.
	totalRefs := len(articleRefRe.FindAllString(StripMarkup(deckText), -1)) +
		len(sectionRefRe.FindAllString(StripMarkup(deckText), -1))
	blueRefs := 0
	for _, sp := range spans {
		if sp.Kind == SpanBlue && provisionSpanRe.MatchString(sp.Text) {
			blueRefs += len(articleRefRe.FindAllString(sp.Text, -1)) +
				len(sectionRefRe.FindAllString(sp.Text, -1))
		}
	}
	if unformatted := totalRefs - blueRefs; unformatted > 0 {
		score -= 5 * unformatted
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityWarning,
			Type:       models.IssueFormatting,
			Message:    fmt.Sprintf("%d statutory references are not in blue formatting", unformatted),
			Suggestion: "Wrap article and section references in _…_",
		})
	}

	// Classify each span as correct or questionable for its color.
	for _, sp := range spans {
		if !spanMatchesKind(sp) {
			score -= 2
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityInfo,
				Type:       models.IssueFormatting,
				Message:    fmt.Sprintf("span %q does not look like %s content", sp.Text, sp.Kind),
				Suggestion: "Gold for doctrines, red for violations, blue for provisions",
			})
		}
	}

	return clampScore(score)
}

func (v *Validator) scoreRelevance(deck *models.SlideDeck, deckText string, vc Context, report *models.ValidationReport) int {
	score := 100

	overlap := inputOverlap(vc.Input, deckText)
	if overlap < 0.3 {
		score -= 20
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityWarning,
			Type:       models.IssueRelevance,
			Message:    fmt.Sprintf("only %.0f%% of the input vocabulary appears in the deck", overlap*100),
			Suggestion: "Anchor the slides in the facts and parties of the case description",
		})
	}

	roles := []struct {
		role    string
		penalty int
	}{
		{"overview", 15},
		{"facts", 15},
		{"issues", 5},
	}
	for _, r := range roles {
		if !hasSlideWithRole(deck, r.role) {
			score -= r.penalty
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Type:       models.IssueRelevance,
				Message:    fmt.Sprintf("deck has no %q slide", r.role),
				Suggestion: fmt.Sprintf("Add a slide covering the %s", r.role),
			})
		}
	}

	if vc.Template != nil {
		for _, role := range vc.Template.MandatorySlides {
			idx := slideIndexWithRole(deck, role)
			if idx < 0 {
				report.Issues = append(report.Issues, models.ValidationIssue{
					Severity:   models.SeverityInfo,
					Type:       models.IssueRelevance,
					Message:    fmt.Sprintf("template slide %q is missing", role),
					Suggestion: "Regenerate with the template's mandatory flow",
				})
				continue
			}
			if constraint, ok := vc.Template.SlideStructure[role]; ok {
				score -= v.checkSlideConstraint(deck, idx, role, constraint, report)
			}
		}
	}

	if vc.DesiredSlideCount > 0 && len(deck.Slides) != vc.DesiredSlideCount {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityWarning,
			Type:       models.IssueRelevance,
			Message:    fmt.Sprintf("deck has %d slides, %d were requested", len(deck.Slides), vc.DesiredSlideCount),
			Suggestion: "Accepting the deck; re-run with a hard count if it matters",
		})
	}

	return clampScore(score)
}

// checkSlideConstraint holds a matched template slide to its role's block
// types, point budget, and citation requirement. Returns the deduction.
func (v *Validator) checkSlideConstraint(deck *models.SlideDeck, idx int, role string, c templates.SlideConstraint, report *models.ValidationReport) int {
	slide := &deck.Slides[idx]
	deduct := 0

	for b := range slide.Blocks {
		block := &slide.Blocks[b]
		bi := b
		if len(c.AllowedBlockTypes) > 0 && !blockTypeAllowed(block.Type, c.AllowedBlockTypes) {
			deduct += 5
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityWarning,
				Type:       models.IssueRelevance,
				Message:    fmt.Sprintf("%q slide carries a %s block, which the template does not allow there", role, block.Type),
				SlideIndex: &idx,
				BlockIndex: &bi,
				Suggestion: "Use the block types the template prescribes for this slide",
			})
		}
		if c.MaxPoints > 0 && block.Type == models.BlockText && block.Text != nil && len(block.Text.Points) > c.MaxPoints {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Severity:   models.SeverityInfo,
				Type:       models.IssueRelevance,
				Message:    fmt.Sprintf("%q slide has %d points, the template expects at most %d", role, len(block.Text.Points), c.MaxPoints),
				SlideIndex: &idx,
				BlockIndex: &bi,
				Suggestion: "Tighten the slide to the template's point budget",
			})
		}
	}

	if c.RequireCitation && !slideHasCitation(slide) {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:   models.SeverityInfo,
			Type:       models.IssueCitation,
			Message:    fmt.Sprintf("%q slide carries no citation or statutory reference", role),
			SlideIndex: &idx,
			Suggestion: "Add a quote block with its citation or a blue provision reference",
		})
	}

	return deduct
}

func blockTypeAllowed(ty models.BlockType, allowed []models.BlockType) bool {
	for _, a := range allowed {
		if ty == a {
			return true
		}
	}
	return false
}

func slideHasCitation(slide *models.Slide) bool {
	var sb strings.Builder
	for _, b := range slide.Blocks {
		if b.Type == models.BlockQuote && b.Quote != nil && b.Quote.Citation != "" {
			return true
		}
		sb.WriteString(b.PlainText())
		sb.WriteString("\n")
	}
	text := sb.String()
	return reporterRefRe.MatchString(text) ||
		articleRefRe.MatchString(text) ||
		sectionRefRe.MatchString(text)
}

func (v *Validator) metrics(deck *models.SlideDeck, deckText string, spans []Span) models.ValidationMetrics {
	m := models.ValidationMetrics{}

	totalBlocks := 0
	textBlocks := 0
	totalPoints := 0
	reporterInQuotes := 0
	for _, s := range deck.Slides {
		totalBlocks += len(s.Blocks)
		for _, b := range s.Blocks {
			if b.Type == models.BlockQuote && b.Quote != nil && b.Quote.Citation != "" {
				m.CitationCount++
				reporterInQuotes += len(reporterRefRe.FindAllString(b.Quote.Citation, -1))
			}
			if b.Type == models.BlockText && b.Text != nil {
				textBlocks++
				totalPoints += len(b.Text.Points)
			}
		}
	}
	// Reporter references already counted through a quote block's citation
	// must not be counted again from the deck text.
	if n := len(reporterRefRe.FindAllString(deckText, -1)) - reporterInQuotes; n > 0 {
		m.CitationCount += n
	}

	if len(deck.Slides) > 0 {
		m.AvgBlocksPerSlide = float64(totalBlocks) / float64(len(deck.Slides))
	}
	if textBlocks > 0 {
		m.AvgPointsPerBlock = float64(totalPoints) / float64(textBlocks)
	}

	words := strings.Fields(strings.ToLower(StripMarkup(deckText)))
	if len(words) > 0 {
		terms := countTerms(strings.ToLower(deckText), doctrineTerms) +
			countTerms(strings.ToLower(deckText), violationTerms) +
			len(articleRefRe.FindAllString(deckText, -1)) +
			len(sectionRefRe.FindAllString(deckText, -1))
		m.LegalTermDensity = float64(terms) / float64(len(words))
	}

	if len(spans) > 0 {
		correct := 0
		for _, sp := range spans {
			if spanMatchesKind(sp) {
				correct++
			}
		}
		m.FormattingCompliance = float64(correct) / float64(len(spans))
	} else {
		m.FormattingCompliance = 1.0
	}

	return m
}

func spanMatchesKind(sp Span) bool {
	lower := strings.ToLower(sp.Text)
	switch sp.Kind {
	case SpanGold:
		_, ok := containsTerm(lower, doctrineTerms)
		return ok
	case SpanRed:
		_, ok := containsTerm(lower, violationTerms)
		return ok
	case SpanBlue:
		return provisionSpanRe.MatchString(sp.Text)
	}
	return false
}

// inputOverlap returns the fraction of distinct input words (length > 3)
// that reappear anywhere in the deck text.
func inputOverlap(input, deckText string) float64 {
	deckLower := strings.ToLower(StripMarkup(deckText))
	seen := map[string]bool{}
	total := 0
	found := 0
	for _, w := range strings.Fields(strings.ToLower(input)) {
		w = strings.Trim(w, ".,;:()[]\"'!?")
		if len(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		total++
		if strings.Contains(deckLower, w) {
			found++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(found) / float64(total)
}

func hasSlideWithRole(deck *models.SlideDeck, role string) bool {
	return slideIndexWithRole(deck, role) >= 0
}

func slideIndexWithRole(deck *models.SlideDeck, role string) int {
	for i := range deck.Slides {
		if templates.ContainsRole(deck.Slides[i].Title, role) {
			return i
		}
	}
	return -1
}

func collectDeckText(deck *models.SlideDeck) string {
	var sb strings.Builder
	sb.WriteString(deck.Title)
	for _, s := range deck.Slides {
		sb.WriteString("\n")
		sb.WriteString(s.Title)
		if s.Subtitle != "" {
			sb.WriteString("\n")
			sb.WriteString(s.Subtitle)
		}
		for _, b := range s.Blocks {
			sb.WriteString("\n")
			sb.WriteString(b.PlainText())
		}
	}
	return sb.String()
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
