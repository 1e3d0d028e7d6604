package generator

import (
	"fmt"
	"strings"

	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/templates"
)

// baseSystemPrompt is the fixed legal-architect directive: content thinking
// order, mandatory flow, structural limits, color coding, citation standards,
// allowed blocks, and image-suggestion rules.
const baseSystemPrompt = `You are a senior advocate's presentation architect building courtroom slide decks for Indian law students and junior advocates.

Think before you write, in this order: what happened (facts), what is disputed (issues), what law governs (provisions), how each side argues (arguments), what the evidence shows, what the court should conclude.

Deck flow: open with a case overview, then facts or chronology, then issues, then provisions and precedent, then arguments and evidence, and close with the conclusion or prayer.

Structural limits:
- 3 to 8 slides. Each slide has a plain-text title (no markdown markers) and 1 or 2 content blocks.
- Allowed block types: text (2-4 bullet points), quote (quote plus citation, both required), callout (text plus one of info/warning/success/error), timeline (2-8 dated events), evidence (1-6 labeled items), twoColumn (two titled lists of 1-5 points each).
- Each block is serialized as {"type": ..., "data": ...} with the payload in data.

Color coding (semantic, mandatory):
- Doctrines and maxims in gold: *basic structure*, *mens rea*, *ratio decidendi*.
- Offences and violations in red: ~murder~, ~breach of contract~, ~violation of Article 14~.
- Statutory provisions in blue: _Article 21_, _Section 302 IPC_. Every article or section you mention must be wrapped this way.

Citation standards: cite Indian cases in full form: Parties, (Year) Volume Reporter Page, e.g. K.S. Puttaswamy v. Union of India, (2017) 10 SCC 1. Never invent citations; omit what you cannot cite.

Suggested images: at most two short stock-photo keywords per slide ("courtroom gavel", "balance scales"), in suggested_images.`

// retryAddendum tightens the directive for the single in-pipeline
// regeneration after a low validation score.
const retryAddendum = `

STRICT MODE: the previous attempt failed quality review. Follow the color-coding rules on every doctrine, offence, and provision without exception, verify every article and section number against the bare act, use full citations with years, and keep every text block to 2-4 points.`

// systemPrompt assembles the full system prompt for one generation attempt.
func systemPrompt(tpl *templates.Template, retry bool) string {
	var sb strings.Builder
	sb.WriteString(baseSystemPrompt)
	if tpl != nil {
		sb.WriteString("\n\nTemplate: ")
		sb.WriteString(tpl.Name)
		sb.WriteString(". Mandatory slides in order: ")
		sb.WriteString(strings.Join(tpl.MandatorySlides, ", "))
		sb.WriteString(".\n")
		sb.WriteString(tpl.PromptAddendum)
	}
	if retry {
		sb.WriteString(retryAddendum)
	}
	return sb.String()
}

// userPrompt assembles the user message for a generation request.
func userPrompt(caseText string, desired int, tpl *templates.Template) string {
	var sb strings.Builder
	sb.WriteString("Case description:\n\n")
	sb.WriteString(caseText)
	sb.WriteString("\n\n")
	if desired > 0 {
		fmt.Fprintf(&sb, "Generate EXACTLY %d slides.\n", desired)
	} else if tpl != nil && tpl.SuggestedSlideCount > 0 {
		fmt.Fprintf(&sb, "Around %d slides usually suits this template.\n", tpl.SuggestedSlideCount)
	}
	sb.WriteString("Follow the citation standards throughout.")
	return sb.String()
}

// refinePrompt assembles the user message for a refinement request. The
// existing deck is inventoried slide by slide, tagged [PRESERVE] or [TARGET];
// the model must return the full deck with only target slides changed.
func refinePrompt(deck *models.SlideDeck, instructions string, preserved, targets map[int]bool) string {
	var sb strings.Builder
	sb.WriteString("Refine the following deck. Return the FULL deck with the same number of slides.\n")
	sb.WriteString("Slides tagged [PRESERVE] must come back byte-for-byte unchanged; apply the instructions only to [TARGET] slides.\n\n")
	fmt.Fprintf(&sb, "Instructions: %s\n\nCurrent deck (%d slides):\n", instructions, len(deck.Slides))

	for i, s := range deck.Slides {
		tag := "[TARGET]"
		if preserved[i] {
			tag = "[PRESERVE]"
		} else if !targets[i] {
			tag = "[PRESERVE]"
		}
		fmt.Fprintf(&sb, "\nSlide %d %s: %s\n", i+1, tag, s.Title)
		if s.Subtitle != "" {
			fmt.Fprintf(&sb, "  Subtitle: %s\n", s.Subtitle)
		}
		for _, b := range s.Blocks {
			fmt.Fprintf(&sb, "  [%s] %s\n", b.Type, b.PlainText())
		}
	}
	return sb.String()
}
