// Package analyzer derives a CaseProfile from a raw case description. It is
// pure string work: no I/O, deterministic for a given input.
package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/casedeck/casedeck/internal/models"
)

var caseTypeKeywords = map[models.CaseType][]string{
	models.CaseTypeConstitutional: {
		"article", "constitution", "constitutional", "fundamental right",
		"writ", "petition", "amendment", "basic structure", "judicial review",
		"directive principle", "puttaswamy", "kesavananda",
	},
	models.CaseTypeCriminal: {
		"ipc", "murder", "theft", "accused", "prosecution", "charge",
		"offence", "criminal", "bail", "fir", "cognizable", "convict",
		"sentence", "crpc", "police", "investigation", "bns",
	},
	models.CaseTypeCivil: {
		"contract", "damages", "breach", "property", "tort", "suit",
		"plaintiff", "defendant", "compensation", "injunction", "specific performance",
		"negligence", "liability", "agreement",
	},
	models.CaseTypeProcedural: {
		"jurisdiction", "limitation", "appeal", "revision", "procedure",
		"cpc", "maintainability", "res judicata", "stay", "interim",
	},
}

var elementPatterns = map[string]*regexp.Regexp{
	"facts":     regexp.MustCompile(`(?i)\b(facts?|incident|occurred|happened|events?|background|on\s+\d{1,2})\b`),
	"issues":    regexp.MustCompile(`(?i)\b(issues?|questions?\s+of\s+law|whether|dispute|contention)\b`),
	"statutes":  regexp.MustCompile(`(?i)(article\s+\d+|section\s+\d+|\b(ipc|crpc|cpc|bns|act)\b|statute|provision)`),
	"arguments": regexp.MustCompile(`(?i)\b(argu(?:e|ed|ment)s?|submit(?:ted|s)?|contend(?:ed|s)?|plea(?:ded)?|assert(?:ed|s)?)\b`),
	"evidence":  regexp.MustCompile(`(?i)\b(evidence|witness(?:es)?|exhibit|testimony|cctv|footage|document(?:s|ary)?|forensic|record)\b`),
}

// Citation detection accepts formal reports ("X v. Y, (2017) 10 SCC 1") as
// well as informal references ("the Puttaswamy case").
var (
	formalCitationRe   = regexp.MustCompile(`[A-Z][\w.'-]*(?:\s+[\w.'-]+)*\s+v(?:s)?\.?\s+[A-Z][\w.'-]*(?:\s+[\w.'-]+)*`)
	reportedCitationRe = regexp.MustCompile(`\((\d{4})\)\s*\d*\s*(SCC|AIR|SCR|SCALE)`)
	informalCitationRe = regexp.MustCompile(`(?i)\b(case\s+of|landmark\s+(?:case|judgment)|judgment\s+in|held\s+in)\b`)

	articleRe = regexp.MustCompile(`(?i)article\s+(\d+[A-Z]?)`)
	sectionRe = regexp.MustCompile(`(?i)section\s+(\d+[A-Z]?)(?:\s+(?:of\s+(?:the\s+)?)?(ipc|crpc|cpc|bns))?`)
	caseRefRe = regexp.MustCompile(`[A-Z][\w.'-]*(?:\s+[\w.'-]+)*\s+v(?:s)?\.?\s+[A-Z][\w.'-]*(?:\s+[\w.'-]+)*(?:,?\s*\((\d{4})\))?`)
)

// Element weights sum to 100 and feed the completeness score.
var elementWeights = map[string]int{
	"facts":     20,
	"issues":    20,
	"statutes":  15,
	"arguments": 15,
	"evidence":  15,
	"citations": 15,
}

// Analyze computes a CaseProfile for the given case description. It never
// fails; a profile is returned for any input.
func Analyze(text string) models.CaseProfile {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	profile := models.CaseProfile{
		CaseType:         detectCaseType(lower),
		DetectedEntities: detectEntities(trimmed),
	}

	profile.Elements = models.CaseElements{
		HasFacts:       elementPatterns["facts"].MatchString(trimmed),
		HasLegalIssues: elementPatterns["issues"].MatchString(trimmed),
		HasStatutes:    elementPatterns["statutes"].MatchString(trimmed),
		HasArguments:   elementPatterns["arguments"].MatchString(trimmed),
		HasEvidence:    elementPatterns["evidence"].MatchString(trimmed),
		HasCitations:   hasCitations(trimmed),
	}

	profile.Completeness = completenessScore(profile.Elements, len([]rune(trimmed)))
	profile.EstimatedSlideCount = estimateSlideCount(profile.Completeness)
	profile.Suggestions = buildSuggestions(profile.Elements, profile.CaseType)

	return profile
}

func detectCaseType(lower string) models.CaseType {
	best := models.CaseTypeGeneral
	bestScore := 0
	// Iterate in a fixed order so ties resolve deterministically.
	ordered := []models.CaseType{
		models.CaseTypeConstitutional,
		models.CaseTypeCriminal,
		models.CaseTypeCivil,
		models.CaseTypeProcedural,
	}
	for _, ct := range ordered {
		score := 0
		for _, kw := range caseTypeKeywords[ct] {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			bestScore = score
			best = ct
		}
	}
	return best
}

func hasCitations(text string) bool {
	return reportedCitationRe.MatchString(text) ||
		formalCitationRe.MatchString(text) ||
		informalCitationRe.MatchString(text)
}

func detectEntities(text string) models.DetectedEntities {
	ents := models.DetectedEntities{
		Articles: []string{},
		Sections: []string{},
		Cases:    []string{},
	}

	seen := map[string]bool{}
	for _, m := range articleRe.FindAllStringSubmatch(text, -1) {
		ref := "Article " + strings.ToUpper(m[1])
		if !seen[ref] {
			seen[ref] = true
			ents.Articles = append(ents.Articles, ref)
		}
	}
	for _, m := range sectionRe.FindAllStringSubmatch(text, -1) {
		ref := "Section " + strings.ToUpper(m[1])
		if m[2] != "" {
			ref += " " + strings.ToUpper(m[2])
		}
		if !seen[ref] {
			seen[ref] = true
			ents.Sections = append(ents.Sections, ref)
		}
	}
	for _, m := range caseRefRe.FindAllString(text, -1) {
		ref := strings.TrimSpace(m)
		if !seen[ref] {
			seen[ref] = true
			ents.Cases = append(ents.Cases, ref)
		}
	}
	return ents
}

func completenessScore(elems models.CaseElements, length int) int {
	score := 0
	present := map[string]bool{
		"facts":     elems.HasFacts,
		"issues":    elems.HasLegalIssues,
		"statutes":  elems.HasStatutes,
		"arguments": elems.HasArguments,
		"evidence":  elems.HasEvidence,
		"citations": elems.HasCitations,
	}
	for name, ok := range present {
		if ok {
			score += elementWeights[name]
		}
	}

	// Short inputs lose up to 20 points below 200 characters.
	if length < 200 {
		deficit := 200 - length
		penalty := deficit * 20 / 150
		if penalty > 20 {
			penalty = 20
		}
		score -= penalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func estimateSlideCount(completeness int) int {
	var n int
	switch {
	case completeness < 40:
		n = 3
	case completeness < 70:
		// 40-54 -> 4, 55-69 -> 5
		n = 4
		if completeness >= 55 {
			n = 5
		}
	case completeness < 90:
		// 70-76 -> 5, 77-83 -> 6, 84-89 -> 7
		n = 5 + (completeness-70)/7
	default:
		// 90-94 -> 6, 95-99 -> 7, 100 -> 8
		n = 6 + (completeness-90)/5
	}
	if n < models.MinSlideCount {
		n = models.MinSlideCount
	}
	if n > models.MaxSlideCount {
		n = models.MaxSlideCount
	}
	return n
}

func buildSuggestions(elems models.CaseElements, ct models.CaseType) []string {
	var out []string
	if !elems.HasFacts {
		out = append(out, "Add a brief chronology of the key facts")
	}
	if !elems.HasLegalIssues {
		out = append(out, "State the questions of law the court must decide")
	}
	if !elems.HasStatutes {
		switch ct {
		case models.CaseTypeCriminal:
			out = append(out, "Add specific IPC sections")
		case models.CaseTypeConstitutional:
			out = append(out, "Cite the constitutional articles at issue")
		default:
			out = append(out, "Reference the statutory provisions involved")
		}
	}
	if !elems.HasArguments {
		out = append(out, "Summarize the arguments advanced by each side")
	}
	if !elems.HasEvidence {
		out = append(out, "Describe the evidence on record")
	}
	if !elems.HasCitations {
		out = append(out, "Include at least one landmark citation")
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// FormatCitation renders a detected case reference in the conventional
// "Parties, (Year) Reporter" style, leaving already well-formed strings alone.
func FormatCitation(name string, year int, reporter string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " vs. ", " v. ")
	name = strings.ReplaceAll(name, " vs ", " v. ")
	if year == 0 {
		return name
	}
	if reporter == "" {
		return fmt.Sprintf("%s, (%d)", name, year)
	}
	return fmt.Sprintf("%s, (%d) %s", name, year, reporter)
}

// ElementNames returns the canonical element flag names in stable order.
// Used by the validator's metrics and by tests.
func ElementNames() []string {
	names := make([]string, 0, len(elementWeights))
	for n := range elementWeights {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
