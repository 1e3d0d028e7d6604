package validator

import (
	"regexp"
	"strconv"
	"strings"
)

// Closed vocabularies for legal-term detection. Doctrines belong in gold
// spans, violations and offences in red, statutory provisions in blue.
var doctrineTerms = []string{
	"ratio decidendi",
	"obiter dicta",
	"basic structure",
	"due process",
	"natural justice",
	"res judicata",
	"audi alteram partem",
	"nemo judex in causa sua",
	"mens rea",
	"actus reus",
	"habeas corpus",
	"ultra vires",
	"stare decisis",
	"locus standi",
	"doctrine of severability",
	"doctrine of eclipse",
	"rule of law",
	"separation of powers",
	"judicial review",
	"burden of proof",
}

var violationTerms = []string{
	"murder",
	"culpable homicide",
	"rape",
	"theft",
	"robbery",
	"dacoity",
	"cheating",
	"criminal breach of trust",
	"breach of contract",
	"violation",
	"infringement",
	"contravention",
	"unconstitutional",
	"negligence",
	"defamation",
	"fraud",
	"abetment",
	"criminal conspiracy",
}

// Bounds for sanity-checking references. The Constitution of India runs to
// Article 395; the IPC to Section 511.
const (
	maxArticleNumber    = 395
	maxIPCSectionNumber = 511
)

var (
	articleRefRe = regexp.MustCompile(`(?i)article\s+(\d+)[A-Z]?`)
	sectionRefRe = regexp.MustCompile(`(?i)section\s+(\d+)[A-Z]?(\s+(?:of\s+(?:the\s+)?)?(?:ipc|crpc|cpc|bns))?`)

	caseCitationRe   = regexp.MustCompile(`[A-Z][\w.'-]*(?:\s+[\w.'-]+)*\s+v(?:s)?\.?\s+[A-Z][\w.'-]*(?:\s+[\w.'-]+)*`)
	citationYearRe   = regexp.MustCompile(`\(\d{4}\)`)
	reporterRefRe    = regexp.MustCompile(`\(\d{4}\)\s*\d*\s*(?:SCC|AIR|SCR|SCALE)`)
	provisionSpanRe  = regexp.MustCompile(`(?i)^(article|section)\s+\d+`)
	ipcSectionHintRe = regexp.MustCompile(`(?i)\bipc\b`)
)

// containsTerm reports whether lowered contains any of the given terms.
func containsTerm(lowered string, terms []string) (string, bool) {
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			return t, true
		}
	}
	return "", false
}

// countTerms counts occurrences of any listed term in lowered.
func countTerms(lowered string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(lowered, t)
	}
	return n
}

// articleNumber parses the numeric part of an article reference match.
func articleNumber(match []string) int {
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return -1
	}
	return n
}
