// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// CaseType classifies the legal scenario detected in a case description.
type CaseType string

const (
	CaseTypeConstitutional CaseType = "constitutional"
	CaseTypeCriminal       CaseType = "criminal"
	CaseTypeCivil          CaseType = "civil"
	CaseTypeProcedural     CaseType = "procedural"
	CaseTypeGeneral        CaseType = "general"
)

// TemplateType identifies a presentation template.
type TemplateType string

const (
	TemplateConstitutionalChallenge TemplateType = "constitutional_challenge"
	TemplateCriminalProsecution     TemplateType = "criminal_prosecution"
	TemplateCivilDispute            TemplateType = "civil_dispute"
	TemplateMootCourt               TemplateType = "moot_court"
	TemplateCaseBrief               TemplateType = "case_brief"
)

// Input bounds for a case description, in code points after trimming.
const (
	MinInputLength = 50
	MaxInputLength = 3000
)

// Slide count bounds for a generated deck.
const (
	MinSlideCount = 3
	MaxSlideCount = 8
)

// CaseElements records which structural elements were detected in the input.
type CaseElements struct {
	HasFacts       bool `json:"has_facts"`
	HasLegalIssues bool `json:"has_legal_issues"`
	HasStatutes    bool `json:"has_statutes"`
	HasArguments   bool `json:"has_arguments"`
	HasEvidence    bool `json:"has_evidence"`
	HasCitations   bool `json:"has_citations"`
}

// DetectedEntities holds legal references parsed from the input text.
type DetectedEntities struct {
	Articles []string `json:"articles"`
	Sections []string `json:"sections"`
	Cases    []string `json:"cases"`
}

// CaseProfile is the analyzer's assessment of a case description.
type CaseProfile struct {
	CaseType            CaseType         `json:"case_type"`
	Elements            CaseElements     `json:"elements"`
	Completeness        int              `json:"completeness"`
	EstimatedSlideCount int              `json:"estimated_slide_count"`
	Suggestions         []string         `json:"suggestions"`
	DetectedEntities    DetectedEntities `json:"detected_entities"`
}

// Slide is a single slide in a deck.
type Slide struct {
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle,omitempty"`
	SuggestedImages []string   `json:"suggested_images,omitempty"`
	Blocks          []Block    `json:"blocks"`
	Modified        bool       `json:"_modified,omitempty"`
	ModifiedAt      *time.Time `json:"_modified_at,omitempty"`
}

// SlideDeck is a complete generated presentation plus its pipeline metadata.
type SlideDeck struct {
	Title               string            `json:"title"`
	TotalSlides         int               `json:"total_slides"`
	Slides              []Slide           `json:"slides"`
	GeneratedAt         time.Time         `json:"generated_at"`
	InputLength         int               `json:"input_length"`
	GenerationTimeMs    int64             `json:"generation_time_ms"`
	FromCache           bool              `json:"from_cache"`
	RequestedSlideCount int               `json:"requested_slide_count,omitempty"`
	Template            TemplateType      `json:"template,omitempty"`
	Validation          *ValidationReport `json:"validation,omitempty"`
	RefinementHistory   []RefinementEntry `json:"refinement_history,omitempty"`
}

// RefinementEntry records one refinement applied to a deck.
type RefinementEntry struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Instructions    string    `json:"instructions"`
	TargetSlides    []int     `json:"target_slides"`
	PreservedSlides []int     `json:"preserved_slides"`
	DurationMs      int64     `json:"duration_ms"`
}

// IssueSeverity grades a validation issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
)

// IssueType categorizes a validation issue.
type IssueType string

const (
	IssueStructure  IssueType = "structure"
	IssueLegal      IssueType = "legal"
	IssueFormatting IssueType = "formatting"
	IssueRelevance  IssueType = "relevance"
	IssueCitation   IssueType = "citation"
	IssueSystem     IssueType = "system"
)

// ValidationIssue is a single finding from the quality validator.
type ValidationIssue struct {
	Severity   IssueSeverity `json:"severity"`
	Type       IssueType     `json:"type"`
	Message    string        `json:"message"`
	SlideIndex *int          `json:"slide_index,omitempty"`
	BlockIndex *int          `json:"block_index,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// AxisScores holds the four validator sub-scores, each 0-100.
type AxisScores struct {
	Structure     int `json:"structure"`
	LegalAccuracy int `json:"legal_accuracy"`
	Formatting    int `json:"formatting"`
	Relevance     int `json:"relevance"`
}

// ValidationMetrics carries descriptive statistics about a deck.
type ValidationMetrics struct {
	AvgBlocksPerSlide    float64 `json:"avg_blocks_per_slide"`
	AvgPointsPerBlock    float64 `json:"avg_points_per_block"`
	CitationCount        int     `json:"citation_count"`
	LegalTermDensity     float64 `json:"legal_term_density"`
	FormattingCompliance float64 `json:"formatting_compliance"`
}

// ValidationReport is the quality validator's verdict on a deck.
type ValidationReport struct {
	OverallScore int               `json:"overall_score"`
	Scores       AxisScores        `json:"scores"`
	Issues       []ValidationIssue `json:"issues"`
	Metrics      ValidationMetrics `json:"metrics"`
	Valid        bool              `json:"valid"`
}

// ErrorCount returns the number of error-severity issues.
func (r *ValidationReport) ErrorCount() int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			n++
		}
	}
	return n
}

// CacheRecord is the persisted form of a cached deck.
type CacheRecord struct {
	Fingerprint uint32    `json:"fingerprint"`
	Data        SlideDeck `json:"data"`
	Timestamp   int64     `json:"timestamp"` // epoch milliseconds
	InputLength int       `json:"input_length"`
}

// Clone returns a deep copy of the deck. Decks handed out by the cache and
// refinement inputs must never alias the stored slides.
func (d *SlideDeck) Clone() *SlideDeck {
	out := *d
	out.Slides = make([]Slide, len(d.Slides))
	for i := range d.Slides {
		out.Slides[i] = d.Slides[i].Clone()
	}
	if d.Validation != nil {
		v := *d.Validation
		v.Issues = append([]ValidationIssue(nil), d.Validation.Issues...)
		out.Validation = &v
	}
	if d.RefinementHistory != nil {
		out.RefinementHistory = make([]RefinementEntry, len(d.RefinementHistory))
		for i, e := range d.RefinementHistory {
			e.TargetSlides = append([]int(nil), e.TargetSlides...)
			e.PreservedSlides = append([]int(nil), e.PreservedSlides...)
			out.RefinementHistory[i] = e
		}
	}
	return &out
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	out.SuggestedImages = append([]string(nil), s.SuggestedImages...)
	out.Blocks = make([]Block, len(s.Blocks))
	for i := range s.Blocks {
		out.Blocks[i] = s.Blocks[i].Clone()
	}
	if s.ModifiedAt != nil {
		t := *s.ModifiedAt
		out.ModifiedAt = &t
	}
	return out
}

// Clock abstracts wall-clock time so the cache, the budget counter, and
// pipeline metadata can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
