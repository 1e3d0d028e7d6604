package models

import (
	"encoding/json"
	"fmt"
)

// BlockType tags the content variant carried by a Block.
type BlockType string

const (
	BlockText      BlockType = "text"
	BlockQuote     BlockType = "quote"
	BlockCallout   BlockType = "callout"
	BlockTimeline  BlockType = "timeline"
	BlockEvidence  BlockType = "evidence"
	BlockTwoColumn BlockType = "twoColumn"
)

// CalloutKind styles a callout block.
type CalloutKind string

const (
	CalloutInfo    CalloutKind = "info"
	CalloutWarning CalloutKind = "warning"
	CalloutSuccess CalloutKind = "success"
	CalloutError   CalloutKind = "error"
)

// TextBlock is a short bullet list.
type TextBlock struct {
	Points []string `json:"points"`
}

// QuoteBlock is a quotation with its citation.
type QuoteBlock struct {
	Quote    string `json:"quote"`
	Citation string `json:"citation"`
}

// CalloutBlock is a highlighted note.
type CalloutBlock struct {
	Text string      `json:"text"`
	Kind CalloutKind `json:"type"`
}

// TimelineEvent is one entry on a timeline block.
type TimelineEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TimelineBlock is an ordered sequence of dated events.
type TimelineBlock struct {
	Events []TimelineEvent `json:"events"`
}

// EvidenceItem is one labeled piece of evidence.
type EvidenceItem struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// EvidenceBlock lists evidence items.
type EvidenceBlock struct {
	Items []EvidenceItem `json:"items"`
}

// TwoColumnBlock lays out two opposing point lists.
type TwoColumnBlock struct {
	LeftTitle   string   `json:"left_title"`
	LeftPoints  []string `json:"left_points"`
	RightTitle  string   `json:"right_title"`
	RightPoints []string `json:"right_points"`
}

// Block is a tagged variant: exactly one payload pointer is non-nil and it
// matches Type. The wire form is {"type": ..., "data": ...} with an opaque
// data object, because the provider's schema validator cannot express the
// nested variant shapes; payloads are re-validated after decoding.
type Block struct {
	Type      BlockType
	Text      *TextBlock
	Quote     *QuoteBlock
	Callout   *CalloutBlock
	Timeline  *TimelineBlock
	Evidence  *EvidenceBlock
	TwoColumn *TwoColumnBlock
}

// NewTextBlock builds a text block.
func NewTextBlock(points ...string) Block {
	return Block{Type: BlockText, Text: &TextBlock{Points: points}}
}

// NewQuoteBlock builds a quote block.
func NewQuoteBlock(quote, citation string) Block {
	return Block{Type: BlockQuote, Quote: &QuoteBlock{Quote: quote, Citation: citation}}
}

// NewCalloutBlock builds a callout block.
func NewCalloutBlock(text string, kind CalloutKind) Block {
	return Block{Type: BlockCallout, Callout: &CalloutBlock{Text: text, Kind: kind}}
}

// NewTimelineBlock builds a timeline block.
func NewTimelineBlock(events ...TimelineEvent) Block {
	return Block{Type: BlockTimeline, Timeline: &TimelineBlock{Events: events}}
}

// NewEvidenceBlock builds an evidence block.
func NewEvidenceBlock(items ...EvidenceItem) Block {
	return Block{Type: BlockEvidence, Evidence: &EvidenceBlock{Items: items}}
}

// NewTwoColumnBlock builds a two-column block.
func NewTwoColumnBlock(leftTitle string, leftPoints []string, rightTitle string, rightPoints []string) Block {
	return Block{Type: BlockTwoColumn, TwoColumn: &TwoColumnBlock{
		LeftTitle:   leftTitle,
		LeftPoints:  leftPoints,
		RightTitle:  rightTitle,
		RightPoints: rightPoints,
	}}
}

type blockWire struct {
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON serializes the block as {type, data}.
func (b Block) MarshalJSON() ([]byte, error) {
	var payload any
	switch b.Type {
	case BlockText:
		payload = b.Text
	case BlockQuote:
		payload = b.Quote
	case BlockCallout:
		payload = b.Callout
	case BlockTimeline:
		payload = b.Timeline
	case BlockEvidence:
		payload = b.Evidence
	case BlockTwoColumn:
		payload = b.TwoColumn
	default:
		return nil, fmt.Errorf("unknown block type: %q", b.Type)
	}
	if payload == nil {
		return nil, fmt.Errorf("block payload missing for type %q", b.Type)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockWire{Type: b.Type, Data: data})
}

// UnmarshalJSON decodes {type, data} into the matching variant.
func (b *Block) UnmarshalJSON(raw []byte) error {
	var w blockWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}
	decoded := Block{Type: w.Type}
	var err error
	switch w.Type {
	case BlockText:
		decoded.Text = &TextBlock{}
		err = json.Unmarshal(w.Data, decoded.Text)
	case BlockQuote:
		decoded.Quote = &QuoteBlock{}
		err = json.Unmarshal(w.Data, decoded.Quote)
	case BlockCallout:
		decoded.Callout = &CalloutBlock{}
		err = json.Unmarshal(w.Data, decoded.Callout)
	case BlockTimeline:
		decoded.Timeline = &TimelineBlock{}
		err = json.Unmarshal(w.Data, decoded.Timeline)
	case BlockEvidence:
		decoded.Evidence = &EvidenceBlock{}
		err = json.Unmarshal(w.Data, decoded.Evidence)
	case BlockTwoColumn:
		decoded.TwoColumn = &TwoColumnBlock{}
		err = json.Unmarshal(w.Data, decoded.TwoColumn)
	default:
		return fmt.Errorf("unknown block type: %q", w.Type)
	}
	if err != nil {
		return fmt.Errorf("invalid %s block payload: %w", w.Type, err)
	}
	*b = decoded
	return nil
}

// Validate checks the variant payload against its structural bounds.
func (b Block) Validate() error {
	switch b.Type {
	case BlockText:
		if b.Text == nil {
			return fmt.Errorf("text block has no payload")
		}
		if n := len(b.Text.Points); n < 1 || n > 6 {
			return fmt.Errorf("text block has %d points, want 1-6", n)
		}
	case BlockQuote:
		if b.Quote == nil {
			return fmt.Errorf("quote block has no payload")
		}
		if b.Quote.Quote == "" || b.Quote.Citation == "" {
			return fmt.Errorf("quote block requires a quote and a citation")
		}
	case BlockCallout:
		if b.Callout == nil {
			return fmt.Errorf("callout block has no payload")
		}
		if b.Callout.Text == "" {
			return fmt.Errorf("callout block requires text")
		}
		switch b.Callout.Kind {
		case CalloutInfo, CalloutWarning, CalloutSuccess, CalloutError:
		default:
			return fmt.Errorf("callout block has unknown kind %q", b.Callout.Kind)
		}
	case BlockTimeline:
		if b.Timeline == nil {
			return fmt.Errorf("timeline block has no payload")
		}
		if n := len(b.Timeline.Events); n < 2 || n > 8 {
			return fmt.Errorf("timeline block has %d events, want 2-8", n)
		}
		for i, ev := range b.Timeline.Events {
			if ev.Date == "" || ev.Title == "" {
				return fmt.Errorf("timeline event %d requires a date and a title", i)
			}
		}
	case BlockEvidence:
		if b.Evidence == nil {
			return fmt.Errorf("evidence block has no payload")
		}
		if n := len(b.Evidence.Items); n < 1 || n > 6 {
			return fmt.Errorf("evidence block has %d items, want 1-6", n)
		}
		for i, it := range b.Evidence.Items {
			if it.Label == "" || it.Description == "" {
				return fmt.Errorf("evidence item %d requires a label and a description", i)
			}
		}
	case BlockTwoColumn:
		if b.TwoColumn == nil {
			return fmt.Errorf("twoColumn block has no payload")
		}
		if b.TwoColumn.LeftTitle == "" || b.TwoColumn.RightTitle == "" {
			return fmt.Errorf("twoColumn block requires both column titles")
		}
		if n := len(b.TwoColumn.LeftPoints); n < 1 || n > 5 {
			return fmt.Errorf("twoColumn block has %d left points, want 1-5", n)
		}
		if n := len(b.TwoColumn.RightPoints); n < 1 || n > 5 {
			return fmt.Errorf("twoColumn block has %d right points, want 1-5", n)
		}
	default:
		return fmt.Errorf("unknown block type: %q", b.Type)
	}
	return nil
}

// PlainText returns the block's visible text for relevance and term scanning.
func (b Block) PlainText() string {
	switch b.Type {
	case BlockText:
		if b.Text == nil {
			return ""
		}
		return joinStrings(b.Text.Points)
	case BlockQuote:
		if b.Quote == nil {
			return ""
		}
		return b.Quote.Quote + " " + b.Quote.Citation
	case BlockCallout:
		if b.Callout == nil {
			return ""
		}
		return b.Callout.Text
	case BlockTimeline:
		if b.Timeline == nil {
			return ""
		}
		parts := make([]string, 0, len(b.Timeline.Events)*3)
		for _, ev := range b.Timeline.Events {
			parts = append(parts, ev.Date, ev.Title, ev.Description)
		}
		return joinStrings(parts)
	case BlockEvidence:
		if b.Evidence == nil {
			return ""
		}
		parts := make([]string, 0, len(b.Evidence.Items)*2)
		for _, it := range b.Evidence.Items {
			parts = append(parts, it.Label, it.Description)
		}
		return joinStrings(parts)
	case BlockTwoColumn:
		if b.TwoColumn == nil {
			return ""
		}
		parts := []string{b.TwoColumn.LeftTitle, b.TwoColumn.RightTitle}
		parts = append(parts, b.TwoColumn.LeftPoints...)
		parts = append(parts, b.TwoColumn.RightPoints...)
		return joinStrings(parts)
	}
	return ""
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := Block{Type: b.Type}
	switch {
	case b.Text != nil:
		out.Text = &TextBlock{Points: append([]string(nil), b.Text.Points...)}
	case b.Quote != nil:
		q := *b.Quote
		out.Quote = &q
	case b.Callout != nil:
		c := *b.Callout
		out.Callout = &c
	case b.Timeline != nil:
		out.Timeline = &TimelineBlock{Events: append([]TimelineEvent(nil), b.Timeline.Events...)}
	case b.Evidence != nil:
		out.Evidence = &EvidenceBlock{Items: append([]EvidenceItem(nil), b.Evidence.Items...)}
	case b.TwoColumn != nil:
		tc := *b.TwoColumn
		tc.LeftPoints = append([]string(nil), b.TwoColumn.LeftPoints...)
		tc.RightPoints = append([]string(nil), b.TwoColumn.RightPoints...)
		out.TwoColumn = &tc
	}
	return out
}

func joinStrings(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
