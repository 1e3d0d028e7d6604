package generator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casedeck/casedeck/internal/deckcache"
	"github.com/casedeck/casedeck/internal/kvstore"
	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/templates"
	"github.com/casedeck/casedeck/internal/validator"
)

func existingDeck() *models.SlideDeck {
	return &models.SlideDeck{
		Title:       "State v. Accused: Murder Trial",
		TotalSlides: 5,
		Slides: []models.Slide{
			{Title: "Case Overview", Blocks: []models.Block{models.NewTextBlock("Murder case before the sessions court", "Court found the accused guilty")}},
			{Title: "Facts of the Case", Blocks: []models.Block{models.NewTextBlock("CCTV footage at 11:45 PM", "15 witnesses for the prosecution")}},
			{Title: "Issues", Blocks: []models.Block{models.NewTextBlock("Whether the charge of ~murder~ is made out", "Whether identification is reliable")}},
			{Title: "Charges and Offences", Blocks: []models.Block{models.NewTextBlock("Charged under _Section 302 IPC_", "*Mens rea* established")}},
			{Title: "Evidence", Blocks: []models.Block{models.NewEvidenceBlock(models.EvidenceItem{Label: "Exhibit A", Description: "CCTV footage"})}},
		},
	}
}

func refinedDeckJSON(t *testing.T) json.RawMessage {
	slides := make([]models.Slide, 5)
	for i := range slides {
		slides[i] = models.Slide{
			Title:  "Reworked Slide",
			Blocks: []models.Block{models.NewTextBlock("Expanded point on the ~murder~ charge", "New detail about the eyewitnesses")},
		}
	}
	return deckJSON(t, "Reworked Title", slides)
}

func TestRefine_PreservesAndTargets(t *testing.T) {
	gw := &stubGateway{responses: []stubResponse{{raw: refinedDeckJSON(t)}}}
	gen := newTestGenerator(gw)

	original := existingDeck()
	instructions := "Add more detail on the forensic evidence and witness timeline"
	out, err := gen.Refine(context.Background(), original, instructions, RefineOptions{
		PreserveSlides: []int{0, 4},
		TargetSlides:   []int{1, 2, 3},
	})
	require.NoError(t, err)
	require.Len(t, gw.requests, 1)
	require.Len(t, out.Slides, 5)

	// Preserved slides come back byte-identical.
	for _, i := range []int{0, 4} {
		wantJSON, err := json.Marshal(original.Slides[i])
		require.NoError(t, err)
		gotJSON, err := json.Marshal(out.Slides[i])
		require.NoError(t, err)
		assert.JSONEq(t, string(wantJSON), string(gotJSON), "slide %d must be untouched", i)
		assert.False(t, out.Slides[i].Modified)
	}

	for _, i := range []int{1, 2, 3} {
		assert.Equal(t, "Reworked Slide", out.Slides[i].Title)
		assert.True(t, out.Slides[i].Modified)
		require.NotNil(t, out.Slides[i].ModifiedAt)
	}

	// Slide 0 was preserved, so the deck title stays.
	assert.Equal(t, "State v. Accused: Murder Trial", out.Title)

	require.Len(t, out.RefinementHistory, 1)
	entry := out.RefinementHistory[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, instructions, entry.Instructions)
	assert.Equal(t, []int{1, 2, 3}, entry.TargetSlides)
	assert.Equal(t, []int{0, 4}, entry.PreservedSlides)

	require.NotNil(t, out.Validation)
	assert.False(t, out.FromCache)
}

func TestRefine_DefaultsToAllSlides(t *testing.T) {
	gw := &stubGateway{responses: []stubResponse{{raw: refinedDeckJSON(t)}}}
	gen := newTestGenerator(gw)

	out, err := gen.Refine(context.Background(), existingDeck(), "Tighten every slide", RefineOptions{})
	require.NoError(t, err)

	for i := range out.Slides {
		assert.True(t, out.Slides[i].Modified, "slide %d should be reworked", i)
	}
	assert.Equal(t, "Reworked Title", out.Title)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, out.RefinementHistory[0].TargetSlides)
}

func TestRefine_PreserveWinsOverTarget(t *testing.T) {
	gw := &stubGateway{responses: []stubResponse{{raw: refinedDeckJSON(t)}}}
	gen := newTestGenerator(gw)

	out, err := gen.Refine(context.Background(), existingDeck(), "Rework the issues framing", RefineOptions{
		PreserveSlides: []int{1},
		TargetSlides:   []int{1, 2},
	})
	require.NoError(t, err)

	assert.False(t, out.Slides[1].Modified)
	assert.Equal(t, "Facts of the Case", out.Slides[1].Title)
	assert.True(t, out.Slides[2].Modified)
	assert.Equal(t, []int{2}, out.RefinementHistory[0].TargetSlides)
}

func TestRefine_InputValidation(t *testing.T) {
	tests := []struct {
		name         string
		deck         *models.SlideDeck
		instructions string
		opts         RefineOptions
		kind         models.ErrorKind
	}{
		{"empty instructions", existingDeck(), "   ", RefineOptions{}, models.KindEmptyInstructions},
		{"nil deck", nil, "do something", RefineOptions{}, models.KindInvalidExistingDeck},
		{"deck without slides", &models.SlideDeck{Title: "Empty"}, "do something", RefineOptions{}, models.KindInvalidExistingDeck},
		{"preserve index out of range", existingDeck(), "do something", RefineOptions{PreserveSlides: []int{5}}, models.KindInvalidExistingDeck},
		{"negative target index", existingDeck(), "do something", RefineOptions{TargetSlides: []int{-1}}, models.KindInvalidExistingDeck},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &stubGateway{}
			gen := newTestGenerator(gw)

			_, err := gen.Refine(context.Background(), tt.deck, tt.instructions, tt.opts)
			require.Error(t, err)
			assert.True(t, models.IsKind(err, tt.kind), "got kind %q", models.KindOf(err))
			assert.Empty(t, gw.requests)
		})
	}
}

func TestRefine_PromptCarriesInventory(t *testing.T) {
	gw := &stubGateway{responses: []stubResponse{{raw: refinedDeckJSON(t)}}}
	gen := newTestGenerator(gw)

	_, err := gen.Refine(context.Background(), existingDeck(), "Sharpen the charges slide", RefineOptions{
		PreserveSlides: []int{0},
		TargetSlides:   []int{3},
	})
	require.NoError(t, err)

	prompt := gw.requests[0].Prompt
	assert.Contains(t, prompt, "Sharpen the charges slide")
	assert.Contains(t, prompt, "[PRESERVE]")
	assert.Contains(t, prompt, "[TARGET]")
	assert.Contains(t, prompt, "Charges and Offences")
}

func TestRefine_DoesNotTouchCache(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := deckcache.New(store, nil)
	gw := &stubGateway{responses: []stubResponse{{raw: refinedDeckJSON(t)}}}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	gen := New(gw, cache, validator.New(), templates.NewRegistry(), clock)

	_, err := gen.Refine(context.Background(), existingDeck(), "Polish the evidence slide", RefineOptions{})
	require.NoError(t, err)

	keys, err := store.ListKeys(context.Background(), deckcache.KeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
