// Package generator orchestrates the slide generation pipeline: input
// checks, cache lookup, prompt assembly, the schema-constrained model call,
// post-validation, the single quality retry, and cache write-back.
package generator

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/casedeck/casedeck/internal/deckcache"
	"github.com/casedeck/casedeck/internal/gateway"
	"github.com/casedeck/casedeck/internal/models"
	"github.com/casedeck/casedeck/internal/schema"
	"github.com/casedeck/casedeck/internal/templates"
	"github.com/casedeck/casedeck/internal/validator"
)

const (
	defaultTemperature = 0.7
	retryTempFloor     = 0.3
	retryTempStep      = 0.2
)

// Options tune a single Generate call.
type Options struct {
	DesiredSlideCount int                 // 0 leaves the count to the model
	Template          models.TemplateType // "" skips template steering
	UseCache          *bool               // nil means on
	Temperature       float32             // 0 means the default
	Model             string
	MaxTokens         int
}

func (o Options) useCache() bool {
	return o.UseCache == nil || *o.UseCache
}

func (o Options) temperature() float32 {
	if o.Temperature == 0 {
		return defaultTemperature
	}
	return o.Temperature
}

// Generator runs the pipeline. It suspends only at the cache store and the
// gateway call; everything else is synchronous in-memory work.
type Generator struct {
	gw        gateway.Invoker
	cache     *deckcache.Cache
	validator *validator.Validator
	registry  *templates.Registry
	clock     models.Clock
}

// New wires a generator.
func New(gw gateway.Invoker, cache *deckcache.Cache, v *validator.Validator, registry *templates.Registry, clock models.Clock) *Generator {
	if clock == nil {
		clock = models.SystemClock{}
	}
	return &Generator{gw: gw, cache: cache, validator: v, registry: registry, clock: clock}
}

// Generate turns a case description into a validated slide deck.
func (g *Generator) Generate(ctx context.Context, caseText string, opts Options) (*models.SlideDeck, error) {
	start := g.clock.Now()

	text := strings.TrimSpace(caseText)
	if err := checkInput(text, opts); err != nil {
		return nil, err
	}

	if opts.useCache() {
		if deck := g.cache.Lookup(ctx, text); deck != nil {
			log.Info().
				Uint32("fingerprint", deckcache.Fingerprint(text)).
				Msg("Returning cached deck")
			return deck, nil
		}
	}

	var tpl *templates.Template
	if opts.Template != "" {
		t, err := g.registry.Get(opts.Template)
		if err != nil {
			return nil, err
		}
		tpl = t
	}

	deck, report, err := g.attempt(ctx, text, opts, tpl, false)
	if err != nil {
		return nil, err
	}

	// One in-pipeline regeneration when quality falls short. The retry's
	// deck wins only by strictly outscoring the original; a cancelled
	// retry is the same as keeping the original.
	if report.OverallScore < validator.ValidThreshold {
		log.Warn().
			Int("score", report.OverallScore).
			Msg("Deck failed quality threshold, regenerating once")

		retryOpts := opts
		retryOpts.Temperature = tightened(opts.temperature())
		retryDeck, retryReport, retryErr := g.attempt(ctx, text, retryOpts, tpl, true)
		switch {
		case retryErr != nil:
			log.Warn().Err(retryErr).Msg("Quality retry failed, keeping original deck")
		case retryReport.OverallScore > report.OverallScore:
			deck, report = retryDeck, retryReport
		}
	}

	deck.GeneratedAt = g.clock.Now()
	deck.InputLength = len([]rune(text))
	deck.GenerationTimeMs = g.clock.Now().Sub(start).Milliseconds()
	deck.FromCache = false
	deck.RequestedSlideCount = opts.DesiredSlideCount
	deck.Template = opts.Template
	deck.Validation = report

	if opts.useCache() {
		g.cache.Store(ctx, text, deck)
	}

	log.Info().
		Int("slides", deck.TotalSlides).
		Int("score", report.OverallScore).
		Int64("duration_ms", deck.GenerationTimeMs).
		Msg("Deck generated")

	return deck, nil
}

// attempt runs one prompt assembly, gateway call, and validation.
func (g *Generator) attempt(ctx context.Context, text string, opts Options, tpl *templates.Template, retry bool) (*models.SlideDeck, *models.ValidationReport, error) {
	raw, err := g.gw.Invoke(ctx, gateway.Request{
		Prompt:       userPrompt(text, opts.DesiredSlideCount, tpl),
		SystemPrompt: systemPrompt(tpl, retry),
		Schema:       schema.Deck(),
		SchemaName:   schema.DeckSchemaName,
		Model:        opts.Model,
		Temperature:  opts.temperature(),
		MaxTokens:    opts.MaxTokens,
	})
	if err != nil {
		return nil, nil, err
	}

	deck, err := decodeDeck(raw)
	if err != nil {
		return nil, nil, err
	}

	report := g.validator.Validate(deck, validator.Context{
		Input:             text,
		DesiredSlideCount: opts.DesiredSlideCount,
		Template:          tpl,
	})
	return deck, report, nil
}

func checkInput(text string, opts Options) error {
	n := len([]rune(text))
	if n < models.MinInputLength {
		return models.NewError(models.KindInputTooShort,
			"case description is %d characters, minimum is %d", n, models.MinInputLength)
	}
	if n > models.MaxInputLength {
		return models.NewError(models.KindInputTooLong,
			"case description is %d characters, maximum is %d", n, models.MaxInputLength)
	}
	if c := opts.DesiredSlideCount; c != 0 && (c < models.MinSlideCount || c > models.MaxSlideCount) {
		return models.NewError(models.KindInvalidSlideCount,
			"requested %d slides, allowed range is %d-%d", c, models.MinSlideCount, models.MaxSlideCount)
	}
	return nil
}

func tightened(temp float32) float32 {
	t := temp - retryTempStep
	if t < retryTempFloor {
		t = retryTempFloor
	}
	return t
}
