// Package pipeline runs the two passes over a subtitle file: the linguistic
// merge pass (no network) followed by sequential per-cue translation with
// client-side pacing. Nothing here is concurrent; each cue's translation is
// a blocking call and a fixed delay separates calls to stay under the remote
// service's rate limits.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"submend/internal/annotate"
	"submend/internal/detector"
	"submend/internal/markup"
	"submend/internal/merge"
	"submend/internal/store"
	"submend/internal/subtitle"
	"submend/internal/translator"
)

// Translator is the resilient client the pipeline calls once per cue. It
// never fails: exhausted retries come back as the untranslated input.
type Translator interface {
	Name() string
	Translate(ctx context.Context, cfg translator.ServiceConfig, req translator.TranslateRequest) *translator.ServiceResult
}

// Config holds the per-run settings.
type Config struct {
	Service      translator.ServiceConfig
	SystemPrompt string
	Delay        time.Duration // pacing between remote calls
	ContextWords int           // sliding-window size, 0 disables
	SkipMerge    bool
}

// Summary is what one run did.
type Summary struct {
	InputCues  int
	OutputCues int
	Merges     int
	CacheHits  int
	Translated int
}

type Pipeline struct {
	translator Translator
	annotator  annotate.Annotator
	memory     *store.Store       // nil disables the translation memory
	detect     *detector.Detector // nil disables the source-language warning
	cfg        Config

	sleep func(time.Duration)
}

func New(tr Translator, ann annotate.Annotator, memory *store.Store, detect *detector.Detector, cfg Config) *Pipeline {
	return &Pipeline{
		translator: tr,
		annotator:  ann,
		memory:     memory,
		detect:     detect,
		cfg:        cfg,
		sleep:      time.Sleep,
	}
}

// Run merges and translates the cue sequence in place order: all merge
// decisions happen before the first remote call.
func (p *Pipeline) Run(ctx context.Context, cues []subtitle.Cue) ([]subtitle.Cue, Summary, error) {
	summary := Summary{InputCues: len(cues)}

	p.warnNonEnglish(cues)

	merged := cues
	if !p.cfg.SkipMerge {
		var err error
		merged, err = merge.Combine(cues, p.annotator)
		if err != nil {
			return nil, summary, err
		}
		summary.Merges = len(cues) - len(merged)
		log.Info("merge pass complete", "cues", len(cues), "merged", summary.Merges)
	}
	summary.OutputCues = len(merged)

	promptHash := store.PromptHash(p.cfg.SystemPrompt)
	prevSource := ""

	for i := range merged {
		source := merged[i].Text

		if cached, ok := p.lookup(ctx, source, promptHash); ok {
			merged[i].Text = cached
			summary.CacheHits++
			prevSource = source
			log.Info("cue served from memory", "cue", i+1, "total", len(merged))
			continue
		}

		log.Info("translating cue", "cue", i+1, "total", len(merged), "text", source)
		merged[i].Text = p.translateOne(ctx, source, prevSource, promptHash)
		summary.Translated++
		prevSource = source

		if i < len(merged)-1 {
			p.sleep(p.cfg.Delay)
		}
	}

	return merged, summary, nil
}

// translateOne performs one remote call with markup protection and the
// sliding context window.
func (p *Pipeline) translateOne(ctx context.Context, source, prevSource, promptHash string) string {
	protected, markers := markup.Protect(source)

	prompt := p.cfg.SystemPrompt
	if len(markers) > 0 {
		prompt += "\n" + markup.InstructionHint()
	}

	var window string
	if p.cfg.ContextWords > 0 && prevSource != "" {
		window = lastWords(prevSource, p.cfg.ContextWords)
	}

	res := p.translator.Translate(ctx, p.cfg.Service, translator.TranslateRequest{
		Text:         protected,
		SystemPrompt: prompt,
		Context:      window,
	})

	translated := markup.Restore(res.TranslatedText, markers)
	if missing := markup.Missing(res.TranslatedText, markers); len(missing) > 0 {
		log.Warn("model dropped styling markers", "missing", len(missing))
	}

	// A result equal to its input is either a degraded fallback or a no-op
	// translation; don't memoize it either way.
	if p.memory != nil && translated != source {
		if err := p.memory.SaveCue(ctx, source, p.cfg.Service.Model, promptHash, translated, p.translator.Name()); err != nil {
			log.Warn("failed to save translation to memory", "error", err)
		}
	}
	return translated
}

func (p *Pipeline) lookup(ctx context.Context, source, promptHash string) (string, bool) {
	if p.memory == nil {
		return "", false
	}
	cached, found, err := p.memory.GetCached(ctx, source, p.cfg.Service.Model, promptHash)
	if err != nil {
		log.Warn("translation memory lookup failed", "error", err)
		return "", false
	}
	return cached, found
}

// warnNonEnglish samples the file's text and warns when it does not detect
// as English, since the boundary heuristics assume English continuations.
func (p *Pipeline) warnNonEnglish(cues []subtitle.Cue) {
	if p.detect == nil || p.cfg.SkipMerge || len(cues) == 0 {
		return
	}
	var sb strings.Builder
	for i := 0; i < len(cues) && i < 20; i++ {
		sb.WriteString(cues[i].Text)
		sb.WriteString(" ")
	}
	if iso, ok := p.detect.DetectISO(sb.String()); ok && iso != "EN" {
		log.Warn("input does not look like English; merge heuristics may misfire", "detected", iso)
	}
}

// lastWords returns the trailing wordCount words of text joined by single
// spaces, for use as the continuity window.
func lastWords(text string, wordCount int) string {
	words := strings.Fields(text)
	if len(words) <= wordCount {
		return strings.Join(words, " ")
	}
	return strings.Join(words[len(words)-wordCount:], " ")
}
