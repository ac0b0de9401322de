package ai

import "context"

// Guarded wraps every service of provider with guard.
func Guarded(provider AIProvider, guard *Guard) AIProvider {
	return &guardedProvider{
		inner:    provider,
		redactor: &guardedRedactor{inner: provider.Redactor(), guard: guard},
		embedder: &guardedEmbedder{inner: provider.Embedder(), guard: guard},
		composer: &guardedComposer{inner: provider.Composer(), guard: guard},
		scorer:   &guardedScorer{inner: provider.SafetyScorer(), guard: guard},
	}
}

type guardedProvider struct {
	inner    AIProvider
	redactor *guardedRedactor
	embedder *guardedEmbedder
	composer *guardedComposer
	scorer   *guardedScorer
}

func (p *guardedProvider) Redactor() Redactor         { return p.redactor }
func (p *guardedProvider) Embedder() Embedder         { return p.embedder }
func (p *guardedProvider) Composer() Composer         { return p.composer }
func (p *guardedProvider) SafetyScorer() SafetyScorer { return p.scorer }
func (p *guardedProvider) Close() error               { return p.inner.Close() }

type guardedRedactor struct {
	inner Redactor
	guard *Guard
}

func (r *guardedRedactor) Redact(ctx context.Context, text string) (*Redaction, error) {
	var out *Redaction
	err := r.guard.Do(ctx, "redact", func(ctx context.Context) error {
		var err error
		out, err = r.inner.Redact(ctx, text)
		return err
	})
	return out, err
}

type guardedEmbedder struct {
	inner Embedder
	guard *Guard
}

func (e *guardedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := e.guard.Do(ctx, "embed", func(ctx context.Context) error {
		var err error
		out, err = e.inner.EmbedText(ctx, text)
		return err
	})
	return out, err
}

func (e *guardedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := e.guard.Do(ctx, "embed_batch", func(ctx context.Context) error {
		var err error
		out, err = e.inner.EmbedTexts(ctx, texts)
		return err
	})
	return out, err
}

type guardedComposer struct {
	inner Composer
	guard *Guard
}

func (c *guardedComposer) Compose(ctx context.Context, prompt string, contextDocs []string) (string, error) {
	var out string
	err := c.guard.Do(ctx, "compose", func(ctx context.Context) error {
		var err error
		out, err = c.inner.Compose(ctx, prompt, contextDocs)
		return err
	})
	return out, err
}

type guardedScorer struct {
	inner SafetyScorer
	guard *Guard
}

func (s *guardedScorer) SafetyScore(ctx context.Context, text string) (float64, error) {
	var out float64
	err := s.guard.Do(ctx, "safety_score", func(ctx context.Context) error {
		var err error
		out, err = s.inner.SafetyScore(ctx, text)
		return err
	})
	return out, err
}
