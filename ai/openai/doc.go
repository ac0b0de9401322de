// Package openai implements the ai services over OpenAI-compatible APIs
// (OpenAI, Ollama, LocalAI, vLLM) using langchaingo.
//
// Redaction and safety scoring request JSON output and tolerate the usual
// small-model mistakes: code fences, unquoted keys and trailing commas are
// repaired, and an unparseable answer is re-requested up to three times
// before ai.ErrMalformedResponse is returned. Composition returns plain text
// trimmed to MaxIntroSentences.
//
// # Usage
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	redacted, err := provider.Redactor().Redact(ctx, bio)
package openai
