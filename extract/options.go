package extract

// Options configures an Extractor. The value is copied at construction and
// never mutated afterwards, so a single Extractor is safe to share across
// goroutines handling different messages.
type Options struct {
	// LegacySuggestionTag accepts the retired single-object "suggestion"
	// fence tag alongside the current list form.
	LegacySuggestionTag bool

	// BareSuggestionFallback enables the secondary unfenced-object scan for
	// suggestions when the fenced pass yields nothing. Some prompt versions
	// intermittently omit the fence.
	BareSuggestionFallback bool
}

// DefaultOptions returns the options used in production: legacy tag and
// bare-object fallback both enabled.
func DefaultOptions() Options {
	return Options{
		LegacySuggestionTag:    true,
		BareSuggestionFallback: true,
	}
}

// Extractor locates, decodes, and strips coach payload blocks.
type Extractor struct {
	opts Options
}

// New creates an Extractor with the given options.
func New(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// NewDefault creates an Extractor with DefaultOptions.
func NewDefault() *Extractor {
	return New(DefaultOptions())
}
