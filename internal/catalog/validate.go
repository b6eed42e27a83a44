// ABOUTME: Entry point of catalog validation and the document-level checks
// ABOUTME: Configures parallelism and logging through functional options
package catalog

import (
	"go.uber.org/zap"

	"github.com/plugincheck/catalint/internal/document"
)

// Top-level document fields
const (
	fieldMimeTypes = "mime_types"
	fieldPlugins   = "plugins"
)

// Validator checks catalog documents. A Validator holds no per-run state
// and may be shared between goroutines.
type Validator struct {
	parallelism int
	logger      *zap.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithParallelism validates up to n plugins concurrently. Results keep
// document order regardless of n. Values below 1 mean sequential.
func WithParallelism(n int) Option {
	return func(v *Validator) {
		if n < 1 {
			n = 1
		}
		v.parallelism = n
	}
}

// WithLogger sets the logger used for debug diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a Validator
func New(opts ...Option) *Validator {
	v := &Validator{
		parallelism: 1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate runs every rule against doc with a default Validator
func Validate(doc document.Value, opts ...Option) *Report {
	return New(opts...).Validate(doc)
}

// Validate runs every rule against doc. A missing or malformed top-level
// field is reported and the remaining checks still run.
func (v *Validator) Validate(doc document.Value) *Report {
	c := &collector{}

	mimeTypes := doc.Field(fieldMimeTypes)
	plugins := doc.Field(fieldPlugins)

	v.logger.Debug("validating catalog",
		zap.Stringer("root", doc.Kind()),
		zap.Int("mime_types", mimeTypes.Len()),
		zap.Strings("plugins", plugins.Keys()),
		zap.Int("parallelism", v.parallelism))

	c.expectKind(RuleDocumentMimeTypes, Root().Field(fieldMimeTypes), mimeTypes, document.KindArray)
	validateMimeTypes(c, mimeTypes)

	c.expectKind(RuleDocumentPlugins, Root().Field(fieldPlugins), plugins, document.KindObject)
	v.validatePlugins(c, plugins, knownMimeTypes(mimeTypes))

	report := &Report{Results: c.results}
	counts := report.Counts()
	v.logger.Debug("catalog validated",
		zap.Int("results", counts.Total),
		zap.Int("violations", counts.Failed))
	return report
}
