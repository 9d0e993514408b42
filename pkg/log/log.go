// Package log provides structured logging for missing-data operations.
//
// It wires Go's log/slog to a JSON handler that understands
// cockroachdb/errors: whenever an error attribute carries a stack trace,
// the trace is emitted as a separate attribute so log processors can
// surface it without parsing the message.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
)

// Standard attribute keys used across the library.
const (
	// MechanismKey identifies the missingness mechanism ("mcar", "mar", "nmar").
	MechanismKey = "missing.mechanism"

	// MissingFractionKey reports the fraction of cells marked missing.
	MissingFractionKey = "missing.fraction"

	// SamplesKey is the number of rows in the matrix being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of columns in the matrix being processed.
	FeaturesKey = "data.features"

	// FoldKey identifies the cross-validation fold being materialized.
	FoldKey = "cv.fold"

	// NumFoldsKey is the total number of cross-validation folds.
	NumFoldsKey = "cv.num_folds"

	// SeedKey is the pseudorandom seed controlling reproducibility.
	SeedKey = "random.seed"

	// OperationKey names the library operation ("inject", "split", "fit", ...).
	OperationKey = "ml.operation"
)

const (
	// ErrAttrKey is the attribute key under which errors are logged.
	ErrAttrKey = "error"

	// StacktraceAttrKey is the attribute key for extracted stack traces.
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error so it can be passed to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// Setup installs a JSON slog handler at the given level as the default
// logger. Levels are "debug", "info", "warn" and "error".
func Setup(loglevel string) {
	opts := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &opts)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level: %s", level))
	}
}

// ErrFmtHandler is a slog handler that extracts stack traces from
// cockroachdb/errors values logged under ErrAttrKey.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps a slog handler so that records carrying an
// error attribute also receive a stacktrace attribute.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var stacktrace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				stacktrace = extractStacktrace(err)
			}
			return false
		}
		return true
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
