package rdf

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/German-BioImaging/omero-rdf/vocabulary"
)

// Ellipsis slice bounds for shortened string literals: the first 24 runes,
// a literal "...", then the runes from len-20 up to but excluding the final
// rune. A 60-rune input therefore coerces to exactly 46 runes.
const (
	ellideThreshold    = 50
	ellidePrefixRunes  = 24
	ellideSuffixOffset = 20
)

// CoerceOptions control how raw scalar values become literals.
type CoerceOptions struct {
	// Ellide shortens string literals longer than 50 runes. Lossy, intended
	// only for human preview formats.
	Ellide bool
	// TrimWhitespace strips leading/trailing whitespace from string
	// literals. When disabled, untrimmed values pass through unchanged and
	// a warning is logged: trimming is opt-in, never silent.
	TrimWhitespace bool
	// Logger receives data-quality warnings. slog.Default() when nil.
	Logger *slog.Logger
}

func (o CoerceOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Coerce converts a raw scalar value into RDF literal form, applying the
// configured ellipsis and whitespace policies to strings. Non-string scalars
// become typed literals using the value's natural XSD datatype; the output
// formatter chooses the lexical rendering.
func Coerce(v any, opts CoerceOptions) Literal {
	switch val := v.(type) {
	case string:
		return coerceString(val, opts)
	case bool:
		return Literal{Lexical: strconv.FormatBool(val), Datatype: vocabulary.XSDBoolean}
	case int:
		return Literal{Lexical: strconv.FormatInt(int64(val), 10), Datatype: vocabulary.XSDInteger}
	case int32:
		return Literal{Lexical: strconv.FormatInt(int64(val), 10), Datatype: vocabulary.XSDInteger}
	case int64:
		return Literal{Lexical: strconv.FormatInt(val, 10), Datatype: vocabulary.XSDInteger}
	case float32:
		return coerceFloat(float64(val))
	case float64:
		return coerceFloat(val)
	default:
		// Unknown scalar kinds fall back to their string form.
		return Literal{Lexical: fmt.Sprintf("%v", val)}
	}
}

func coerceString(v string, opts CoerceOptions) Literal {
	runes := []rune(v)
	if opts.Ellide && len(runes) > ellideThreshold {
		shortened := string(runes[:ellidePrefixRunes]) + "..." +
			string(runes[len(runes)-ellideSuffixOffset:len(runes)-1])
		return Literal{Lexical: shortened}
	}
	if strings.HasPrefix(v, " ") || strings.HasSuffix(v, " ") {
		if opts.TrimWhitespace {
			return Literal{Lexical: strings.TrimSpace(v)}
		}
		opts.logger().Warn("string has whitespace that needs trimming", "value", v)
	}
	return Literal{Lexical: v}
}

func coerceFloat(v float64) Literal {
	// JSON decoding hands every number over as float64; integral values
	// keep the integer datatype they had on the server.
	if v == float64(int64(v)) {
		return Literal{Lexical: strconv.FormatInt(int64(v), 10), Datatype: vocabulary.XSDInteger}
	}
	return Literal{Lexical: strconv.FormatFloat(v, 'g', -1, 64), Datatype: vocabulary.XSDDouble}
}
