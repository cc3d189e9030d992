package pactconsumer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// EncodingOptions control how body values are serialized to JSON text.
// The zero value produces compact output with HTML escaping disabled, which
// keeps serialized bodies byte-stable across the pact document. Options are
// never mutated after construction; a pact shares one default set across all
// of its bodies, with an optional per-call override.
type EncodingOptions struct {
	Indent     string
	EscapeHTML bool
}

func (o EncodingOptions) encode(body interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(o.EscapeHTML)
	if o.Indent != "" {
		enc.SetIndent("", o.Indent)
	}
	if err := enc.Encode(body); err != nil {
		return "", errors.Wrap(err, "unable to serialize body to JSON")
	}
	// Encode terminates the stream with a newline, which is not part of the body.
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
