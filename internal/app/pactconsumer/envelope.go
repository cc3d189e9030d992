package pactconsumer

import (
	"encoding/json"

	"github.com/PaesslerAG/jsonpath"
	"github.com/pkg/errors"
)

// extractContents parses the reified message envelope returned by the server
// and pulls out the raw contents. The contents are re-encoded so the caller
// can deserialize them into a concrete type; a body that was declared as a
// plain string round-trips as a JSON string.
func extractContents(envelope []byte) (json.RawMessage, error) {
	doc := map[string]interface{}{}
	if err := json.Unmarshal(envelope, &doc); err != nil {
		return nil, errors.Wrap(err, "unable to parse reified message envelope")
	}

	contents, err := jsonpath.Get("$.contents", doc)
	if err != nil {
		return nil, errors.Wrap(err, "reified message envelope has no contents")
	}

	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode message contents")
	}
	return raw, nil
}
