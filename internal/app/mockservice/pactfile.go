package mockservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	mediaTypeJSON = "application/json"

	pactSpecificationVersion = "3.0.0"
)

func lowerHeaderName(name string) string {
	return strings.ToLower(name)
}

func pactFileName(consumer, provider string) string {
	return fmt.Sprintf("%s-%s.json", consumer, provider)
}

// buildPactDocument serializes a pact record into a specification v3 message
// pact document. Message order follows definition order; metadata keys are
// emitted sorted, so repeated builds of the same state are byte-identical.
func buildPactDocument(p *pactRecord, messages []*interactionRecord) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	if doc, err = sjson.SetBytes(doc, "consumer.name", p.consumer); err != nil {
		return nil, errors.Wrap(err, "unable to set consumer name")
	}
	if doc, err = sjson.SetBytes(doc, "provider.name", p.provider); err != nil {
		return nil, errors.Wrap(err, "unable to set provider name")
	}

	for _, m := range messages {
		entry := map[string]interface{}{
			"description": m.description,
		}
		if m.hasBody {
			entry["contents"] = m.contentsValue()
			entry["metadata"] = map[string]interface{}{"contentType": m.contentType}
		}
		if doc, err = sjson.SetBytes(doc, "messages.-1", entry); err != nil {
			return nil, errors.Wrapf(err, "unable to add message '%s'", m.description)
		}
	}

	metadata := map[string]interface{}{
		"pactSpecification": map[string]string{"version": pactSpecificationVersion},
	}
	for namespace, entries := range p.metadata {
		metadata[namespace] = entries
	}
	if doc, err = sjson.SetBytes(doc, "metadata", metadata); err != nil {
		return nil, errors.Wrap(err, "unable to set pact metadata")
	}

	return doc, nil
}

// mergePactDocuments folds updated into existing. Participants and metadata
// are taken from updated; messages are matched by description, replacing on
// a match and appending otherwise, so re-verifying a message never
// duplicates its entry.
func mergePactDocuments(existing, updated []byte) ([]byte, error) {
	merged := existing
	var err error

	for _, field := range []string{"consumer", "provider", "metadata"} {
		value := gjson.GetBytes(updated, field)
		if !value.Exists() {
			continue
		}
		if merged, err = sjson.SetRawBytes(merged, field, []byte(value.Raw)); err != nil {
			return nil, errors.Wrapf(err, "unable to merge pact field %s", field)
		}
	}

	for _, msg := range gjson.GetBytes(updated, "messages").Array() {
		description := msg.Get("description").String()

		path := "messages.-1"
		for i, current := range gjson.GetBytes(merged, "messages").Array() {
			if current.Get("description").String() == description {
				path = fmt.Sprintf("messages.%d", i)
				break
			}
		}

		if merged, err = sjson.SetRawBytes(merged, path, []byte(msg.Raw)); err != nil {
			return nil, errors.Wrapf(err, "unable to merge message '%s'", description)
		}
	}

	return merged, nil
}

func writePactFile(path string, doc []byte, overwrite bool) error {
	if !overwrite {
		existing, err := os.ReadFile(path)
		if err == nil {
			if doc, err = mergePactDocuments(existing, doc); err != nil {
				return err
			}
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "unable to read existing pact file %s", path)
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, doc, "", "  "); err != nil {
		return errors.Wrap(err, "unable to format pact document")
	}
	out.WriteByte('\n')

	return errors.Wrapf(os.WriteFile(path, out.Bytes(), 0644), "unable to write pact file %s", path)
}
