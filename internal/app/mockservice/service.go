package mockservice

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pactforge/pact-consumer/internal/app/pactconsumer"
)

type interactionRecord struct {
	description string
	status      int
	headerCase  map[string]string   // lower-cased name -> casing it was first declared with
	headers     map[string][]string // lower-cased name -> values by occurrence index
	contentType string
	body        string
	hasBody     bool
}

func newInteractionRecord(description string) *interactionRecord {
	return &interactionRecord{
		description: description,
		headerCase:  map[string]string{},
		headers:     map[string][]string{},
	}
}

func (r *interactionRecord) displayHeaders() map[string][]string {
	headers := make(map[string][]string, len(r.headers))
	for key, values := range r.headers {
		headers[r.headerCase[key]] = values
	}
	return headers
}

func (r *interactionRecord) contentsValue() interface{} {
	if r.contentType == mediaTypeJSON && json.Valid([]byte(r.body)) {
		return json.RawMessage(r.body)
	}
	return r.body
}

type pactRecord struct {
	consumer string
	provider string
	metadata map[string]map[string]string
	messages []pactconsumer.Handle
}

// Service is an in-memory implementation of the server collaborator. It
// holds the pact documents under construction and is their single source of
// truth. Distinct interactions and messages may be defined concurrently
// since every call addresses one handle.
type Service struct {
	mu           sync.RWMutex
	pacts        map[pactconsumer.PactHandle]*pactRecord
	interactions map[pactconsumer.Handle]*interactionRecord
}

func New() *Service {
	return &Service{
		pacts:        map[pactconsumer.PactHandle]*pactRecord{},
		interactions: map[pactconsumer.Handle]*interactionRecord{},
	}
}

func (s *Service) NewPact(consumer, provider string) (pactconsumer.PactHandle, error) {
	if consumer == "" || provider == "" {
		return "", errors.New("consumer and provider names must not be empty")
	}

	handle := pactconsumer.PactHandle(uuid.New().String())
	s.mu.Lock()
	s.pacts[handle] = &pactRecord{
		consumer: consumer,
		provider: provider,
		metadata: map[string]map[string]string{},
	}
	s.mu.Unlock()

	log.Infof("created pact between '%s' and '%s'", consumer, provider)
	return handle, nil
}

func (s *Service) NewMessage(pact pactconsumer.PactHandle, description string) (pactconsumer.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pacts[pact]
	if !ok {
		return "", errors.Errorf("no pact for handle '%s'", pact)
	}

	handle := pactconsumer.Handle(uuid.New().String())
	s.interactions[handle] = newInteractionRecord(description)
	p.messages = append(p.messages, handle)
	return handle, nil
}

func (s *Service) SetDescription(h pactconsumer.Handle, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.interactions[h]
	if !ok {
		return errors.Errorf("no interaction for handle '%s'", h)
	}
	rec.description = description
	return nil
}

func (s *Service) SetStatus(h pactconsumer.Handle, status int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.interactions[h]
	if !ok {
		return errors.Errorf("no interaction for handle '%s'", h)
	}
	rec.status = status
	return nil
}

// SetHeader records value at the given occurrence index for name. An index
// equal to the current occurrence count appends, a lower index replaces the
// recorded value, anything beyond that is out of declaration order.
func (s *Service) SetHeader(h pactconsumer.Handle, name, value string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.interactions[h]
	if !ok {
		return errors.Errorf("no interaction for handle '%s'", h)
	}

	key := lowerHeaderName(name)
	if _, seen := rec.headerCase[key]; !seen {
		rec.headerCase[key] = name
	}

	values := rec.headers[key]
	switch {
	case index == len(values):
		rec.headers[key] = append(values, value)
	case index < len(values):
		values[index] = value
	default:
		return errors.Errorf("occurrence index %d for header '%s' is out of order", index, name)
	}
	return nil
}

func (s *Service) SetBody(h pactconsumer.Handle, contentType, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.interactions[h]
	if !ok {
		return errors.Errorf("no interaction for handle '%s'", h)
	}
	rec.contentType = contentType
	rec.body = body
	rec.hasBody = true
	return nil
}

func (s *Service) SetMetadata(pact pactconsumer.PactHandle, namespace, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pacts[pact]
	if !ok {
		return errors.Errorf("no pact for handle '%s'", pact)
	}

	entries, ok := p.metadata[namespace]
	if !ok {
		entries = map[string]string{}
		p.metadata[namespace] = entries
	}
	entries[name] = value
	return nil
}

// Reify materializes the message identified by h as its envelope text.
func (s *Service) Reify(h pactconsumer.Handle) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.interactions[h]
	if !ok {
		return "", errors.Errorf("no interaction for handle '%s'", h)
	}

	envelope := map[string]interface{}{
		"description": rec.description,
	}
	if rec.status != 0 {
		envelope["status"] = rec.status
	}
	if len(rec.headers) > 0 {
		envelope["headers"] = rec.displayHeaders()
	}
	if rec.hasBody {
		envelope["contents"] = rec.contentsValue()
		envelope["metadata"] = map[string]interface{}{"contentType": rec.contentType}
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode reified message")
	}
	return string(data), nil
}

// WritePactFile persists the pact document to dir as
// <consumer>-<provider>.json. Without the overwrite flag an existing file is
// merged into rather than clobbered: messages with a matching description
// are replaced, new ones appended.
func (s *Service) WritePactFile(pact pactconsumer.PactHandle, dir string, overwrite bool) error {
	s.mu.RLock()
	p, ok := s.pacts[pact]
	if !ok {
		s.mu.RUnlock()
		return errors.Errorf("no pact for handle '%s'", pact)
	}

	messages := make([]*interactionRecord, 0, len(p.messages))
	for _, h := range p.messages {
		messages = append(messages, s.interactions[h])
	}
	doc, err := buildPactDocument(p, messages)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "unable to create pact directory %s", dir)
	}

	path := filepath.Join(dir, pactFileName(p.consumer, p.provider))
	log.Infof("writing pact file %s", path)
	return writePactFile(path, doc, overwrite)
}
