package pactconsumer

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type messageState int

const (
	stateCreated messageState = iota
	stateDefined
	stateVerifying
	stateVerified
	stateFailed
)

func (s messageState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateDefined:
		return "defined"
	case stateVerifying:
		return "verifying"
	case stateVerified:
		return "verified"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Config holds the settings a MessagePact is constructed with. They are
// fixed for the lifetime of the pact.
type Config struct {
	Consumer string
	Provider string
	PactDir  string
	Encoding EncodingOptions
}

// MessagePact owns the verification lifecycle of the messages defined
// against one consumer/provider pair. Messages defined from it may be
// verified concurrently; each owns an independent handle and builder.
type MessagePact struct {
	server  Server
	pact    PactHandle
	pactDir string
	opts    EncodingOptions
}

// NewMessagePact registers a new pact with the server. The server reference
// and the consumer and provider names are required.
func NewMessagePact(server Server, config Config) (*MessagePact, error) {
	if server == nil {
		return nil, errors.New("server must not be nil")
	}
	if config.Consumer == "" || config.Provider == "" {
		return nil, errors.New("consumer and provider names must not be empty")
	}

	pact, err := server.NewPact(config.Consumer, config.Provider)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create pact between '%s' and '%s'", config.Consumer, config.Provider)
	}

	return &MessagePact{
		server:  server,
		pact:    pact,
		pactDir: config.PactDir,
		opts:    config.Encoding,
	}, nil
}

// WithPactMetadata records a pact-level metadata entry. Entries are
// forwarded as-is; calling twice with the same triple forwards twice.
func (p *MessagePact) WithPactMetadata(namespace, name, value string) error {
	return errors.Wrapf(p.server.SetMetadata(p.pact, namespace, name, value),
		"unable to set pact metadata %s.%s", namespace, name)
}

// Message is one expected asynchronous payload within the pact. Its
// lifecycle is created -> defined -> verifying -> verified or failed;
// verification may only be driven once.
type Message struct {
	pact        *MessagePact
	handle      Handle
	description string
	builder     *ResponseBuilder
	state       messageState
}

// NewMessage allocates a message handle with the server and registers its
// description. The returned message is ready to have contents declared via
// its Builder.
func (p *MessagePact) NewMessage(description string) (*Message, error) {
	handle, err := p.server.NewMessage(p.pact, description)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create message '%s'", description)
	}

	m := &Message{
		pact:        p,
		handle:      handle,
		description: description,
		state:       stateCreated,
	}

	if err := p.server.SetDescription(handle, description); err != nil {
		return nil, errors.Wrapf(err, "unable to register description for message '%s'", description)
	}

	m.state = stateDefined
	m.builder = newResponseBuilder(p.server, handle, p.opts)
	return m, nil
}

// Builder returns the definition builder scoped to this message's handle
// and the pact's default encoding options.
func (m *Message) Builder() *ResponseBuilder {
	return m.builder
}

// Description returns the description the message was created with.
func (m *Message) Description() string {
	return m.description
}

// Verified reports whether the message reached its terminal success state.
func (m *Message) Verified() bool {
	return m.state == stateVerified
}

// Verify drives consumer-side verification of m: the reified contents are
// fetched from the server, deserialized into T and passed to handler. If
// the handler returns nil the pact file is written (merging with any
// existing file, never clobbering it). Any failure along that chain aborts
// the write and is reported as a *VerificationError.
func Verify[T any](m *Message, handler func(T) error) error {
	return m.verify(func(contents json.RawMessage) error {
		value, err := decode[T](contents)
		if err != nil {
			return err
		}
		return handler(value)
	})
}

// VerifyWithContext is Verify for handlers that perform their own blocking
// work. The call does not return until the handler does; ctx is handed to
// the handler untouched and a context error surfaces like any other
// handler failure.
func VerifyWithContext[T any](ctx context.Context, m *Message, handler func(context.Context, T) error) error {
	return m.verify(func(contents json.RawMessage) error {
		value, err := decode[T](contents)
		if err != nil {
			return err
		}
		return handler(ctx, value)
	})
}

func decode[T any](contents json.RawMessage) (T, error) {
	var value T
	if err := json.Unmarshal(contents, &value); err != nil {
		return value, errors.Wrap(err, "unable to deserialize message contents")
	}
	return value, nil
}

func (m *Message) verify(invoke func(json.RawMessage) error) error {
	if m.state != stateDefined {
		return errors.Errorf("message '%s' cannot be verified in state %s", m.description, m.state)
	}

	m.state = stateVerifying
	if err := m.run(invoke); err != nil {
		m.state = stateFailed
		return &VerificationError{Description: m.description, cause: err}
	}

	m.state = stateVerified
	return nil
}

func (m *Message) run(invoke func(json.RawMessage) error) error {
	if err := m.builder.Err(); err != nil {
		return err
	}

	reified, err := m.pact.server.Reify(m.handle)
	if err != nil {
		return errors.Wrap(err, "unable to reify message")
	}

	contents, err := extractContents([]byte(reified))
	if err != nil {
		return err
	}

	if err := invoke(contents); err != nil {
		return err
	}

	log.Infof("message '%s' verified, writing pact file", m.description)
	if err := m.pact.server.WritePactFile(m.pact.pact, m.pact.pactDir, false); err != nil {
		return errors.Wrap(err, "unable to write pact file")
	}
	return nil
}
