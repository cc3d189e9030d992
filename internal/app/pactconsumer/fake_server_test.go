package pactconsumer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// fakeServer records every forwarded instruction so tests can assert on the
// exact call sequence the builders and orchestrator produce.
type fakeServer struct {
	calls []string

	reified  string
	reifyErr error
	newErr   error
	bodyErr  error
	writeErr error

	handles int
}

func newFakeServer() *fakeServer {
	return &fakeServer{reified: `{"contents":{}}`}
}

func (f *fakeServer) record(format string, a ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, a...))
}

func (f *fakeServer) callsOf(op string) []string {
	var matched []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, op) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (f *fakeServer) NewPact(consumer, provider string) (PactHandle, error) {
	f.record("new-pact %s %s", consumer, provider)
	return PactHandle("pact-1"), nil
}

func (f *fakeServer) NewMessage(pact PactHandle, description string) (Handle, error) {
	if f.newErr != nil {
		return "", f.newErr
	}
	f.handles++
	f.record("new-message %s %s", pact, description)
	return Handle(fmt.Sprintf("msg-%d", f.handles)), nil
}

func (f *fakeServer) SetDescription(h Handle, description string) error {
	f.record("set-description %s %s", h, description)
	return nil
}

func (f *fakeServer) SetStatus(h Handle, status int) error {
	f.record("set-status %s %d", h, status)
	return nil
}

func (f *fakeServer) SetHeader(h Handle, name, value string, index int) error {
	f.record("set-header %s %s %s %d", h, name, value, index)
	return nil
}

func (f *fakeServer) SetBody(h Handle, contentType, body string) error {
	if f.bodyErr != nil {
		return f.bodyErr
	}
	f.record("set-body %s %s %s", h, contentType, body)
	return nil
}

func (f *fakeServer) SetMetadata(pact PactHandle, namespace, name, value string) error {
	f.record("set-metadata %s %s %s %s", pact, namespace, name, value)
	return nil
}

func (f *fakeServer) Reify(h Handle) (string, error) {
	if f.reifyErr != nil {
		return "", f.reifyErr
	}
	f.record("reify %s", h)
	return f.reified, nil
}

func (f *fakeServer) WritePactFile(pact PactHandle, dir string, overwrite bool) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.record("write-pact %s %s %t", pact, dir, overwrite)
	return nil
}

var errFake = errors.New("fake server failure")
