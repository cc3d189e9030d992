package pactconsumer

const mediaTypeJSON = "application/json"

// Handle correlates builder calls to server-side state for one interaction
// or message. Handles are allocated by the server and are opaque to this
// package.
type Handle string

// PactHandle identifies the pact document that interactions and messages
// defined through this package belong to.
type PactHandle string

// Server is the mock server collaborator that owns the pact document under
// construction. The server records every forwarded instruction against the
// given handle; this package never reads that state back except through
// Reify.
type Server interface {
	NewPact(consumer, provider string) (PactHandle, error)
	NewMessage(pact PactHandle, description string) (Handle, error)
	SetDescription(h Handle, description string) error
	SetStatus(h Handle, status int) error
	SetHeader(h Handle, name, value string, index int) error
	SetBody(h Handle, contentType, body string) error
	SetMetadata(pact PactHandle, namespace, name, value string) error
	Reify(h Handle) (string, error)
	WritePactFile(pact PactHandle, dir string, overwrite bool) error
}
