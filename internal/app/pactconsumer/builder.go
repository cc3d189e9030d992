package pactconsumer

// ResponseBuilder translates fluent definition calls into instructions
// against the server, for exactly one interaction or message handle. Every
// mutating method returns the builder to support chaining; calls may equally
// be issued non-chained.
//
// The builder does not validate what it forwards. Status codes go to the
// server verbatim, and declaring a status twice overwrites the previous
// value server-side. The first error encountered (a body that cannot be
// serialized, or a failed server call) is kept and reported by Err; later
// calls still forward.
type ResponseBuilder struct {
	server  Server
	handle  Handle
	opts    EncodingOptions
	headers *headerIndices
	err     error
}

func newResponseBuilder(server Server, handle Handle, opts EncodingOptions) *ResponseBuilder {
	return &ResponseBuilder{
		server:  server,
		handle:  handle,
		opts:    opts,
		headers: newHeaderIndices(),
	}
}

// WithStatus records the response status code.
func (b *ResponseBuilder) WithStatus(status int) *ResponseBuilder {
	b.record(b.server.SetStatus(b.handle, status))
	return b
}

// WithHeader appends a header value. Declaring the same name again, in any
// casing, appends a further value at the next occurrence index rather than
// replacing the first.
func (b *ResponseBuilder) WithHeader(name, value string) *ResponseBuilder {
	index := b.headers.nextIndex(name)
	b.record(b.server.SetHeader(b.handle, name, value, index))
	return b
}

// WithJSONBody serializes body with the builder's default encoding options
// and records it as an application/json body.
func (b *ResponseBuilder) WithJSONBody(body interface{}) *ResponseBuilder {
	return b.WithJSONBodyOpts(body, b.opts)
}

// WithJSONBodyOpts is WithJSONBody with explicit encoding options. If body
// cannot be serialized the server is not contacted for this call.
func (b *ResponseBuilder) WithJSONBodyOpts(body interface{}, opts EncodingOptions) *ResponseBuilder {
	text, err := opts.encode(body)
	if err != nil {
		b.record(err)
		return b
	}
	b.record(b.server.SetBody(b.handle, mediaTypeJSON, text))
	return b
}

// Err returns the first error raised by any definition call, or nil.
func (b *ResponseBuilder) Err() error {
	return b.err
}

func (b *ResponseBuilder) record(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}
