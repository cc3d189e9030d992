package pactconsumer

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pactforge/pact-consumer/internal/app/mockservice"
	"github.com/pactforge/pact-consumer/internal/app/pactconsumer"
)

func newTestService(t *testing.T) *Client {
	t.Helper()
	e := echo.New()
	e.HideBanner = true
	mockservice.SetupRoutes(e, mockservice.New(), t.TempDir())
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestWaitForReady(t *testing.T) {
	client := newTestService(t)
	require.NoError(t, client.WaitForReady(time.Second))
}

func TestWaitForReadyUnreachableService(t *testing.T) {
	client := New("http://localhost:1")
	assert.Error(t, client.WaitForReady(200*time.Millisecond))
}

// The client implements the server collaborator, so the whole message
// lifecycle can run against the admin API end to end.
func TestMessagePactOverHTTP(t *testing.T) {
	client := newTestService(t)
	pactDir := t.TempDir()

	pact, err := pactconsumer.NewMessagePact(client, pactconsumer.Config{
		Consumer: "order-service",
		Provider: "billing-service",
		PactDir:  pactDir,
	})
	require.NoError(t, err)
	require.NoError(t, pact.WithPactMetadata("pactforge", "client", "go"))

	m, err := pact.NewMessage("order-created")
	require.NoError(t, err)

	m.Builder().
		WithHeader("X-Trace", "a").
		WithHeader("x-trace", "b").
		WithJSONBody(map[string]interface{}{"id": 42})
	require.NoError(t, m.Builder().Err())

	type orderCreated struct {
		ID int `json:"id"`
	}

	err = pactconsumer.Verify(m, func(order orderCreated) error {
		if order.ID != 42 {
			return errors.Errorf("unexpected order id %d", order.ID)
		}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, m.Verified())

	data, err := os.ReadFile(filepath.Join(pactDir, "order-service-billing-service.json"))
	require.NoError(t, err)

	doc := string(data)
	assert.Equal(t, "order-service", gjson.Get(doc, "consumer.name").String())
	assert.Equal(t, "order-created", gjson.Get(doc, "messages.0.description").String())
	assert.Equal(t, int64(42), gjson.Get(doc, "messages.0.contents.id").Int())
	assert.Equal(t, "go", gjson.Get(doc, "metadata.pactforge.client").String())
}

func TestMessagePactOverHTTPHandlerFailure(t *testing.T) {
	client := newTestService(t)
	pactDir := t.TempDir()

	pact, err := pactconsumer.NewMessagePact(client, pactconsumer.Config{
		Consumer: "order-service",
		Provider: "billing-service",
		PactDir:  pactDir,
	})
	require.NoError(t, err)

	m, err := pact.NewMessage("order-created")
	require.NoError(t, err)
	m.Builder().WithJSONBody(map[string]interface{}{"id": 42})

	appErr := errors.New("order rejected")
	err = pactconsumer.Verify(m, func(map[string]interface{}) error { return appErr })

	var verr *pactconsumer.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "order-created", verr.Description)

	_, err = os.Stat(filepath.Join(pactDir, "order-service-billing-service.json"))
	assert.True(t, os.IsNotExist(err))
}
