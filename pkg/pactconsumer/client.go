package pactconsumer

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/pactforge/pact-consumer/internal/app/pactconsumer"
)

// Client drives a remote mock message service through its admin API. It
// implements the server collaborator interface, so a message pact can be
// built against a service running out of process.
type Client struct {
	client http.Client
	url    string
}

func New(url string) *Client {
	return &Client{
		client: http.Client{
			Timeout: 30 * time.Second,
		},
		url: url,
	}
}

// WaitForReady polls the service's readiness endpoint until it answers or
// the timeout budget is spent.
func (c *Client) WaitForReady(timeout time.Duration) error {
	start := time.Now()
	return retry.Do(func() error {
		res, err := c.client.Get(c.endpoint("/ready"))
		if err != nil {
			return err
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return errors.Errorf("mock service not ready, status %d", res.StatusCode)
		}
		return nil
	}, retry.Delay(100*time.Millisecond), retry.RetryIf(func(err error) bool {
		return err != nil && time.Since(start) <= timeout
	}))
}

func (c *Client) NewPact(consumer, provider string) (pactconsumer.PactHandle, error) {
	out := struct {
		Handle string `json:"handle"`
	}{}
	err := c.post("/pacts", map[string]interface{}{
		"consumer": consumer,
		"provider": provider,
	}, &out)
	return pactconsumer.PactHandle(out.Handle), err
}

func (c *Client) NewMessage(pact pactconsumer.PactHandle, description string) (pactconsumer.Handle, error) {
	out := struct {
		Handle string `json:"handle"`
	}{}
	err := c.post("/messages", map[string]interface{}{
		"pact":        string(pact),
		"description": description,
	}, &out)
	return pactconsumer.Handle(out.Handle), err
}

func (c *Client) SetDescription(h pactconsumer.Handle, description string) error {
	return c.post("/messages/description", map[string]interface{}{
		"handle":      string(h),
		"description": description,
	}, nil)
}

func (c *Client) SetStatus(h pactconsumer.Handle, status int) error {
	return c.post("/interactions/status", map[string]interface{}{
		"handle": string(h),
		"status": status,
	}, nil)
}

func (c *Client) SetHeader(h pactconsumer.Handle, name, value string, index int) error {
	return c.post("/interactions/headers", map[string]interface{}{
		"handle": string(h),
		"name":   name,
		"value":  value,
		"index":  index,
	}, nil)
}

func (c *Client) SetBody(h pactconsumer.Handle, contentType, body string) error {
	return c.post("/interactions/body", map[string]interface{}{
		"handle":       string(h),
		"content_type": contentType,
		"body":         body,
	}, nil)
}

func (c *Client) SetMetadata(pact pactconsumer.PactHandle, namespace, name, value string) error {
	return c.post("/pacts/metadata", map[string]interface{}{
		"pact":      string(pact),
		"namespace": namespace,
		"name":      name,
		"value":     value,
	}, nil)
}

func (c *Client) Reify(h pactconsumer.Handle) (string, error) {
	q := url.Values{}
	q.Add("handle", string(h))

	res, err := c.client.Get(c.endpoint("/messages/reify") + "?" + q.Encode())
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", errors.Errorf("failed to reify message. %s", string(body))
	}
	return string(body), nil
}

func (c *Client) WritePactFile(pact pactconsumer.PactHandle, dir string, overwrite bool) error {
	return c.post("/pacts/write", map[string]interface{}{
		"pact":      string(pact),
		"dir":       dir,
		"overwrite": overwrite,
	}, nil)
}

func (c *Client) post(path string, body, out interface{}) error {
	content, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequest("POST", c.endpoint(path), bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.New(string(responseBody))
	}
	if out != nil {
		return errors.Wrap(json.Unmarshal(responseBody, out), "failed to parse response")
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.url, "/") + path
}
