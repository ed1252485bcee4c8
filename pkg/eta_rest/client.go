package eta_rest

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SupportedAPIVersion is the REST API revision this client understands.
const SupportedAPIVersion = "1.2"

const DefaultRequestTimeout = 30 * time.Second

const restNamespaceDecl = ` xmlns="http://www.eta.co.at/rest/v1"`

var ErrUnsupportedAPI = errors.New("eta_rest: unsupported API version")

// CommError indicates the device could not be reached in time. The caller
// decides whether to retry on the next cycle.
type CommError struct {
	Cause error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("eta_rest: communication error: %s", e.Cause)
}

func (e *CommError) Unwrap() error {
	return e.Cause
}

// DecodeError indicates a response document that could not be parsed.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("eta_rest: malformed response: %s", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// APIError is an <error> document returned by the device itself.
type APIError struct {
	URI     string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eta_rest: device error at %s: %s", e.URI, e.Message)
}

// Client is the access interface to an ETA heating controller.
type Client interface {
	// CheckAPI verifies the device speaks a supported API revision and
	// returns the reported version.
	CheckAPI(ctx context.Context) (string, error)
	// Menu discovers the object tree from /user/menu.
	Menu(ctx context.Context) (*ObjectTree, error)
	// ReadValue fetches the current value of a single point.
	ReadValue(ctx context.Context, uri string) (*Value, error)
	// WriteValue sets a writable point to the given raw code. The caller
	// must trigger a fresh read afterwards, the device does not push.
	WriteValue(ctx context.Context, uri string, code string) error
}

type RESTClient struct {
	baseURL        string
	httpClient     *http.Client
	portableParser bool
	logger         *zap.Logger
}

func NewRESTClient(host string, port uint, timeout time.Duration, portableParser bool, logger *zap.Logger) *RESTClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RESTClient{
		baseURL:        fmt.Sprintf("http://%s:%d", host, port),
		httpClient:     &http.Client{Timeout: timeout},
		portableParser: portableParser,
		logger:         logger,
	}
}

func (c *RESTClient) CheckAPI(ctx context.Context) (string, error) {
	doc, err := c.get(ctx, "/user/api")
	if err != nil {
		return "", err
	}
	if doc.API == nil {
		return "", &DecodeError{Cause: errors.New("no api element in response")}
	}
	if doc.API.Version != SupportedAPIVersion {
		return doc.API.Version, fmt.Errorf("%w: got %s, want %s", ErrUnsupportedAPI, doc.API.Version, SupportedAPIVersion)
	}
	return doc.API.Version, nil
}

func (c *RESTClient) Menu(ctx context.Context) (*ObjectTree, error) {
	doc, err := c.get(ctx, "/user/menu")
	if err != nil {
		return nil, err
	}
	if doc.Menu == nil {
		if doc.Error != nil {
			return nil, &APIError{URI: doc.Error.URI, Message: strings.TrimSpace(doc.Error.Message)}
		}
		return nil, &DecodeError{Cause: errors.New("no menu element in response")}
	}
	tree := buildTree(doc.Menu)
	if tree.Skipped > 0 {
		c.logger.Warn("menu contained malformed nodes", zap.Int("skipped", tree.Skipped))
	}
	return tree, nil
}

func (c *RESTClient) ReadValue(ctx context.Context, uri string) (*Value, error) {
	doc, err := c.get(ctx, "/user/var"+uri)
	if err != nil {
		return nil, err
	}
	if doc.Value == nil {
		if doc.Error != nil {
			return nil, &APIError{URI: doc.Error.URI, Message: strings.TrimSpace(doc.Error.Message)}
		}
		return nil, &DecodeError{Cause: errors.New("no value element in response")}
	}
	return valueFromNode(doc.Value), nil
}

func (c *RESTClient) WriteValue(ctx context.Context, uri string, code string) error {
	form := url.Values{}
	form.Set("value", code)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/var"+uri,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	doc, err := c.do(req)
	if err != nil {
		return err
	}
	if doc.Error != nil {
		return &APIError{URI: doc.Error.URI, Message: strings.TrimSpace(doc.Error.Message)}
	}
	return nil
}

func (c *RESTClient) get(ctx context.Context, path string) (*etaDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *RESTClient) do(req *http.Request) (*etaDocument, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CommError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &CommError{Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}
	doc, err := c.decode(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 && doc.Error == nil {
		return nil, &CommError{Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return doc, nil
}

func (c *RESTClient) decode(r io.Reader) (*etaDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &CommError{Cause: err}
	}
	// some firmware revisions vary the default namespace declaration, which
	// breaks element matching. Strip it before decoding.
	text := strings.Replace(string(data), restNamespaceDecl, "", 1)

	dec := xml.NewDecoder(strings.NewReader(text))
	if c.portableParser {
		dec.Strict = false
		dec.AutoClose = xml.HTMLAutoClose
	}
	var doc etaDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return &doc, nil
}
