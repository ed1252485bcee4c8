package eta_rest

import (
	"context"
	"encoding/xml"
	"strings"
	"sync"
)

const testMenuDocument = `<eta version="1.0">
    <menu uri="/user/menu">
        <fub uri="/120/10101" name="Kessel">
            <object uri="/120/10101/0/0/12080" name="Betriebsschalter"/>
            <object uri="/120/10101/0/11109/0" name="Betriebszustand"/>
            <object uri="/120/10101/0/11110/0" name="Kesseltemperatur"/>
        </fub>
        <fub uri="/120/10201" name="Puffer">
            <object uri="/120/10201/0/0/10990" name="Eingänge">
                <object uri="/120/10201/0/11031/2016" name="Puffer oben"/>
            </object>
        </fub>
    </menu>
</eta>`

type WriteOp struct {
	URI  string
	Code string
}

// TestClient is an in-memory Client for tests: a fixed menu, mutable values,
// injectable per-uri failures and recorded writes.
type TestClient struct {
	mu       sync.Mutex
	tree     *ObjectTree
	values   map[string]Value
	failures map[string]error
	writes   []WriteOp
}

func CreateTestClient() *TestClient {
	var doc etaDocument
	if err := xml.NewDecoder(strings.NewReader(testMenuDocument)).Decode(&doc); err != nil {
		panic(err)
	}
	c := &TestClient{
		tree:     buildTree(doc.Menu),
		values:   make(map[string]Value),
		failures: make(map[string]error),
	}
	c.values["/120/10101/0/0/12080"] = Value{
		URI: "/120/10101/0/0/12080", Code: BinaryCodeOn, StrValue: "Ein", ScaleFactor: "1", DecPlaces: "0",
	}
	c.values["/120/10101/0/11109/0"] = Value{
		URI: "/120/10101/0/11109/0", Code: "4001", StrValue: "Heizen", ScaleFactor: "1", DecPlaces: "0",
	}
	c.values["/120/10101/0/11110/0"] = Value{
		URI: "/120/10101/0/11110/0", Code: "403", Unit: "°C", StrValue: "40,3°C", ScaleFactor: "10", DecPlaces: "1",
	}
	c.values["/120/10201/0/11031/2016"] = Value{
		URI: "/120/10201/0/11031/2016", Code: "640", Unit: "°C", StrValue: "64°C", ScaleFactor: "10", DecPlaces: "1",
	}
	return c
}

func (c *TestClient) CheckAPI(ctx context.Context) (string, error) {
	return SupportedAPIVersion, nil
}

func (c *TestClient) Menu(ctx context.Context) (*ObjectTree, error) {
	return c.tree, nil
}

func (c *TestClient) ReadValue(ctx context.Context, uri string) (*Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failures[uri]; ok {
		return nil, err
	}
	v, ok := c.values[uri]
	if !ok {
		return nil, &APIError{URI: uri, Message: "object not found"}
	}
	return &v, nil
}

func (c *TestClient) WriteValue(ctx context.Context, uri string, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failures[uri]; ok {
		return err
	}
	v, ok := c.values[uri]
	if !ok {
		return &APIError{URI: uri, Message: "object not found"}
	}
	v.Code = code
	if on, known := BinaryState(code); known {
		if on {
			v.StrValue = "Ein"
		} else {
			v.StrValue = "Aus"
		}
	}
	c.values[uri] = v
	c.writes = append(c.writes, WriteOp{URI: uri, Code: code})
	return nil
}

// SetValue replaces the stored value of a point.
func (c *TestClient) SetValue(uri string, v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[uri] = v
}

// FailWith makes ReadValue/WriteValue for uri return err; nil clears it.
func (c *TestClient) FailWith(uri string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, uri)
		return
	}
	c.failures[uri] = err
}

// Writes returns the recorded write operations in order.
func (c *TestClient) Writes() []WriteOp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]WriteOp(nil), c.writes...)
}
