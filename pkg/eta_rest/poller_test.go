package eta_rest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// countingClient records the number of concurrent ReadValue calls.
type countingClient struct {
	mu         sync.Mutex
	inFlight   int32
	maxSeen    int32
	delay      time.Duration
	failing    map[string]error
	block      chan struct{}
	callsTotal atomic.Int32
}

func (c *countingClient) CheckAPI(ctx context.Context) (string, error) {
	return SupportedAPIVersion, nil
}

func (c *countingClient) Menu(ctx context.Context) (*ObjectTree, error) {
	return nil, errors.New("not implemented")
}

func (c *countingClient) ReadValue(ctx context.Context, uri string) (*Value, error) {
	cur := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)
	c.mu.Lock()
	if cur > c.maxSeen {
		c.maxSeen = cur
	}
	failErr := c.failing[uri]
	c.mu.Unlock()
	c.callsTotal.Add(1)

	if c.block != nil {
		<-c.block
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if failErr != nil {
		return nil, failErr
	}
	return &Value{URI: uri, Code: "100", Unit: "W", ScaleFactor: "1"}, nil
}

func (c *countingClient) WriteValue(ctx context.Context, uri string, code string) error {
	return errors.New("not implemented")
}

func testURIs(n int) []string {
	uris := make([]string, n)
	for i := range uris {
		uris[i] = fmt.Sprintf("/test/%d", i)
	}
	return uris
}

func TestPollerConcurrencyCap(t *testing.T) {

	assert := assert.New(t)

	client := &countingClient{delay: 5 * time.Millisecond}
	poller := NewPoller(client, testURIs(20), 3, zap.NewNop())

	snapshot, stats, err := poller.Poll(context.Background())
	assert.NoError(err)
	assert.Equal(20, stats.Succeeded)
	assert.Len(snapshot, 20)
	assert.LessOrEqual(client.maxSeen, int32(3), "never more than 3 outstanding requests")
	assert.Equal(int32(20), client.callsTotal.Load())
}

func TestPollerPartialFailureKeepsPreviousEntry(t *testing.T) {

	assert := assert.New(t)

	client := CreateTestClient()
	uris := []string{"/120/10101/0/11110/0", "/120/10201/0/11031/2016"}
	poller := NewPoller(client, uris, 3, zap.NewNop())

	first, stats, err := poller.Poll(context.Background())
	assert.NoError(err)
	assert.Equal(2, stats.Succeeded)
	assert.Equal("403", first["/120/10101/0/11110/0"].Code)

	// second point starts failing, first one changes
	client.FailWith("/120/10201/0/11031/2016", &CommError{Cause: errors.New("timeout")})
	client.SetValue("/120/10101/0/11110/0", Value{
		URI: "/120/10101/0/11110/0", Code: "420", Unit: "°C", ScaleFactor: "10",
	})

	second, stats, err := poller.Poll(context.Background())
	assert.NoError(err)
	assert.Equal(1, stats.Succeeded)
	assert.Equal(1, stats.Failed)
	assert.Equal("420", second["/120/10101/0/11110/0"].Code, "fresh value")
	assert.Equal("640", second["/120/10201/0/11031/2016"].Code, "previous value preserved")
}

func TestPollerAllFailedStillPublishes(t *testing.T) {

	assert := assert.New(t)

	client := CreateTestClient()
	uris := []string{"/120/10101/0/11110/0", "/120/10201/0/11031/2016"}
	poller := NewPoller(client, uris, 3, zap.NewNop())

	_, _, err := poller.Poll(context.Background())
	assert.NoError(err)

	failure := &CommError{Cause: errors.New("connection refused")}
	client.FailWith("/120/10101/0/11110/0", failure)
	client.FailWith("/120/10201/0/11031/2016", failure)

	snapshot, stats, err := poller.Poll(context.Background())
	assert.NoError(err)
	assert.Equal(0, stats.Succeeded)
	assert.Equal(2, stats.Failed)
	assert.Len(snapshot, 2, "previous values survive a total outage")
	assert.Equal(snapshot, poller.Snapshot())
}

func TestPollerRefusesOverlappingCycles(t *testing.T) {

	assert := assert.New(t)

	client := &countingClient{block: make(chan struct{})}
	poller := NewPoller(client, testURIs(2), 3, zap.NewNop())

	done := make(chan struct{})
	go func() {
		_, _, _ = poller.Poll(context.Background())
		close(done)
	}()

	// wait until the first cycle is in flight
	for atomic.LoadInt32(&client.inFlight) == 0 {
		time.Sleep(time.Millisecond)
	}

	_, _, err := poller.Poll(context.Background())
	assert.ErrorIs(err, ErrCycleRunning)

	close(client.block)
	<-done

	// and a later cycle runs fine again
	_, stats, err := poller.Poll(context.Background())
	assert.NoError(err)
	assert.Equal(2, stats.Succeeded)
}

func TestPollerSnapshotIsACopy(t *testing.T) {

	assert := assert.New(t)

	client := CreateTestClient()
	poller := NewPoller(client, []string{"/120/10101/0/11110/0"}, 3, zap.NewNop())

	_, _, err := poller.Poll(context.Background())
	assert.NoError(err)

	snap := poller.Snapshot()
	snap["/120/10101/0/11110/0"] = Value{Code: "tampered"}

	assert.Equal("403", poller.Snapshot()["/120/10101/0/11110/0"].Code)
}
