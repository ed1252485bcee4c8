package eta_rest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSelectAllPoints(t *testing.T) {

	assert := assert.New(t)

	client := CreateTestClient()
	tree, _ := client.Menu(context.Background())

	descriptors, err := Select(context.Background(), client, tree, nil, NewClassifier(zap.NewNop()), zap.NewNop())
	assert.NoError(err)
	assert.Len(descriptors, 4)

	byURI := make(map[string]EntityDescriptor)
	for _, d := range descriptors {
		byURI[d.URI] = d
	}

	sw := byURI["/120/10101/0/0/12080"]
	assert.Equal(KindBinary, sw.Kind)
	assert.True(sw.Writable)
	assert.Equal("Kessel.Betriebsschalter", sw.Key)

	state := byURI["/120/10101/0/11109/0"]
	assert.Equal(KindText, state.Kind)
	assert.False(state.Writable)

	temp := byURI["/120/10101/0/11110/0"]
	assert.Equal(KindNumeric, temp.Kind)
	assert.Equal("°C", temp.Unit)
	assert.Equal(uint(1), temp.Decimals)

	buffer := byURI["/120/10201/0/11031/2016"]
	assert.Equal("Puffer.Eingänge.Puffer oben", buffer.Key)
}

func TestSelectConfiguredSubset(t *testing.T) {

	assert := assert.New(t)

	client := CreateTestClient()
	tree, _ := client.Menu(context.Background())

	uris := []string{"/120/10101/0/11110/0", "/1/2/3/4/5"}
	descriptors, err := Select(context.Background(), client, tree, uris, NewClassifier(zap.NewNop()), zap.NewNop())
	assert.NoError(err)
	assert.Len(descriptors, 1, "unknown uris are skipped")
	assert.Equal("/120/10101/0/11110/0", descriptors[0].URI)
}

func TestSelectReadFailureIsTerminal(t *testing.T) {

	assert := assert.New(t)

	client := CreateTestClient()
	tree, _ := client.Menu(context.Background())
	client.FailWith("/120/10101/0/11110/0", &CommError{})

	_, err := Select(context.Background(), client, tree, nil, NewClassifier(zap.NewNop()), zap.NewNop())
	assert.Error(err)
}
