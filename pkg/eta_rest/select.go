package eta_rest

import (
	"context"

	"go.uber.org/zap"
)

// EntityDescriptor is what a selected point becomes for the outside world:
// enough to register a display entity without touching the tree again.
type EntityDescriptor struct {
	URI      string
	Name     string
	Key      string
	FullName string
	Unit     string
	Kind     SensorKind
	Writable bool
	Decimals uint
}

// Select resolves a set of selected point uris against the tree, reads each
// point once and classifies it. An empty uri list selects every leaf point.
// A read failure is terminal: without classification no entity can be
// registered, and selection runs during setup where the caller retries
// wholesale. Unknown uris are logged and skipped.
func Select(ctx context.Context, client Client, tree *ObjectTree, uris []string, classifier *Classifier, logger *zap.Logger) ([]EntityDescriptor, error) {
	var points []*Point
	if len(uris) == 0 {
		points = tree.Points()
	} else {
		for _, uri := range uris {
			p, ok := tree.Lookup(uri)
			if !ok {
				logger.Warn("selected point not present in menu", zap.String("uri", uri))
				continue
			}
			points = append(points, p)
		}
	}

	descriptors := make([]EntityDescriptor, 0, len(points))
	for _, p := range points {
		value, err := client.ReadValue(ctx, p.URI)
		if err != nil {
			return nil, err
		}
		kind := classifier.Classify(*value)
		descriptors = append(descriptors, EntityDescriptor{
			URI:      p.URI,
			Name:     p.Name,
			Key:      p.Key,
			FullName: p.FullName,
			Unit:     value.Unit,
			Kind:     kind,
			Writable: kind == KindBinary,
			Decimals: value.Decimals(),
		})
	}
	return descriptors, nil
}
