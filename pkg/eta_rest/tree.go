package eta_rest

import "strings"

// Point is a single addressable measurement/control endpoint inside a Fub.
// Points are created during the menu parse and never mutated afterwards; a
// re-discovery replaces the whole tree.
type Point struct {
	URI           string
	Name          string
	SanitizedName string
	// Namespace is the sanitized dotted path of the containing Fub.
	Namespace string
	// Key is Namespace + "." + SanitizedName, safe for composite ids.
	Key string
	// FullName is the display path, raw names along the whole chain.
	FullName string

	fub *Fub
}

// Fub returns the containing functional unit. The reference is for lookup
// only, the Fub owns the Point.
func (p *Point) Fub() *Fub {
	return p.fub
}

// Fub is a functional unit of the controller menu: a named group that
// contains Points and/or nested Fubs.
type Fub struct {
	URI           string
	Name          string
	SanitizedName string
	// Namespace is the sanitized dotted path including this Fub.
	Namespace string
	// DisplayPath is the same path with raw names, for presentation.
	DisplayPath string

	Points []*Point
	Fubs   []*Fub
}

// ObjectTree is the parsed menu with a flat uri index for O(1) lookup.
type ObjectTree struct {
	Fubs []*Fub
	// Skipped counts menu nodes dropped because of missing uri/name
	// attributes, descendants included.
	Skipped int

	index map[string]*Point
}

func (t *ObjectTree) Lookup(uri string) (*Point, bool) {
	p, ok := t.index[uri]
	return p, ok
}

func (t *ObjectTree) Len() int {
	return len(t.index)
}

// Points returns all leaf points in menu order.
func (t *ObjectTree) Points() []*Point {
	var out []*Point
	var walk func(f *Fub)
	walk = func(f *Fub) {
		out = append(out, f.Points...)
		for _, sub := range f.Fubs {
			walk(sub)
		}
	}
	for _, f := range t.Fubs {
		walk(f)
	}
	return out
}

// SanitizeName makes a menu name safe for composite keys: dots removed,
// dashes turned into spaces, whitespace collapsed.
func SanitizeName(name string) string {
	s := strings.ReplaceAll(name, ".", "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

func buildTree(menu *menuNode) *ObjectTree {
	t := &ObjectTree{index: make(map[string]*Point)}
	for _, node := range menu.Fubs {
		if fub := t.buildFub(node, nil); fub != nil {
			t.Fubs = append(t.Fubs, fub)
		}
	}
	return t
}

func (t *ObjectTree) buildFub(node objectNode, parent *Fub) *Fub {
	if node.URI == "" || node.Name == "" {
		t.Skipped += countNodes(node)
		return nil
	}
	f := &Fub{
		URI:           node.URI,
		Name:          node.Name,
		SanitizedName: SanitizeName(node.Name),
	}
	if parent == nil {
		f.Namespace = f.SanitizedName
		f.DisplayPath = f.Name
	} else {
		f.Namespace = parent.Namespace + "." + f.SanitizedName
		f.DisplayPath = parent.DisplayPath + "." + f.Name
	}
	for _, child := range node.Objects {
		if len(child.Objects) > 0 {
			if sub := t.buildFub(child, f); sub != nil {
				f.Fubs = append(f.Fubs, sub)
			}
			continue
		}
		if p := t.buildPoint(child, f); p != nil {
			f.Points = append(f.Points, p)
		}
	}
	return f
}

func (t *ObjectTree) buildPoint(node objectNode, parent *Fub) *Point {
	if node.URI == "" || node.Name == "" {
		t.Skipped++
		return nil
	}
	sanitized := SanitizeName(node.Name)
	p := &Point{
		URI:           node.URI,
		Name:          node.Name,
		SanitizedName: sanitized,
		Namespace:     parent.Namespace,
		Key:           parent.Namespace + "." + sanitized,
		FullName:      parent.DisplayPath + "." + node.Name,
		fub:           parent,
	}
	t.index[p.URI] = p
	return p
}

func countNodes(node objectNode) int {
	n := 1
	for _, child := range node.Objects {
		n += countNodes(child)
	}
	return n
}
