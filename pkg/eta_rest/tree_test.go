package eta_rest

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeMenu(t *testing.T, doc string) *menuNode {
	t.Helper()
	var d etaDocument
	if err := xml.NewDecoder(strings.NewReader(doc)).Decode(&d); err != nil {
		t.Fatal(err)
	}
	if d.Menu == nil {
		t.Fatal("no menu in document")
	}
	return d.Menu
}

func TestSanitizeName(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("Part Absch", SanitizeName("Part.-Absch."))
	assert.Equal("Kessel", SanitizeName("Kessel"))
	assert.Equal("Ein Aus", SanitizeName("Ein- Aus"))
}

func TestBuildTreeNested(t *testing.T) {

	assert := assert.New(t)

	menu := decodeMenu(t, `<eta version="1.0">
        <menu uri="/user/menu">
            <fub uri="/24/10561" name="Kessel">
                <object uri="/24/10561/0/0/10990" name="Eingänge">
                    <object uri="/24/10561/0/11031/0" name="Wassermangel">
                        <object uri="/24/10561/0/11031/2012" name="Einschalt Verzögerung"/>
                        <object uri="/24/10561/0/11031/2016" name="Eingang"/>
                    </object>
                </object>
            </fub>
            <fub uri="/24/10571" name="Part.-Absch.">
                <object uri="/24/10571/0/0/14439" name="Verriegelung Hochspannungsnetzteil"/>
            </fub>
        </menu>
    </eta>`)

	tree := buildTree(menu)

	assert.Equal(0, tree.Skipped)
	assert.Equal(3, tree.Len(), "three leaf points indexed")

	p, ok := tree.Lookup("/24/10561/0/11031/2012")
	assert.True(ok)
	assert.Equal("Kessel.Eingänge.Wassermangel", p.Namespace, "sanitized namespace chain")
	assert.Equal("Kessel.Eingänge.Wassermangel.Einschalt Verzögerung", p.Key)
	assert.Equal("Kessel.Eingänge.Wassermangel.Einschalt Verzögerung", p.FullName, "display path keeps raw names")
	assert.Equal("Wassermangel", p.Fub().Name)

	// sanitized and raw paths diverge for names with dots/dashes
	p2, ok := tree.Lookup("/24/10571/0/0/14439")
	assert.True(ok)
	assert.Equal("Part Absch", p2.Namespace)
	assert.Equal("Part Absch.Verriegelung Hochspannungsnetzteil", p2.Key)
	assert.Equal("Part.-Absch..Verriegelung Hochspannungsnetzteil", p2.FullName)
}

func TestBuildTreeIndexRoundTrip(t *testing.T) {

	assert := assert.New(t)

	menu := decodeMenu(t, `<eta version="1.0">
        <menu uri="/user/menu">
            <fub uri="/1" name="A">
                <object uri="/1/1" name="P1"/>
                <object uri="/1/2" name="P2"/>
            </fub>
            <fub uri="/2" name="B">
                <object uri="/2/1" name="P1"/>
                <object uri="/2/2" name="P2"/>
            </fub>
            <fub uri="/3" name="C">
                <object uri="/3/1" name="P1"/>
                <object uri="/3/2" name="P2"/>
            </fub>
        </menu>
    </eta>`)

	tree := buildTree(menu)

	assert.Equal(6, tree.Len())
	assert.Len(tree.Points(), 6)
	for _, p := range tree.Points() {
		found, ok := tree.Lookup(p.URI)
		assert.True(ok)
		assert.Same(p, found)
	}
}

func TestBuildTreeSkipsMalformedSubtree(t *testing.T) {

	assert := assert.New(t)

	menu := decodeMenu(t, `<eta version="1.0">
        <menu uri="/user/menu">
            <fub uri="/1" name="Kessel">
                <object uri="/1/1" name="Gut"/>
                <object name="Ohne URI"/>
                <object uri="/1/3" name="Gruppe kaputt">
                    <object uri="/1/3/1" name=""/>
                    <object uri="/1/3/2" name="Noch gut"/>
                </object>
            </fub>
        </menu>
    </eta>`)

	tree := buildTree(menu)

	assert.Equal(2, tree.Skipped, "missing uri and missing name")
	assert.Equal(2, tree.Len(), "siblings of malformed nodes survive")
	_, ok := tree.Lookup("/1/3/2")
	assert.True(ok)
}

func TestBuildTreeMalformedFubDropsDescendants(t *testing.T) {

	assert := assert.New(t)

	menu := decodeMenu(t, `<eta version="1.0">
        <menu uri="/user/menu">
            <fub uri="" name="Kaputt">
                <object uri="/x/1" name="Weg"/>
                <object uri="/x/2" name="Auch weg"/>
            </fub>
            <fub uri="/2" name="Heil">
                <object uri="/2/1" name="Da"/>
            </fub>
        </menu>
    </eta>`)

	tree := buildTree(menu)

	assert.Equal(3, tree.Skipped, "fub node plus two descendants")
	assert.Equal(1, tree.Len())
}
