package wikiextract

import (
	"reflect"
	"testing"
)

const spongeExcerpt = `{{Automatic taxobox
| name = Sponge
| image = Aplysina archeri (Stove-pipe Sponge-pink variation).jpg
| image_caption =A [[Aplysina archeri|stove-pipe sponge]]
}}
[[File:Tide pools sponge.jpg|thumb|A sponge in a [[tide pool]]]]
'''Sponges''' are [[animal]]s of the [[phylum]] '''Porifera'''.
[[Image:Aphrocallistes vastus.jpg|thumb|left|A glass sponge]]
<!-- [[File:Commented out.jpg]] -->
[[file:Spongia officinalis.jpg|thumb]]
[[File:Tide pools sponge.jpg|thumb|again]]
`

func TestImageSearch(t *testing.T) {
	exp := []string{"Tide pools sponge.jpg",
		"Aphrocallistes vastus.jpg",
		"Spongia officinalis.jpg",
	}
	tree, err := Parse(spongeExcerpt)
	if err != nil {
		t.Fatalf("Error parsing sponge: %v", err)
	}
	found := Files(tree)

	if !reflect.DeepEqual(exp, found) {
		t.Fatalf("Expected %#v, got %#v", exp, found)
	}
}

func TestLinkSearch(t *testing.T) {
	exp := []string{"Aplysina archeri", "tide pool", "animal", "phylum"}
	tree, err := Parse(spongeExcerpt)
	if err != nil {
		t.Fatalf("Error parsing sponge: %v", err)
	}
	found := Links(tree)

	if !reflect.DeepEqual(exp, found) {
		t.Fatalf("Expected %#v, got %#v", exp, found)
	}
}

func TestImageUrling(t *testing.T) {
	tests := []struct {
		src string
		exp string
	}{
		{
			"BoredEncrustedShell.JPG",
			"http://upload.wikimedia.org/wikipedia/commons/1/10/BoredEncrustedShell.JPG",
		},
		{
			"AURI B-25.jpg",
			"http://upload.wikimedia.org/wikipedia/commons/9/93/AURI_B-25.jpg",
		},
	}

	for _, test := range tests {
		got := URLForFile(test.src)
		if got != test.exp {
			t.Fatalf("Expected %v, got %v", test.exp, got)
		}
	}
}
