package wikiextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCode(t *testing.T) {
	text := `{{Infobox person|name=Ada}}
'''Ada Lovelace''' was an [[England|English]] [[mathematician]].<ref>{{cite book|title=Ada}}</ref>

== Early life ==
She was born in ''London''.<!-- hidden --> [[File:Ada.jpg|thumb|Portrait]]



<math>x^2</math>[[Category:Mathematicians]]`

	got := mustParse(t, text).StripCode()
	assert.Equal(t, "Ada Lovelace was an English mathematician.\n\nEarly life\nShe was born in London.", got)
}

func TestStripCodeEntities(t *testing.T) {
	got := mustParse(t, "fish &amp; chips <ref name=\"x\"/>tail").StripCode()
	assert.Equal(t, "fish & chips tail", got)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"ada", "lovelace", "was", "born", "in", "1815"},
		Words("Ada Lovelace was born, in 1815."))
	assert.Empty(t, Words(" ... "))
}
