package wikiextract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageViews = `en Main_Page 242332 4737756101
en Special:Search 1025 7736553
en Berlin 30 1234
de Berlin 99 3456
en Berlin 12 456
en Caf%C3%A9 5 100
en Broken_line 7
en Bad%ZZescape 1 1
en 100%_Pure 5 0
en NotANumber x 1
en.m Berlin 1000 1
en AC%2FDC 8 80
`

func TestPageViewCounter(t *testing.T) {
	c := NewPageViewCounter("en")
	require.NoError(t, c.ReadLog(strings.NewReader(testPageViews)))

	assert.EqualValues(t, 12, c.Lines)
	assert.EqualValues(t, 3, c.Skipped)
	assert.Equal(t, 6, c.Len())

	assert.EqualValues(t, 242332, c.Count("Main Page"))
	assert.EqualValues(t, 42, c.Count("Berlin"))
	assert.EqualValues(t, 5, c.Count("Café"))
	assert.EqualValues(t, 8, c.Count("AC/DC"))
	assert.EqualValues(t, 5, c.Count("100% Pure"))
	assert.EqualValues(t, 1, c.Count("Bad%ZZescape"))
	assert.Zero(t, c.Count("Special:Search"))

	assert.Equal(t, []PageView{
		{Title: "Main Page", Count: 242332},
		{Title: "Berlin", Count: 42},
	}, c.Top(2))
	assert.Len(t, c.Top(0), 6)
	assert.Len(t, c.Top(100), 6)
}

func TestPageViewCounterTies(t *testing.T) {
	c := NewPageViewCounter("de")
	require.NoError(t, c.ReadLog(strings.NewReader("de B 1 1\nde A 1 1\nde C 2 1\n")))
	assert.Equal(t, []PageView{{"C", 2}, {"A", 1}, {"B", 1}}, c.Top(0))
}
