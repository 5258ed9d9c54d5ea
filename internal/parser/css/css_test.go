package css

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	sheet, err := NewParser(nil).ParseString(`
/* headings */
h1, H2 { font-size: 24pt; margin-bottom: 6pt }
p {
	color: #333;
	margin: 0 0 12pt 0;
	font-family: "Times", serif;
}
`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)

	assert.Equal(t, []string{"h1", "H2"}, sheet.Rules[0].Selectors)
	require.Len(t, sheet.Rules[0].Declarations, 2)
	assert.Equal(t, "font-size", sheet.Rules[0].Declarations[0].Property)
	assert.Equal(t, "24pt", sheet.Rules[0].Declarations[0].Value)
	assert.Equal(t, "6pt", sheet.Rules[0].Declarations[1].Value)

	p := sheet.Rules[1]
	assert.Equal(t, []string{"p"}, p.Selectors)
	v, ok := p.Value("margin")
	require.True(t, ok)
	assert.Equal(t, "0 0 12pt 0", v)
	v, ok = p.Value("color")
	require.True(t, ok)
	assert.Equal(t, "#333", v)
}

func TestImportant(t *testing.T) {
	sheet, err := NewParser(nil).ParseString(`li { line-height: 24pt !important; line-height: 20pt }`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)

	decls := sheet.Rules[0].Declarations
	require.Len(t, decls, 2)
	assert.True(t, decls[0].Important)
	assert.Equal(t, "24pt", decls[0].Value)
	assert.False(t, decls[1].Important)

	v, ok := sheet.Rules[0].Value("line-height")
	require.True(t, ok)
	assert.Equal(t, "24pt", v)
}

func TestFunctionValues(t *testing.T) {
	sheet, err := NewParser(nil).Parse(strings.NewReader(`div { color: rgb(10, 20, 30) }`))
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)
	v, ok := sheet.Rules[0].Value("color")
	require.True(t, ok)
	assert.Equal(t, "rgb(10,20,30)", v)
}

func TestAtRulesSkipped(t *testing.T) {
	sheet, err := NewParser(nil).ParseString(`
@import "other.css";
@media print { p { color: red } }
ul { margin-left: 20pt }
`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, []string{"ul"}, sheet.Rules[0].Selectors)
}

func TestEmpty(t *testing.T) {
	sheet, err := NewParser(nil).ParseString("")
	require.NoError(t, err)
	assert.Empty(t, sheet.Rules)

	_, ok := (&Rule{}).Value("color")
	assert.False(t, ok)
}
