package geom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.75in", 54},
		{"0.5in", 36},
		{"12pt", 12},
		{"8px", 8},
		{"10", 10},
		{"25.4mm", 72},
		{"2.54cm", 72},
		{" 1IN ", 72},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseLengthMalformed(t *testing.T) {
	for _, in := range []string{"", "in", "12furlongs", "-", "abc"} {
		_, err := ParseLength(in)
		assert.ErrorIs(t, err, ErrMalformedShorthand, "input %q", in)
	}
}

func TestParseBorderSide(t *testing.T) {
	side, err := ParseBorderSide("1px solid #aaaaaaff")
	require.NoError(t, err)
	assert.Equal(t, BorderSide{Width: 1, Style: "solid", Color: "#aaaaaaff"}, side)

	side, err = ParseBorderSide("0.5pt DASHED rgb(1,2,3)")
	require.NoError(t, err)
	assert.Equal(t, BorderSide{Width: 0.5, Style: "dashed", Color: "rgb(1,2,3)"}, side)

	side, err = ParseBorderSide("2 dotted #abc")
	require.NoError(t, err)
	assert.Equal(t, 2.0, side.Width)
	assert.Equal(t, "dotted", side.Style)
}

func TestParseBorderSideMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"1px solid",
		"1px solid #aaa extra",
		"wide solid #aaa",
		"1px groovy #aaa",
		"1px solid #zzzzzz",
		"-1px solid #aaa",
	} {
		side, err := ParseBorderSide(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrMalformedShorthand))
		assert.Equal(t, BorderSide{}, side, "no partial side for %q", in)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, KindMalformedShorthand, pe.Kind)
		assert.Equal(t, in, pe.Input)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#008888ff")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 0, G: 0x88, B: 0x88, A: 0xff}, c)

	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, RGBA{0xff, 0xff, 0xff, 0xff}, c)

	c, err = ParseColor("#22222280")
	require.NoError(t, err)
	assert.Equal(t, "#22222280", c.Hex())

	c, err = ParseColor("rgb(10, 20, 30)")
	require.NoError(t, err)
	assert.Equal(t, RGBA{10, 20, 30, 0xff}, c)

	_, err = ParseColor("rgb(10, 20, 300)")
	assert.ErrorIs(t, err, ErrMalformedShorthand)
	c, err = ParseColor("Red")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000ff", c.Hex())

	_, err = ParseColor("teal")
	assert.ErrorIs(t, err, ErrMalformedShorthand)
}

func TestMargin(t *testing.T) {
	var m Margin
	m.SetAll(8)
	assert.Equal(t, UniformMargin(8), m)
	m.Left = 2
	assert.Equal(t, Margin{Top: 8, Right: 8, Bottom: 8, Left: 2}, m)
	assert.Equal(t, 10.0, m.Horizontal())
	assert.Equal(t, 16.0, m.Vertical())
}

func TestParseMargin(t *testing.T) {
	tests := []struct {
		in   string
		want Margin
	}{
		{"8", UniformMargin(8)},
		{"4 8", Margin{4, 8, 4, 8}},
		{"4 8 2", Margin{4, 8, 2, 8}},
		{"4 8 2 1", Margin{4, 8, 2, 1}},
		{"1in 0", Margin{72, 0, 72, 0}},
	}
	for _, tt := range tests {
		got, err := ParseMargin(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"", "1 2 3 4 5", "1 x"} {
		_, err := ParseMargin(in)
		assert.ErrorIs(t, err, ErrMalformedShorthand, in)
	}
}

func TestHashSourceDeterministic(t *testing.T) {
	a := HashSource("https://example.com/logo.png")
	b := HashSource("https://example.com/logo.png")
	c := HashSource("https://example.com/other.png")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	ref := NewImageRef("logo.png")
	assert.Equal(t, HashSource("logo.png"), ref.Hash)
	assert.Equal(t, "logo.png", ref.Src)
}

func TestFont(t *testing.T) {
	f := DefaultFont()
	assert.Equal(t, 12.0, f.Size)
	assert.Equal(t, 16.0, f.EffectiveLineHeight())

	g := f.Clone()
	g.Size = 20
	assert.Equal(t, 12.0, f.Size)

	unset := &Font{Size: 10}
	assert.Equal(t, 1.0, unset.EffectiveLineHeight())

	assert.True(t, (&Font{Weight: "bold"}).Bold())
	assert.True(t, (&Font{Style: "italic"}).Italic())
	assert.False(t, f.Bold())
}

func TestBorderClone(t *testing.T) {
	b := UniformBorder(BorderSide{Width: 1, Style: "solid", Color: "#000"})
	c := b.Clone()
	c.Top.Width = 3
	assert.Equal(t, 1.0, b.Top.Width)
	assert.Nil(t, (*Border)(nil).Clone())
}
