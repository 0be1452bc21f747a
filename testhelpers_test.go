// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

const (
	testCharWidth  = 5.0
	testSpaceWidth = 5.0
)

type word struct {
	x    float64
	text string
}

// glyphLine lays out each word one glyph per rune at a fixed advance.
// Spaces inside a word are contiguous and stay in the same cell.
func glyphLine(y float64, words ...word) []Glyph {
	var out []Glyph
	for _, w := range words {
		x := w.x
		for _, r := range w.text {
			out = append(out, Glyph{X: x, Y: y, Char: string(r), Width: testCharWidth, SpaceWidth: testSpaceWidth})
			x += testCharWidth
		}
	}
	return out
}

func glyphPage(lines ...[]Glyph) []Glyph {
	var out []Glyph
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}

// tableLine places up to four texts at the default column origins.
// Empty texts are skipped.
func tableLine(y float64, serial, test, result, spec string) []Glyph {
	var words []word
	for i, text := range []string{serial, test, result, spec} {
		if text == "" {
			continue
		}
		words = append(words, word{x: []float64{0, 120, 320, 450}[i], text: text})
	}
	return glyphLine(y, words...)
}

func rowOf(y float64, words ...word) Row {
	return Tokenize(glyphLine(y, words...))[0]
}
