// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenize groups glyphs into rows and cells.
//
// Glyphs sharing a rounded y form one row; rows come out top to bottom.
// Within a row glyphs are ordered by x and a new cell starts wherever
// the gap from the previous glyph's right edge exceeds half the current
// glyph's space width. Empty cells and rows are dropped. The output
// depends only on the input values, never on map iteration order.
func Tokenize(glyphs []Glyph) []Row {
	buckets := make(map[int][]Glyph)
	for _, g := range glyphs {
		key := int(math.Floor(g.Y + 0.5))
		buckets[key] = append(buckets[key], g)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		line := buckets[k]
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		if cells := splitCells(line); len(cells) > 0 {
			rows = append(rows, Row{Y: float64(k), Cells: cells})
		}
	}
	return rows
}

// TokenizePage tokenizes the glyphs of one page.
func TokenizePage(number int, glyphs []Glyph) Page {
	return Page{Number: number, Rows: Tokenize(glyphs)}
}

func splitCells(line []Glyph) []Cell {
	var (
		cells     []Cell
		word      strings.Builder
		wordX     float64
		prevRight float64
	)
	flush := func() {
		if text := norm.NFC.String(strings.TrimSpace(word.String())); text != "" {
			cells = append(cells, Cell{X: wordX, Text: text})
		}
		word.Reset()
	}

	for _, g := range line {
		if word.Len() > 0 && g.X-prevRight > g.SpaceWidth/2 {
			flush()
		}
		if word.Len() == 0 {
			if isBlank(g.Char) {
				continue
			}
			wordX = g.X
		}
		word.WriteString(g.Char)
		prevRight = g.X + g.Width
	}
	flush()
	return cells
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
