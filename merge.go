// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"regexp"
	"strings"
)

// A mergeRule splices a wrapped label fragment (cur) back onto the line
// it belongs to (prev). ok is false when the rule does not fire.
type mergeRule struct {
	name  string
	merge func(cur, prev string) (merged string, ok bool)
}

var endsWithNumberRe = regexp.MustCompile(`\d+$`)

// mergeRules are tried in order against each line; the first that
// fires replaces the previous merged line. The bare "period" rule sits
// after the combined storage rules so it only applies when they fail.
var mergeRules = []mergeRule{
	{"storage condition period date", func(cur, prev string) (string, bool) {
		if cur != "Condition period Date" || !strings.HasPrefix(prev, "Storage ") {
			return "", false
		}
		return rewriteStorageLine(prev, "")
	}},
	{"storage condition with residue", func(cur, prev string) (string, bool) {
		if !strings.HasPrefix(cur, "Condition ") || !strings.Contains(cur, "period") || !strings.Contains(cur, "Date") ||
			!strings.HasPrefix(prev, "Storage ") {
			return "", false
		}
		return rewriteStorageLine(prev, residue(cur, "Condition", "period", "Date"))
	}},
	{"sample orientation type", func(cur, prev string) (string, bool) {
		if cur != "orientation Type" || !strings.HasPrefix(prev, "Sample ") {
			return "", false
		}
		return rewriteSampleLine(prev), true
	}},
	{"sample orientation type with residue", func(cur, prev string) (string, bool) {
		if !strings.HasPrefix(cur, "orientation ") || !strings.Contains(cur, "Type") || !strings.HasPrefix(prev, "Sample ") {
			return "", false
		}
		return appendText(rewriteSampleLine(prev), residue(cur, "orientation", "Type")), true
	}},
	{"product name or code", func(cur, prev string) (string, bool) {
		if (cur != "Name" && cur != "Code") || !strings.HasPrefix(prev, "Product ") {
			return "", false
		}
		return "Product " + cur + " " + strings.TrimSpace(prev[len("Product "):]), true
	}},
	{"id continuation", func(cur, prev string) (string, bool) {
		if !strings.HasPrefix(cur, "ID ") {
			return "", false
		}
		rest := strings.TrimSpace(cur[len("ID "):])
		switch {
		case strings.HasPrefix(prev, "Specification "):
			return "Specification ID " + strings.TrimSpace(prev[len("Specification "):]) + " " + rest, true
		case strings.Contains(prev, "Protocol ") && !strings.Contains(prev, "Protocol ID"):
			return strings.ReplaceAll(prev, "Protocol ", "Protocol ID ") + rest, true
		}
		return "", false
	}},
	{"storage condition label", labelContinuation("Storage", "Condition")},
	{"sample orientation label", labelContinuation("Sample", "orientation")},
	{"packing type", func(cur, prev string) (string, bool) {
		if !isWordOrPrefix(cur, "Type") || !strings.HasSuffix(prev, "Packing") {
			return "", false
		}
		return prev + " " + cur, true
	}},
	{"schedule period", func(cur, prev string) (string, bool) {
		if !isWordOrPrefix(cur, "period") || !strings.Contains(prev, "Schedule") {
			return "", false
		}
		return prev + " " + cur, true
	}},
	{"schedule date", func(cur, prev string) (string, bool) {
		if !isWordOrPrefix(cur, "Date") || !strings.Contains(prev, "Schedule") {
			return "", false
		}
		return prev + " " + cur, true
	}},
	{"pack size", func(cur, prev string) (string, bool) {
		if !isWordOrPrefix(cur, "Size") || !strings.HasSuffix(prev, "Pack") {
			return "", false
		}
		return prev + " " + cur, true
	}},
	{"vials unit", func(cur, prev string) (string, bool) {
		switch {
		case cur == "vials" && endsWithNumberRe.MatchString(prev):
			return prev + " vials", true
		case strings.HasPrefix(cur, "vials ") && strings.Contains(prev, "Batch Size") && endsWithNumberRe.MatchString(prev):
			return prev + " " + cur, true
		}
		return "", false
	}},
}

// mergeLines applies mergeRules in document order. Lines no rule claims
// that score as footer noise are returned separately in footers.
func mergeLines(lines []string) (merged, footers []string) {
	for _, raw := range lines {
		cur := strings.TrimSpace(raw)
		if cur == "" {
			continue
		}
		if len(merged) > 0 {
			prev := merged[len(merged)-1]
			if m, ok := applyMergeRules(cur, prev); ok {
				merged[len(merged)-1] = m
				continue
			}
		}
		if IsFooter(cur) {
			footers = append(footers, cur)
			continue
		}
		merged = append(merged, cur)
	}
	return merged, footers
}

func applyMergeRules(cur, prev string) (string, bool) {
	for _, r := range mergeRules {
		if m, ok := r.merge(cur, prev); ok {
			return m, true
		}
	}
	return "", false
}

// rewriteStorageLine turns "Storage X Schedule P Schedule D" into the
// fully labeled "Storage Condition X Schedule period P Schedule Date D".
func rewriteStorageLine(prev, extra string) (string, bool) {
	body := strings.TrimSpace(prev[len("Storage "):])
	first := strings.Index(body, "Schedule ")
	if first <= 0 {
		return "", false
	}
	cond := strings.TrimSpace(body[:first])
	afterFirst := strings.TrimSpace(body[first+len("Schedule "):])

	second := strings.Index(afterFirst, "Schedule ")
	if second <= 0 {
		return appendText("Storage Condition "+cond+" Schedule period "+afterFirst, extra), true
	}
	period := strings.TrimSpace(afterFirst[:second])
	date := appendText(strings.TrimSpace(afterFirst[second+len("Schedule "):]), extra)
	return "Storage Condition " + cond + " Schedule period " + period + " Schedule Date " + date, true
}

func rewriteSampleLine(prev string) string {
	s := strings.ReplaceAll(prev, "Sample ", "Sample orientation ")
	s = strings.ReplaceAll(s, "Packing ", "Packing Type ")
	return strings.ReplaceAll(s, "Packing Type Type ", "Packing Type ")
}

// labelContinuation joins a second label word wrapped under a bare
// first word, e.g. "Storage" followed by "Condition 25C/60%RH".
func labelContinuation(first, second string) func(cur, prev string) (string, bool) {
	return func(cur, prev string) (string, bool) {
		if prev != first || !isWordOrPrefix(cur, second) {
			return "", false
		}
		return appendText(first+" "+second, strings.TrimPrefix(cur, second)), true
	}
}

// isWordOrPrefix reports whether s is word or starts with word and a space.
func isWordOrPrefix(s, word string) bool {
	return s == word || strings.HasPrefix(s, word+" ")
}

// residue returns the words of s other than the given label words.
func residue(s string, labels ...string) string {
	drop := make(map[string]bool, len(labels))
	for _, l := range labels {
		drop[l] = true
	}
	var keep []string
	for _, w := range strings.Fields(s) {
		if drop[w] {
			drop[w] = false
			continue
		}
		keep = append(keep, w)
	}
	return strings.Join(keep, " ")
}
