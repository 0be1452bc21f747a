// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"regexp"
	"strings"
)

// A fieldSegment takes one value out of a labeled line. The value runs
// from the current position to the first terminator found; with no
// terminator (or none present) it takes the rest of the line and the
// segment chain ends.
type fieldSegment struct {
	key        string
	until      []string // terminator labels, tried in order
	trimPrefix []string // leading words dropped from the value
	trimSuffix []string // trailing words dropped from the value
	clean      func(string) string
	// retry reports whether the next line can supply the value when this
	// segment comes out empty. A line used this way is consumed.
	retry func(next string) bool
}

// A fieldRule extracts one or more fields from a single line.
type fieldRule struct {
	name     string
	prefixes []string // the line starts with one of these, tried in order
	anchor   string   // or contains anchor; the value text starts after it
	suffix   string   // the line ends with suffix, which is cut off
	requires []string // substrings that must all be present
	segments []fieldSegment
}

var batchSizeRule = fieldRule{
	name:     "batch size line",
	prefixes: []string{"Batch Size"},
	segments: []fieldSegment{
		{key: FieldBatchSize, until: []string{"Protocol ID", "Protocol "}},
		{key: FieldProtocolID},
	},
}

// headerRules run in order over every merged header line. A field that
// already has a value is never overwritten.
var headerRules = []fieldRule{
	{
		name:     "product name",
		prefixes: []string{"Product Name"},
		segments: []fieldSegment{{key: FieldProductName}},
	},
	{
		name:     "product name, split label",
		prefixes: []string{"Product "},
		suffix:   " Name",
		segments: []fieldSegment{{key: FieldProductName}},
	},
	{
		name:     "product code line",
		prefixes: []string{"Product Code", "Product "},
		requires: []string{"B.No.", "AR No."},
		segments: []fieldSegment{
			{key: FieldProductCode, until: []string{"B.No."}},
			{key: FieldBatchNo, until: []string{"AR No."}},
			{key: FieldARNo},
		},
	},
	{
		name:     "specification line",
		prefixes: []string{"Specification ID", "Specification "},
		requires: []string{"Batch Size", "Protocol "},
		segments: []fieldSegment{
			{key: FieldSpecificationID, until: []string{"Batch Size"}},
			{key: FieldBatchSize, until: []string{"Protocol ID", "Protocol "}},
			{key: FieldProtocolID},
		},
	},
	batchSizeRule,
	{
		name:     "stp number",
		prefixes: []string{"STP No. "},
		segments: []fieldSegment{{key: FieldSTPNo}},
	},
	{
		name:     "manufacturing dates",
		prefixes: []string{"Mfg Date "},
		segments: []fieldSegment{
			{key: FieldMfgDate, until: []string{"Exp.Date"}},
			{key: FieldExpDate},
		},
	},
	{
		name:     "storage and schedule",
		prefixes: []string{"Storage Condition", "Storage "},
		requires: []string{"Schedule"},
		segments: []fieldSegment{
			{key: FieldStorageCondition, until: []string{"Schedule"}, clean: NormalizeStorageCondition, retry: looksLikeStorageCondition},
			{key: FieldSchedulePeriod, until: []string{"Schedule"}, trimPrefix: []string{"period"}},
			{key: FieldScheduleDate, trimPrefix: []string{"Date"}, trimSuffix: []string{"period Date"}},
		},
	},
	{
		name:     "sample and packing",
		prefixes: []string{"Sample orientation", "Sample "},
		requires: []string{"Packing"},
		segments: []fieldSegment{
			{key: FieldSampleOrientation, until: []string{"Packing"}},
			{key: FieldPackingType, until: []string{"Pack Size"}, trimPrefix: []string{"Type"}},
			{key: FieldPackSize},
		},
	},
}

// signOffRules run over lines set aside as footer noise.
var signOffRules = []fieldRule{
	{
		name:     "remarks",
		prefixes: []string{"Remarks:"},
		segments: []fieldSegment{{key: FieldRemarks, clean: StripFooterFragments}},
	},
	{
		name:     "signatures",
		anchor:   "Checked by",
		requires: []string{"Approved by"},
		segments: []fieldSegment{
			{key: FieldCheckedBy, until: []string{"Approved by"}, trimPrefix: []string{":"}, clean: StripFooterFragments},
			{key: FieldApprovedBy, trimPrefix: []string{":"}, clean: StripFooterFragments},
		},
	},
}

var (
	storageExactRe   = regexp.MustCompile(`^\d+C/\d+%RH$`)
	storageVariantRe = regexp.MustCompile(`^\d+°?C\s*/\s*\d+%\s*RH$`)
	hasDigitRe       = regexp.MustCompile(`\d`)
)

func looksLikeStorageCondition(s string) bool {
	return strings.Contains(s, "/") && strings.Contains(s, "%") && hasDigitRe.MatchString(s)
}

// apply runs r over lines[i] and returns how many following lines it
// consumed.
func (r fieldRule) apply(out *Fields, lines []string, i int) int {
	line := strings.TrimSpace(lines[i])
	for _, req := range r.requires {
		if !strings.Contains(line, req) {
			return 0
		}
	}

	var rest string
	switch {
	case len(r.prefixes) > 0:
		matched := false
		for _, p := range r.prefixes {
			if strings.HasPrefix(line, p) {
				rest = line[len(p):]
				matched = true
				break
			}
		}
		if !matched {
			return 0
		}
	case r.anchor != "":
		idx := strings.Index(line, r.anchor)
		if idx < 0 {
			return 0
		}
		rest = line[idx+len(r.anchor):]
	default:
		return 0
	}
	if r.suffix != "" {
		if !strings.HasSuffix(rest, r.suffix) {
			return 0
		}
		rest = rest[:len(rest)-len(r.suffix)]
	}

	consumed := 0
	rest = strings.TrimSpace(rest)
	for _, seg := range r.segments {
		value, next, more := seg.cut(rest)
		if value == "" && seg.retry != nil && i+1 < len(lines) {
			if cand := strings.TrimSpace(lines[i+1]); seg.retry(cand) {
				value = seg.finish(cand)
				consumed = 1
			}
		}
		if value != "" {
			out.SetIfAbsent(seg.key, value)
		}
		if !more {
			break
		}
		rest = next
	}
	return consumed
}

// cut splits text at the segment's terminator. more is false when the
// segment took the rest of the text.
func (s fieldSegment) cut(text string) (value, rest string, more bool) {
	for _, u := range s.until {
		if idx := strings.Index(text, u); idx >= 0 {
			return s.finish(text[:idx]), strings.TrimSpace(text[idx+len(u):]), true
		}
	}
	return s.finish(text), "", false
}

func (s fieldSegment) finish(v string) string {
	v = strings.TrimSpace(v)
	for _, p := range s.trimPrefix {
		if v == p {
			v = ""
		} else if strings.HasPrefix(v, p+" ") || (p == ":" && strings.HasPrefix(v, p)) {
			v = strings.TrimSpace(v[len(p):])
		}
	}
	for _, sfx := range s.trimSuffix {
		if v == sfx {
			v = ""
		} else if strings.HasSuffix(v, " "+sfx) {
			v = strings.TrimSpace(v[:len(v)-len(sfx)])
		}
	}
	if s.clean != nil && v != "" {
		v = s.clean(v)
	}
	return v
}

// FieldParser extracts labeled header fields from text lines.
type FieldParser struct {
	fields *Fields
}

// ParseHeaderFields reads the header block lines (text above the
// results table) and any sign-off lines set aside as footer noise.
func ParseHeaderFields(lines, signOff []string) *Fields {
	p := &FieldParser{fields: NewFields()}
	merged, footers := mergeLines(lines)
	p.extract(merged)
	p.fallback(merged)
	p.signOff(append(footers, signOff...))
	return p.fields
}

func (p *FieldParser) extract(lines []string) {
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if (storageExactRe.MatchString(line) || storageVariantRe.MatchString(line)) &&
			p.fields.SetIfAbsent(FieldStorageCondition, line) {
			continue
		}
		if n, ok := p.specificationContinuation(lines, i); ok {
			i += n
			continue
		}
		skip := 0
		for _, r := range headerRules {
			skip += r.apply(p.fields, lines, i)
		}
		i += skip
	}
}

// specificationContinuation handles a specification id wrapped onto the
// following line, possibly with a batch size line in between.
func (p *FieldParser) specificationContinuation(lines []string, i int) (int, bool) {
	line := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(line, "Specification ") || strings.Contains(line, "Batch") || p.fields.Has(FieldSpecificationID) {
		return 0, false
	}
	spec := strings.TrimSpace(strings.TrimPrefix(line, "Specification "))
	spec = strings.TrimPrefix(spec, "ID ")
	spec = strings.TrimSpace(spec)

	if i+1 >= len(lines) {
		return 0, false
	}
	next := strings.TrimSpace(lines[i+1])
	switch {
	case strings.HasPrefix(next, "ID "):
		p.fields.SetIfAbsent(FieldSpecificationID, spec+strings.TrimSpace(next[len("ID "):]))
		return 1, true

	case strings.Contains(next, "Batch Size"):
		if i+2 >= len(lines) {
			return 0, false
		}
		if strings.Contains(next, "Protocol") {
			batchSizeRule.applyText(p.fields, next[strings.Index(next, "Batch Size"):])
		}
		after := strings.TrimSpace(lines[i+2])
		if after == "" || strings.Contains(after, "Storage") || strings.Contains(after, "Schedule") || strings.Contains(after, "Sample") {
			return 0, false
		}
		p.fields.SetIfAbsent(FieldSpecificationID, spec+firstWord(strings.TrimPrefix(after, "ID ")))
		return 2, true

	case next != "" && !strings.Contains(next, "Protocol") && !strings.Contains(next, "Storage") && !strings.Contains(next, "Schedule"):
		p.fields.SetIfAbsent(FieldSpecificationID, spec+firstWord(next))
		return 1, true
	}
	return 0, false
}

// applyText runs r over a single line with no neighbours.
func (r fieldRule) applyText(out *Fields, line string) {
	r.apply(out, []string{line}, 0)
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " "); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

// fallbackFields are searched for leniently when the ordered rules
// left them unset.
var fallbackFields = []string{
	FieldProductName, FieldProductCode, FieldBatchNo, FieldARNo,
	FieldSpecificationID, FieldBatchSize, FieldProtocolID, FieldSTPNo,
	FieldMfgDate, FieldExpDate, FieldStorageCondition, FieldSchedulePeriod,
	FieldScheduleDate, FieldSampleOrientation, FieldPackingType, FieldPackSize,
}

var fallbackPatterns = compileFallbackPatterns()

// labelPattern matches label case-insensitively with flexible spacing.
func labelPattern(label string) string {
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}

func compileFallbackPatterns() map[string]*regexp.Regexp {
	terms := make([]string, 0, len(KnownFields))
	for _, k := range KnownFields {
		terms = append(terms, labelPattern(k))
	}
	stop := `(?:\s+(?:` + strings.Join(terms, "|") + `)|\s*$)`

	out := make(map[string]*regexp.Regexp, len(fallbackFields))
	for _, k := range fallbackFields {
		out[k] = regexp.MustCompile(`(?i)(?:^|\s)` + labelPattern(k) + `[\s:]+(.+?)` + stop)
	}
	return out
}

func (p *FieldParser) fallback(lines []string) {
	for _, k := range fallbackFields {
		if p.fields.Has(k) {
			continue
		}
		re := fallbackPatterns[k]
		for _, line := range lines {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			v := strings.TrimSpace(m[1])
			if k == FieldStorageCondition {
				v = NormalizeStorageCondition(v)
			}
			if v != "" && p.fields.SetIfAbsent(k, v) {
				break
			}
		}
	}
}

func (p *FieldParser) signOff(lines []string) {
	for i, line := range lines {
		line = strings.TrimSpace(line)
		for _, r := range signOffRules {
			r.apply(p.fields, lines, i)
		}
		if strings.HasPrefix(line, "Date:") {
			d := StripFooterFragments(strings.TrimSpace(line[len("Date:"):]))
			if d == "" {
				continue
			}
			if !p.fields.SetIfAbsent(FieldCheckDate, d) {
				p.fields.SetIfAbsent(FieldApprovalDate, d)
			}
		}
	}
}
