// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"regexp"
	"strings"
)

// FooterThreshold is the score at which a line is treated as footer.
const FooterThreshold = 2

const (
	strongSignal = FooterThreshold
	weakSignal   = FooterThreshold / 2
)

type footerSignal struct {
	name   string
	weight int
	match  func(l string) bool
}

var (
	signOffDateRe   = regexp.MustCompile(`\bdate:`)
	formatNoRe      = regexp.MustCompile(`\bformat no\.`)
	companySuffixRe = regexp.MustCompile(`(pharma|pharmaceuticals?)\s+(limited|ltd\.?|pvt\.?)`)
	plotNoRe        = regexp.MustCompile(`plot\s+(no\.?|nos?\.?|number)`)
	postalTailRe    = regexp.MustCompile(`\d{5,6}\s*$`)
	placePostalRe   = regexp.MustCompile(`[a-z\s]+\s*-\s*\d{5,6}`)
	personNameRe    = regexp.MustCompile(`[a-z]+\.[a-z]+\s+[a-z]+`)
	monthDateRe     = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{4}`)
	clockTimeRe     = regexp.MustCompile(`\d{1,2}:\d{2}\s*(am|pm)`)
)

var signOffPrefixes = []string{"remarks", "comment(s)"}

var signOffLabels = []string{
	"checked by", "approved by", "checked on", "approved on",
	"printed by", "printed on", "copy no", "page no",
}

var companyKeywords = []string{"pharma", "limited", "ltd", "pvt", "inc", "corporation", "corp", "llc", "llp"}

var addressKeywords = []string{
	"plot", "unit", "suite", "floor", "building", "street", "road", "avenue",
	"city", "state", "province", "country", "district", "dist", "mandal",
}

// footerSignals are scored against the trimmed, lowercased line.
var footerSignals = []footerSignal{
	{"sign-off label", strongSignal, func(l string) bool {
		for _, p := range signOffPrefixes {
			if strings.HasPrefix(l, p) {
				return true
			}
		}
		for _, s := range signOffLabels {
			if strings.Contains(l, s) {
				return true
			}
		}
		return signOffDateRe.MatchString(l)
	}},
	{"document control", strongSignal, func(l string) bool {
		return formatNoRe.MatchString(l) || strings.Contains(l, "generated electronically")
	}},
	{"company suffix", strongSignal, companySuffixRe.MatchString},
	{"plot number", strongSignal, plotNoRe.MatchString},
	{"postal code tail", strongSignal, postalTailRe.MatchString},
	{"place and postal code", strongSignal, placePostalRe.MatchString},
	{"comma separated address", strongSignal, func(l string) bool {
		return commaParts(l) >= 3
	}},
	{"company and address keywords", strongSignal, func(l string) bool {
		company := countContained(l, companyKeywords)
		address := countContained(l, addressKeywords)
		return company >= 2 || (company >= 1 && address >= 1)
	}},
	{"person name", weakSignal, personNameRe.MatchString},
	{"month date", weakSignal, monthDateRe.MatchString},
	{"clock time", weakSignal, clockTimeRe.MatchString},
}

// FooterScore sums the weights of every footer signal found in line.
func FooterScore(line string) int {
	l := strings.ToLower(strings.TrimSpace(line))
	if l == "" {
		return 0
	}
	score := 0
	for _, s := range footerSignals {
		if s.match(l) {
			score += s.weight
		}
	}
	return score
}

// IsFooter reports whether line is page furniture: sign-off labels,
// company name and address blocks, print stamps and the like.
func IsFooter(line string) bool {
	return FooterScore(line) >= FooterThreshold
}

// commaParts counts comma separated parts the way a split that drops
// trailing empty parts would.
func commaParts(l string) int {
	if !strings.Contains(l, ",") {
		return 0
	}
	parts := strings.Split(l, ",")
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	return n
}

func countContained(l string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(l, k) {
			n++
		}
	}
	return n
}

// footerTails cut a field from the first footer fragment to the end.
var footerTails = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*Remarks:.*$`),
	regexp.MustCompile(`(?i)\s*Comment\(s\):.*$`),
	regexp.MustCompile(`(?i)\s*Checked by.*$`),
	regexp.MustCompile(`(?i)\s*Approved by.*$`),
	regexp.MustCompile(`(?i)\s*Checked on.*$`),
	regexp.MustCompile(`(?i)\s*Approved on.*$`),
	regexp.MustCompile(`(?i)\s*Printed by:.*$`),
	regexp.MustCompile(`(?i)\s*Printed on:.*$`),
	regexp.MustCompile(`(?i)\s*Copy no\.?:.*$`),
	regexp.MustCompile(`(?i)\s*Page no\.?:.*$`),
	regexp.MustCompile(`\s*Date:.*$`),
	regexp.MustCompile(`(?i)\s*[A-Za-z\s]+(Pharma|Pharmaceuticals?)\s+(Limited|Ltd\.?|Pvt\.?).*$`),
	regexp.MustCompile(`(?i)\s*[A-Za-z\s]+,\s*Plot\s+(no\.?|Nos?\.?).*$`),
	regexp.MustCompile(`(?i)\s*[A-Za-z\s]+\s*-\s*\d{5,6}\s*$`),
	regexp.MustCompile(`(?i)\s*[A-Za-z\s]+,\s*[A-Za-z\s]+\s*-\s*\d{5,6}.*$`),
}

// StripFooterFragments removes footer text that ran into the tail of a
// table field, such as "... Remarks: none" or a company address.
func StripFooterFragments(s string) string {
	t := s
	for _, re := range footerTails {
		t = re.ReplaceAllString(t, "")
	}
	return strings.TrimSpace(t)
}
