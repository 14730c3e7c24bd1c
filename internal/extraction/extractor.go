// Package extraction recovers a JSON object from raw LLM output.
// Vision models wrap JSON in markdown fences, prose and half-valid
// syntax; the extractor tries progressively more aggressive strategies
// and reports which one succeeded so confidence scoring can discount
// the result.
package extraction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/reddyfit/bodyscan/internal/errors"
)

// Strategy names, ordered from least to most aggressive. The name of
// the successful strategy feeds the confidence scorer.
const (
	StrategyDirectParse   = "direct_parse"
	StrategyMarkdownStrip = "markdown_strip"
	StrategyRegexExtract  = "regex_extract"
	StrategyErrorFix      = "error_fix"
)

var (
	fencePattern  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

	// single-quoted keys/values and trailing commas, the two most
	// common model-generated JSON defects
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	singleQuoted  = regexp.MustCompile(`'([^']*)'`)
)

// Extract parses a JSON object out of raw model output. It returns
// the decoded map and the name of the strategy that succeeded.
func Extract(raw string) (map[string]interface{}, string, error) {
	type attempt struct {
		name      string
		transform func(string) (string, bool)
	}

	attempts := []attempt{
		{StrategyDirectParse, func(s string) (string, bool) {
			return strings.TrimSpace(s), true
		}},
		{StrategyMarkdownStrip, stripMarkdown},
		{StrategyRegexExtract, extractObject},
		{StrategyErrorFix, fixCommonErrors},
	}

	for _, a := range attempts {
		candidate, ok := a.transform(raw)
		if !ok {
			continue
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return parsed, a.name, nil
		}
	}

	return nil, "", errors.ExternalError(nil, "no extraction strategy produced valid JSON")
}

// stripMarkdown pulls the content out of a fenced code block
func stripMarkdown(raw string) (string, bool) {
	matches := fencePattern.FindStringSubmatch(raw)
	if matches == nil {
		return "", false
	}
	return strings.TrimSpace(matches[1]), true
}

// extractObject grabs the outermost brace-delimited span
func extractObject(raw string) (string, bool) {
	match := objectPattern.FindString(raw)
	if match == "" {
		return "", false
	}
	return match, true
}

// fixCommonErrors repairs trailing commas and single-quoted strings in
// the outermost object span.
func fixCommonErrors(raw string) (string, bool) {
	candidate, ok := extractObject(raw)
	if !ok {
		candidate = strings.TrimSpace(raw)
		if candidate == "" {
			return "", false
		}
	}
	candidate = trailingComma.ReplaceAllString(candidate, "$1")
	candidate = singleQuoted.ReplaceAllString(candidate, `"$1"`)
	return candidate, true
}
