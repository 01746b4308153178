package core

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"

	"github.com/huangsam/commitscore/schema"
)

// ratingPattern matches pylint's summary line. Case and spacing sensitive.
var ratingPattern = regexp.MustCompile(`^Your code has been rated at (-?[0-9.]+)/10`)

// ParseRating extracts the score from rating-style linter output.
// The first matching line wins; output without a rating scores 0.
func ParseRating(output []byte) float64 {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := ratingPattern.FindSubmatch(scanner.Bytes())
		if match == nil {
			continue
		}
		score, err := strconv.ParseFloat(string(match[1]), 64)
		if err != nil {
			// e.g. "1.2.3" satisfies the character class but is not a number
			continue
		}
		return score
	}
	return 0
}

// ScoreFromWarnings scores warning-count linter output against the linted content:
// 10 * (1 - warnings/lines), where lines counts the non-blank lines of content.
// Content with no non-blank lines scores 0. The result may be negative.
func ScoreFromWarnings(output []byte, content []byte) float64 {
	lines := countNonBlankLines(content)
	if lines == 0 {
		return 0
	}
	warnings := countNonBlankLines(output)
	return schema.MaxScore - float64(warnings)/float64(lines)*schema.MaxScore
}

// countNonBlankLines counts lines that hold anything besides whitespace.
func countNonBlankLines(data []byte) int {
	n := 0
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
