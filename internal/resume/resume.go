// Package resume extracts candidate contact details from a plain-text
// resume file. Extraction is best effort: a field that cannot be found is
// left empty and the intake prompts fall back to manual entry. Extracted
// values still pass through the same validation as typed ones.
package resume

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarpov/interview-runner/internal/interview"
)

var (
	emailPattern = regexp.MustCompile(`[^\s@,;:<>()]+@[^\s@,;:<>()]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?[0-9][0-9\s\-()]{8,15}`)

	// Lines like "Name: Jane Doe" win over positional guessing.
	nameLabelPattern = regexp.MustCompile(`(?i)^name\s*[:\-]\s*(.+)$`)
)

const maxScanLines = 200

// Extract reads the file and pulls out whatever contact details it can
// recognize.
func Extract(logger *zap.Logger, path string) (interview.CandidateInfo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return interview.CandidateInfo{}, fmt.Errorf("open resume file: %w", err)
	}
	defer file.Close()

	var info interview.CandidateInfo
	var firstNonEmpty string

	scanner := bufio.NewScanner(file)
	for lines := 0; scanner.Scan() && lines < maxScanLines; lines++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if firstNonEmpty == "" {
			firstNonEmpty = line
		}

		if info.Name == "" {
			if m := nameLabelPattern.FindStringSubmatch(line); m != nil {
				info.Name = strings.TrimSpace(m[1])
			}
		}
		if info.Email == "" {
			info.Email = emailPattern.FindString(line)
		}
		if info.Phone == "" {
			if m := phonePattern.FindString(line); digitCount(m) >= 9 {
				info.Phone = strings.TrimSpace(m)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return interview.CandidateInfo{}, fmt.Errorf("read resume file: %w", err)
	}

	if info.Name == "" && looksLikeName(firstNonEmpty) {
		info.Name = firstNonEmpty
	}

	logger.Debug("extracted resume details",
		zap.Bool("name", info.Name != ""),
		zap.Bool("email", info.Email != ""),
		zap.Bool("phone", info.Phone != ""),
	)

	return info, nil
}

// digitCount filters out year ranges and similar near-phone matches.
func digitCount(s string) int {
	var n int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// looksLikeName accepts a short line of letters without contact markers,
// the usual shape of a resume header.
func looksLikeName(line string) bool {
	if line == "" || len(line) > 60 {
		return false
	}
	if strings.ContainsAny(line, "@0123456789") {
		return false
	}
	words := strings.Fields(line)
	return len(words) >= 2 && len(words) <= 4
}
