package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidLevels is returned when a level selection names none of 1, 2, 3.
var ErrInvalidLevels = errors.New("no valid heading levels")

// LevelPrompt is shown when asking for heading levels.
const LevelPrompt = "Which header levels do you want to extract? (e.g., 1,2,3): "

// ParseLevels parses a comma separated level list. Only 1, 2 and 3 are
// kept, in input order without duplicates; anything else is ignored.
func ParseLevels(input string) ([]int, error) {
	var levels []int
	seen := make(map[int]bool)
	for _, field := range strings.Split(input, ",") {
		var level int
		switch strings.TrimSpace(field) {
		case "1":
			level = 1
		case "2":
			level = 2
		case "3":
			level = 3
		default:
			continue
		}
		if !seen[level] {
			seen[level] = true
			levels = append(levels, level)
		}
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrInvalidLevels, input)
	}
	return levels, nil
}

// PromptLevels asks on out for a level selection read from in, repeating
// until a valid one is given. It fails only when in is exhausted.
func PromptLevels(in io.Reader, out io.Writer) ([]int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, LevelPrompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading levels: %w", err)
			}
			return nil, fmt.Errorf("reading levels: %w", io.ErrUnexpectedEOF)
		}

		levels, err := ParseLevels(scanner.Text())
		if err == nil {
			return levels, nil
		}
		fmt.Fprintln(out, "Please enter at least one valid level: 1, 2, or 3.")
	}
}
