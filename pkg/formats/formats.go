// Package formats provides parsers for the Wavefront OBJ and MTL subsets
// the viewer understands.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/objview/pkg/math"
)

// Parse errors shared by the OBJ and MTL readers.
var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrMissingArgument = errors.New("missing argument")
)

// maxLineSize bounds a single OBJ/MTL line.
const maxLineSize = 1 << 20

// lineError annotates err with the 1-based line number and content.
func lineError(lineNo int, line string, err error) error {
	return fmt.Errorf("line %d %q: %w", lineNo, line, err)
}

// scanLines calls fn for every non-blank, non-comment line with its fields.
func scanLines(r io.Reader, fn func(lineNo int, line string, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if err := fn(lineNo, line, strings.Fields(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseFloats parses the first n argument fields as float32.
// Decimal separators are always '.', independent of locale.
func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMissingArgument, n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, args[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(args []string) (math.Vec3, error) {
	f, err := parseFloats(args, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func parseVec2(args []string) (math.Vec2, error) {
	f, err := parseFloats(args, 2)
	if err != nil {
		return math.Vec2{}, err
	}
	return math.Vec2{X: f[0], Y: f[1]}, nil
}

// restOf returns the text after the keyword, keeping inner spaces.
func restOf(line, keyword string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, keyword))
}

// normalizePath converts exporter paths (often with backslashes) to
// forward slashes.
func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
