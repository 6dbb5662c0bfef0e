package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBadMatrix is wrapped by every adjacency parse failure.
var ErrBadMatrix = errors.New("malformed adjacency matrix")

// ParseOption adjusts how adjacency matrices are interpreted.
type ParseOption func(*parseConfig)

type parseConfig struct {
	multigraph bool
	directed   bool
}

// WithMultigraph allows cell values above one (parallel edges) and self-loops
func WithMultigraph() ParseOption {
	return func(c *parseConfig) { c.multigraph = true }
}

// WithDirected reads each cell as arcs from row to column, without requiring
// symmetry
func WithDirected() ParseOption {
	return func(c *parseConfig) { c.directed = true }
}

// Parse reads two adjacency-matrix blocks (pattern first, target second) from
// a single stream. Each block is a vertex count line followed by that many
// matrix rows. Blank lines are ignored. Error positions are 1-based.
func Parse(r io.Reader, opts ...ParseOption) (pattern, target *Graph, err error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	pattern, err = parseBlock(lines, 1, cfg)
	if err != nil {
		return nil, nil, err
	}
	target, err = parseBlock(lines, 2, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pattern, target, nil
}

// ParseOne reads a single adjacency-matrix block.
func ParseOne(r io.Reader, opts ...ParseOption) (*Graph, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return parseBlock(lines, 1, cfg)
}

func nextLine(lines *bufio.Scanner) (string, bool) {
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func parseBlock(lines *bufio.Scanner, number int, cfg parseConfig) (*Graph, error) {
	head, ok := nextLine(lines)
	if !ok {
		return nil, fmt.Errorf("graph %d: missing vertex count: %w", number, ErrBadMatrix)
	}
	n, err := strconv.Atoi(head)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("graph %d: vertex count %q must be a positive integer: %w",
			number, head, ErrBadMatrix)
	}

	matrix := make([][]int, n)
	for r := 0; r < n; r++ {
		line, ok := nextLine(lines)
		if !ok {
			return nil, fmt.Errorf("graph %d: missing matrix row %d: %w", number, r+1, ErrBadMatrix)
		}
		fields := strings.Fields(line)
		if len(fields) != n {
			return nil, fmt.Errorf("graph %d: row %d has %d values, want %d: %w",
				number, r+1, len(fields), n, ErrBadMatrix)
		}
		matrix[r] = make([]int, n)
		for c, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("graph %d: value %q at (%d,%d) must be a non-negative integer: %w",
					number, field, r+1, c+1, ErrBadMatrix)
			}
			matrix[r][c] = v
		}
	}

	if !cfg.directed {
		for r := 0; r < n; r++ {
			for c := r + 1; c < n; c++ {
				if matrix[r][c] != matrix[c][r] {
					return nil, fmt.Errorf("graph %d: matrix not symmetric at (%d,%d): %w",
						number, r+1, c+1, ErrBadMatrix)
				}
			}
		}
	}
	if !cfg.directed && !cfg.multigraph {
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				v := matrix[r][c]
				if v > 1 {
					return nil, fmt.Errorf("graph %d: value %d at (%d,%d): want 0 or 1: %w",
						number, v, r+1, c+1, ErrBadMatrix)
				}
				if r == c && v != 0 {
					return nil, fmt.Errorf("graph %d: self-loop at (%d,%d) requires multigraph mode: %w",
						number, r+1, c+1, ErrBadMatrix)
				}
			}
		}
	}

	kind := Undirected
	if cfg.directed {
		kind = Directed
	}
	g := NewGraph(kind)
	for i := 0; i < n; i++ {
		if _, err := g.AddVertex(strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}

	if cfg.directed {
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				for w := 0; w < matrix[r][c]; w++ {
					if _, err := g.AddEdge(r, c); err != nil {
						return nil, err
					}
				}
			}
		}
		return g, nil
	}

	// Undirected: upper triangle carries the edges, the diagonal the loops.
	for r := 0; r < n; r++ {
		for c := r; c < n; c++ {
			for w := 0; w < matrix[r][c]; w++ {
				if _, err := g.AddEdge(r, c); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}
