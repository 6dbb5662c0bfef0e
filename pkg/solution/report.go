package solution

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/tlindh/graphmatch/pkg/model"
)

// PrintMatchingReport prints the minimal extension result with colors.
func PrintMatchingReport(w io.Writer, pb *model.Problem, m *Matching) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	bold.Fprintln(w, "Graph Matching Result")
	bold.Fprintln(w, "=====================")

	fmt.Fprintf(w, "Minimal Extension: %s\n", formatCount(m.MinimalExtension()))
	if m.IsSubgraph() {
		green.Fprintln(w, "Is Subgraph: yes")
	} else {
		red.Fprintln(w, "Is Subgraph: no")
	}
	fmt.Fprintf(w, "Vertices to add: %d\n", len(m.UnmatchedPatternVertices))
	fmt.Fprintf(w, "Edges to add: %d\n", len(m.UnmatchedPatternEdges))

	printIndexLine(w, "Unmatched pattern vertices:", m.UnmatchedPatternVertices)
	printPairLine(w, "Unmatched pattern edges:", m.UnmatchedPatternEdgePairs(pb))
}

// PrintEditDistanceReport prints the edit distance result with colors. In
// relaxed mode the objective is a fractional lower bound and is printed as
// such.
func PrintEditDistanceReport(w io.Writer, pb *model.Problem, m *Matching, relaxed bool) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	bold.Fprintln(w, "Graph Edit Distance Result")
	bold.Fprintln(w, "==========================")

	if relaxed {
		fmt.Fprintf(w, "GED lower bound: %s\n", formatObjective(m))
	} else {
		fmt.Fprintf(w, "GED: %s\n", formatCount(m.MinimalExtension()))
	}
	if m.IsIsomorphic() {
		green.Fprintln(w, "Is Isomorphic: yes")
	} else {
		red.Fprintln(w, "Is Isomorphic: no")
	}

	printIndexLine(w, "Unmatched pattern vertices:", m.UnmatchedPatternVertices)
	printIndexLine(w, "Unmatched target vertices:", m.UnmatchedTargetVertices)
	printPairLine(w, "Unmatched pattern edges:", m.UnmatchedPatternEdgePairs(pb))
	printPairLine(w, "Unmatched target edges:", m.UnmatchedTargetEdgePairs(pb))
}

func formatObjective(m *Matching) string {
	if !m.Feasible() {
		return "inf"
	}
	return strconv.FormatFloat(m.Objective, 'g', -1, 64)
}

func formatCount(n int) string {
	if n < 0 {
		return "inf"
	}
	return strconv.Itoa(n)
}

func printIndexLine(w io.Writer, label string, indices []int) {
	fmt.Fprint(w, label)
	if len(indices) == 0 {
		fmt.Fprint(w, " none")
	}
	for _, idx := range indices {
		fmt.Fprintf(w, " %d", idx)
	}
	fmt.Fprintln(w)
}

func printPairLine(w io.Writer, label string, pairs [][2]int) {
	fmt.Fprint(w, label)
	if len(pairs) == 0 {
		fmt.Fprint(w, " none")
	}
	for _, p := range pairs {
		fmt.Fprintf(w, " (%d,%d)", p[0], p[1])
	}
	fmt.Fprintln(w)
}
