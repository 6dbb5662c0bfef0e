package solution

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/tlindh/graphmatch/pkg/model"
)

type xmlNode struct {
	Type  string `xml:"type,attr"`
	Index int    `xml:"index,attr"`
}

type xmlEdge struct {
	Type string `xml:"type,attr"`
	From int    `xml:"from,attr"`
	To   int    `xml:"to,attr"`
}

type xmlNodeSubstitution struct {
	Cost  float64   `xml:"cost,attr"`
	Nodes []xmlNode `xml:"node"`
}

type xmlNodeEdit struct {
	Cost float64 `xml:"cost,attr"`
	Node xmlNode `xml:"node"`
}

type xmlEdgeSubstitution struct {
	Cost  float64   `xml:"cost,attr"`
	Edges []xmlEdge `xml:"edge"`
}

type xmlEdgeEdit struct {
	Cost float64 `xml:"cost,attr"`
	Edge xmlEdge `xml:"edge"`
}

type xmlObjective struct {
	Status string `xml:"status,attr"`
	Value  string `xml:"value,attr"`
}

type xmlSolution struct {
	XMLName   xml.Name     `xml:"solution"`
	Objective xmlObjective `xml:"objective"`
	Nodes     struct {
		Substitutions []xmlNodeSubstitution `xml:"substitution"`
		Insertions    []xmlNodeEdit         `xml:"insertion"`
		Deletions     []xmlNodeEdit         `xml:"deletion"`
	} `xml:"nodes"`
	Edges struct {
		Substitutions []xmlEdgeSubstitution `xml:"substitution"`
		Insertions    []xmlEdgeEdit         `xml:"insertion"`
		Deletions     []xmlEdgeEdit         `xml:"deletion"`
	} `xml:"edges"`
}

// WriteXML serialises the matching as a solution document. Target-side
// deletions appear only for edit distance problems.
func WriteXML(w io.Writer, pb *model.Problem, m *Matching) error {
	ged := pb.Kind() == model.GraphEditDistance
	pattern, target := pb.Pattern(), pb.Target()

	doc := xmlSolution{}
	if m.Feasible() {
		doc.Objective = xmlObjective{
			Status: "optimal",
			Value:  strconv.FormatFloat(m.Objective, 'g', -1, 64),
		}
	} else {
		doc.Objective = xmlObjective{Status: "infeasible", Value: "inf"}
	}

	for i, k := range m.VertexMapping {
		if k < 0 {
			continue
		}
		doc.Nodes.Substitutions = append(doc.Nodes.Substitutions, xmlNodeSubstitution{
			Cost: pb.VertexCost(i, k),
			Nodes: []xmlNode{
				{Type: "query", Index: i},
				{Type: "target", Index: k},
			},
		})
	}
	for _, i := range m.UnmatchedPatternVertices {
		doc.Nodes.Insertions = append(doc.Nodes.Insertions, xmlNodeEdit{
			Cost: 1,
			Node: xmlNode{Type: "query", Index: i},
		})
	}
	if ged {
		for _, k := range m.UnmatchedTargetVertices {
			doc.Nodes.Deletions = append(doc.Nodes.Deletions, xmlNodeEdit{
				Cost: 1,
				Node: xmlNode{Type: "target", Index: k},
			})
		}
	}

	for ij, kl := range m.EdgeMapping {
		if kl < 0 {
			continue
		}
		pe, te := pattern.Edge(ij), target.Edge(kl)
		doc.Edges.Substitutions = append(doc.Edges.Substitutions, xmlEdgeSubstitution{
			Cost: pb.EdgeCost(ij, kl),
			Edges: []xmlEdge{
				{Type: "query", From: pe.Origin(), To: pe.Target()},
				{Type: "target", From: te.Origin(), To: te.Target()},
			},
		})
	}
	for _, ij := range m.UnmatchedPatternEdges {
		pe := pattern.Edge(ij)
		doc.Edges.Insertions = append(doc.Edges.Insertions, xmlEdgeEdit{
			Cost: 1,
			Edge: xmlEdge{Type: "query", From: pe.Origin(), To: pe.Target()},
		})
	}
	if ged {
		for _, kl := range m.UnmatchedTargetEdges {
			te := target.Edge(kl)
			doc.Edges.Deletions = append(doc.Edges.Deletions, xmlEdgeEdit{
				Cost: 1,
				Edge: xmlEdge{Type: "target", From: te.Origin(), To: te.Target()},
			})
		}
	}

	if _, err := io.WriteString(w, "<?xml version=\"1.0\"?>\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding solution: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
