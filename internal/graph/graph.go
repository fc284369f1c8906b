// Package graph generates DOT and Mermaid dependency graphs from synthesized
// templates.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	awsstacks "github.com/balaaddepalli/awsstacks"
	"github.com/balaaddepalli/awsstacks/internal/serialize"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from templates.
type Generator struct {
	// IncludeParameters adds parameter nodes and the edges to them.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service.
	ClusterByService bool
}

// Edge is one dependency between two logical names.
type Edge struct {
	From, To string
	Kind     serialize.RefKind
	Explicit bool // DependsOn
}

// Generate writes the dependency graph of t to w.
func (g *Generator) Generate(t *awsstacks.Template, w io.Writer) error {
	graph := g.buildGraph(t)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the graph as a string.
func (g *Generator) GenerateString(t *awsstacks.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(t, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(t *awsstacks.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	// nodes holds every node by name, whether it lives in the root graph
	// or in a cluster. dot.Graph.Node only searches its own graph.
	nodes := make(map[string]dot.Node)

	names := sortedNames(t.Resources)
	if g.ClusterByService {
		g.addClusteredNodes(graph, t, names, nodes)
	} else {
		for _, name := range names {
			nodes[name] = addResourceNode(graph, name, t.Resources[name].Type)
		}
	}

	if g.IncludeParameters {
		for _, name := range sortedNames(t.Parameters) {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
			nodes[name] = n
		}
	}

	for _, e := range Edges(t) {
		if _, isParam := t.Parameters[e.To]; isParam && !g.IncludeParameters {
			continue
		}
		from, ok := nodes[e.From]
		if !ok {
			continue
		}
		to, ok := nodes[e.To]
		if !ok {
			continue
		}
		de := graph.Edge(from, to)
		switch {
		case e.Explicit:
			de.Attr("style", "dashed")
		case e.Kind == serialize.KindGetAtt:
			de.Attr("color", "blue")
		}
	}

	return graph
}

// Edges returns the dependencies of every resource in t, sorted by source
// then target. References to parameters are included, pseudo-parameters are
// not. An explicit DependsOn wins over a reference to the same resource.
func Edges(t *awsstacks.Template) []Edge {
	var edges []Edge
	for _, name := range sortedNames(t.Resources) {
		res := t.Resources[name]
		seen := make(map[string]bool)

		for _, dep := range res.DependsOn {
			if _, ok := t.Resources[dep]; ok && !seen[dep] {
				seen[dep] = true
				edges = append(edges, Edge{From: name, To: dep, Explicit: true})
			}
		}

		for _, ref := range serialize.References(res.Properties) {
			if seen[ref.Target] {
				continue
			}
			_, isResource := t.Resources[ref.Target]
			_, isParam := t.Parameters[ref.Target]
			if !isResource && !isParam {
				continue
			}
			seen[ref.Target] = true
			edges = append(edges, Edge{From: name, To: ref.Target, Kind: ref.Kind})
		}
	}

	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// addClusteredNodes groups resource nodes by AWS service. Services with a
// single resource are not clustered.
func (g *Generator) addClusteredNodes(graph *dot.Graph, t *awsstacks.Template, names []string, nodes map[string]dot.Node) {
	byService := make(map[string][]string)
	for _, name := range names {
		service := Service(t.Resources[name].Type)
		byService[service] = append(byService[service], name)
	}

	for _, service := range sortedNames(byService) {
		members := byService[service]
		if len(members) == 1 {
			nodes[members[0]] = addResourceNode(graph, members[0], t.Resources[members[0]].Type)
			continue
		}

		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, name := range members {
			nodes[name] = addResourceNode(cluster, name, t.Resources[name].Type)
		}
	}
}

func addResourceNode(g *dot.Graph, name, cfType string) dot.Node {
	return g.Node(name).Label(name + "\\n[" + cfType + "]")
}

// Service extracts the service from a CloudFormation type.
// e.g., "AWS::ApiGateway::RestApi" -> "ApiGateway"
func Service(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
