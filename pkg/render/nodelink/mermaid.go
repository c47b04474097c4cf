package nodelink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/patentfig/pkg/diagram"
)

// ToMermaid renders a flow scene as a left-to-right Mermaid flowchart. The
// caption is kept as a comment; edges keep scene order.
func ToMermaid(s diagram.Scene) (string, error) {
	if s.Kind != diagram.KindFlow {
		return "", fmt.Errorf("nodelink: scene kind is %q", s.Kind)
	}

	var b strings.Builder
	b.WriteString("graph LR\n")
	if s.Caption.Text != "" {
		fmt.Fprintf(&b, "    %%%% %s\n", s.Caption.Text)
	}

	nodes := sceneNodes(s)
	ids := make(map[string]string, len(nodes))
	for _, n := range nodes {
		id := mermaidSafeID(n.ID)
		ids[n.Label] = id
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, mermaidEscapeLabel(n.Label))
	}
	for _, e := range s.Edges() {
		fmt.Fprintf(&b, "    %s --> %s\n", ids[e.From], ids[e.To])
	}
	return b.String(), nil
}

// mermaidSafeID converts a node ID to a Mermaid-safe identifier.
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(id)
}

// mermaidEscapeLabel replaces characters that end a quoted Mermaid label.
func mermaidEscapeLabel(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "\n", " ")
	return r.Replace(s)
}
