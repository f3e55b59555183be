package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

// treeString draws node in the layout of ast.TreePrint. Unlike ast.TreePrint
// it descends into data arrays, which the card conversion produces for the
// card list and every repeated property.
func treeString(node ast.SchemaNode) string {
	var sb strings.Builder
	writeTree(&sb, node, "", true)
	return sb.String()
}

func writeTree(sb *strings.Builder, node ast.SchemaNode, prefix string, isLast bool) {
	sb.WriteString(prefix)
	if isLast {
		sb.WriteString("└── ")
	} else {
		sb.WriteString("├── ")
	}

	childPrefix := prefix + "│   "
	if isLast {
		childPrefix = prefix + "    "
	}

	switch n := node.(type) {
	case *ast.LiteralNode:
		fmt.Fprintf(sb, "Literal: %s\n", n.String())

	case *ast.ObjectNode:
		sb.WriteString("Object\n")
		props := n.Properties()
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			writeLabeled(sb, fmt.Sprintf("%q", k), props[k], childPrefix, i == len(keys)-1)
		}

	case *ast.ArrayDataNode:
		fmt.Fprintf(sb, "Array (%d)\n", n.Len())
		elems := n.Elements()
		for i, e := range elems {
			writeLabeled(sb, fmt.Sprintf("[%d]", i), e, childPrefix, i == len(elems)-1)
		}

	default:
		fmt.Fprintf(sb, "%T\n", node)
	}
}

// writeLabeled writes a "label:" line and the child beneath it.
func writeLabeled(sb *strings.Builder, label string, child ast.SchemaNode, prefix string, isLast bool) {
	sb.WriteString(prefix)
	next := prefix + "│   "
	if isLast {
		sb.WriteString("└── ")
		next = prefix + "    "
	} else {
		sb.WriteString("├── ")
	}
	sb.WriteString(label)
	sb.WriteString(":\n")
	writeTree(sb, child, next, true)
}
