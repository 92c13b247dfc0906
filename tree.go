package docdex

import (
	"sort"
	"strings"
)

// NodeKind discriminates files from folders in a documentation tree.
type NodeKind string

// Node kinds.
const (
	NodeFile   NodeKind = "file"
	NodeFolder NodeKind = "folder"
)

// DocTreeNode is a file or folder in a documentation set's hierarchy.
// A node's Path is the slash-joined concatenation of its ancestors' names;
// no two siblings share a Name. Trees are constructed once per indexing run
// and are immutable afterwards.
type DocTreeNode struct {
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Kind      NodeKind       `json:"kind"`
	SizeBytes int64          `json:"sizeBytes,omitempty"`
	Children  []*DocTreeNode `json:"children,omitempty"`
}

// FlatFile is one entry of a flattened listing used to build a tree.
type FlatFile struct {
	Path string
	Size int64
}

// BuildTree constructs a documentation tree from a flat file list.
//
// Folder nodes are synthesized only for ancestors that have at least one
// surviving descendant file; a directory with no matching files does not
// appear at all. The build is two passes over an arena of path->node
// entries (leaves first, then ancestors, then parent linking) so the
// omission rule holds by construction and no path is re-scanned.
func BuildTree(files []FlatFile) []*DocTreeNode {
	arena := make(map[string]*DocTreeNode, len(files)*2)

	// Pass 1: leaf nodes.
	for _, f := range files {
		p := strings.Trim(f.Path, "/")
		if p == "" {
			continue
		}
		if _, ok := arena[p]; ok {
			continue
		}
		arena[p] = &DocTreeNode{
			Name:      baseName(p),
			Path:      p,
			Kind:      NodeFile,
			SizeBytes: f.Size,
		}
	}

	// Pass 2: synthesize every ancestor folder of a surviving file.
	for _, f := range files {
		p := strings.Trim(f.Path, "/")
		for {
			idx := strings.LastIndex(p, "/")
			if idx < 0 {
				break
			}
			p = p[:idx]
			if node, ok := arena[p]; ok {
				if node.Kind == NodeFolder {
					break // ancestors already synthesized
				}
				// A file and a folder share a path; the folder wins the
				// arena slot and the file entry is dropped.
			}
			arena[p] = &DocTreeNode{
				Name: baseName(p),
				Path: p,
				Kind: NodeFolder,
			}
		}
	}

	// Link each node to its parent; parentless nodes are roots.
	var roots []*DocTreeNode
	for p, node := range arena {
		idx := strings.LastIndex(p, "/")
		if idx < 0 {
			roots = append(roots, node)
			continue
		}
		parent := arena[p[:idx]]
		parent.Children = append(parent.Children, node)
	}

	sortTree(roots)
	return roots
}

// ClipTree returns a copy of nodes with folders at maxDepth left childless.
// Depth is counted from 1 at the root level. maxDepth <= 0 means no limit.
func ClipTree(nodes []*DocTreeNode, maxDepth int) []*DocTreeNode {
	if maxDepth <= 0 {
		return nodes
	}
	return clip(nodes, 1, maxDepth)
}

func clip(nodes []*DocTreeNode, depth, maxDepth int) []*DocTreeNode {
	out := make([]*DocTreeNode, 0, len(nodes))
	for _, n := range nodes {
		c := *n
		if depth >= maxDepth {
			c.Children = nil
		} else {
			c.Children = clip(n.Children, depth+1, maxDepth)
		}
		out = append(out, &c)
	}
	return out
}

// WalkTree calls fn for every node in depth-first order.
func WalkTree(nodes []*DocTreeNode, fn func(*DocTreeNode)) {
	for _, n := range nodes {
		fn(n)
		WalkTree(n.Children, fn)
	}
}

// sortTree orders children folders-first, each group alphabetical by name,
// recursively.
func sortTree(nodes []*DocTreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Kind != nodes[j].Kind {
			return nodes[i].Kind == NodeFolder
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

func baseName(p string) string {
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}
