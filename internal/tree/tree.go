// Package tree rebuilds folder hierarchies from flat remote listings.
package tree

import (
	"path"
	"sort"
	"strings"

	"github.com/home-digital/cloudee/internal/models"
)

// RootPath selects the top level of a listing in Build.
const RootPath = ""

// SortByPath orders entries lexically by path, which places every folder
// before its descendants.
func SortByPath(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return cleanPath(entries[i].Path) < cleanPath(entries[j].Path)
	})
}

// AssignParents returns a copy of entries with ID, ParentID and ParentPath set.
//
// An entry's parent is the longest listed folder whose path is a strict
// prefix of the entry's path. Entries without a listed ancestor sit at the
// root and get models.RootID. Entries repeating an already seen path are
// dropped, the first occurrence wins.
func AssignParents(entries []models.Entry) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	dirs := make(map[string]bool)

	for _, e := range entries {
		e.Path = cleanPath(e.Path)
		if e.Path == "" || seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		e.ID = path.Base(e.Path)
		if e.IsDir() {
			dirs[e.Path] = true
		}
		out = append(out, e)
	}

	for i := range out {
		out[i].ParentPath = RootPath
		out[i].ParentID = models.RootID
		for p := parentOf(out[i].Path); p != ""; p = parentOf(p) {
			if dirs[p] {
				out[i].ParentPath = p
				out[i].ParentID = path.Base(p)
				break
			}
		}
	}

	return out
}

// ParentIDs maps every entry path to its computed parent_id.
func ParentIDs(entries []models.Entry) map[string]string {
	assigned := AssignParents(entries)
	ids := make(map[string]string, len(assigned))
	for _, e := range assigned {
		ids[e.Path] = e.ParentID
	}
	return ids
}

// Build nests entries whose parents were assigned by AssignParents under
// parentPath, keeping the input order within every folder. Folders without
// descendants carry no children.
func Build(entries []models.Entry, parentPath string) []*models.Node {
	children := make(map[string][]models.Entry)
	for _, e := range entries {
		children[e.ParentPath] = append(children[e.ParentPath], e)
	}

	nodes := build(children, parentPath, make(map[string]bool, len(entries)))
	if nodes == nil {
		nodes = []*models.Node{}
	}
	return nodes
}

func build(children map[string][]models.Entry, parent string, visited map[string]bool) []*models.Node {
	var branch []*models.Node
	for _, e := range children[parent] {
		if visited[e.Path] {
			continue
		}
		visited[e.Path] = true

		node := &models.Node{Entry: e}
		if e.IsDir() {
			node.Children = build(children, e.Path, visited)
		}
		branch = append(branch, node)
	}
	return branch
}

// FromListing turns a flat listing into a tree rooted at the queried path.
func FromListing(entries []models.Entry) []*models.Node {
	return Build(AssignParents(entries), RootPath)
}

// Flatten returns the entries of a tree in pre-order.
func Flatten(nodes []*models.Node) []models.Entry {
	var out []models.Entry
	for _, n := range nodes {
		out = append(out, n.Entry)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}

// CountNodes counts all nodes in a tree.
func CountNodes(nodes []*models.Node) int {
	count := 0
	for _, n := range nodes {
		count += 1 + CountNodes(n.Children)
	}
	return count
}

func cleanPath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

func parentOf(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}
