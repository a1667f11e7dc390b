package scene

import "strings"

// Group is a named set of parts that renders as one product
type Group struct {
	Name   string
	Parts  []Part
	Hidden bool // excluded from the host's render when true
}

// NewGroup creates a group from the given parts
func NewGroup(name string, parts ...Part) *Group {
	return &Group{Name: name, Parts: parts}
}

// Add appends parts to the group
func (g *Group) Add(parts ...Part) {
	g.Parts = append(g.Parts, parts...)
}

// MeshParts returns the parts that contribute to framing: mesh geometry
// whose name does not carry the helper prefix.
func (g *Group) MeshParts() []Part {
	var meshes []Part
	for _, p := range g.Parts {
		if p.Kind() != KindMesh || IsHelper(p.Name()) {
			continue
		}
		meshes = append(meshes, p)
	}
	return meshes
}

// PrimaryMesh returns the first framing-eligible part
func (g *Group) PrimaryMesh() (Part, bool) {
	meshes := g.MeshParts()
	if len(meshes) == 0 {
		return nil, false
	}
	return meshes[0], true
}

// LightCount returns the number of group-owned lights
func (g *Group) LightCount() int {
	count := 0
	for _, p := range g.Parts {
		if p.Kind() == KindLight {
			count++
		}
	}
	return count
}

// World holds every group the host scene exposes
type World struct {
	UnitScale float64 // meters per scene unit
	Groups    []*Group
}

// NewWorld creates an empty world with the default 1m unit scale
func NewWorld() *World {
	return &World{UnitScale: 1.0}
}

// Add appends a group to the world
func (w *World) Add(g *Group) {
	w.Groups = append(w.Groups, g)
}

// Group finds a group by name
func (w *World) Group(name string) (*Group, bool) {
	for _, g := range w.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// FilterGroups returns the groups whose name carries the prefix, skipping
// groups with no parts. An empty prefix matches every group.
func FilterGroups(groups []*Group, prefix string) []*Group {
	var matched []*Group
	for _, g := range groups {
		if len(g.Parts) == 0 {
			continue
		}
		if prefix == "" || strings.HasPrefix(g.Name, prefix) {
			matched = append(matched, g)
		}
	}
	return matched
}

// TargetGroup picks the group a single-group operation works on: the
// preferred name when it matches the prefix, otherwise the first match.
func TargetGroup(w *World, prefix, preferred string) (*Group, bool) {
	matched := FilterGroups(w.Groups, prefix)
	if preferred != "" {
		for _, g := range matched {
			if g.Name == preferred {
				return g, true
			}
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	return matched[0], true
}
