package server

import (
	"net/http"
	"strings"
)

// GroupInfo describes one scene group in the catalog listing
type GroupInfo struct {
	Name     string `json:"name"`
	Meshes   int    `json:"meshes"`
	Lights   int    `json:"lights"`
	Selected bool   `json:"selected"` // carries the render prefix
}

// GroupsResponse is the catalog listing for the loaded scene
type GroupsResponse struct {
	Scene     string      `json:"scene"`
	UnitScale float64     `json:"unitScale"`
	Prefix    string      `json:"prefix"`
	Groups    []GroupInfo `json:"groups"`
}

// handleGroups lists the loaded scene's groups with their part makeup, so a
// client can show what a batch would pick up before running one.
func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	world, source := s.snapshot()
	if world == nil {
		writeError(w, http.StatusServiceUnavailable, "no scene loaded")
		return
	}

	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = s.cfg.Prefix
	}

	resp := GroupsResponse{
		Scene:     source,
		UnitScale: world.UnitScale,
		Prefix:    prefix,
		Groups:    make([]GroupInfo, 0, len(world.Groups)),
	}
	for _, g := range world.Groups {
		resp.Groups = append(resp.Groups, GroupInfo{
			Name:     g.Name,
			Meshes:   len(g.MeshParts()),
			Lights:   g.LightCount(),
			Selected: strings.HasPrefix(g.Name, prefix),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
