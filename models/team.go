package models

// Team is a registered team with its roster. Pools, matches and the knockout
// bracket reference teams by name; renames must cascade through all of them.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Pool    *string  `json:"pool,omitempty"`
}

// Pool is a round-robin grouping. It never holds results; those live on Match.
type Pool struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

// HasTeam reports whether the named team is assigned to the pool.
func (p *Pool) HasTeam(name string) bool {
	for _, t := range p.Teams {
		if t == name {
			return true
		}
	}
	return false
}
