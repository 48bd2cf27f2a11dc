package memory

// Snapshot is a read-only copy of a game for observers that live outside
// the engine goroutine, such as the spectator feed.
type Snapshot struct {
	GameID    string       `json:"game_id" toml:"game_id"`
	CheatMode bool         `json:"cheat_mode" toml:"cheat_mode"`
	Current   int          `json:"current" toml:"current"`
	Selected  []int        `json:"selected" toml:"selected"`
	GameOver  bool         `json:"game_over" toml:"game_over"`
	Winner    string       `json:"winner,omitempty" toml:"winner,omitempty"`
	Players   []PlayerView `json:"players" toml:"players"`
	Cards     []CardView   `json:"cards" toml:"cards"`
}

// CardView is one grid cell. ID is only set when the face is visible, or
// for every card when the snapshot was taken with revealAll.
type CardView struct {
	Index  int    `json:"index" toml:"index"`
	ID     *int   `json:"id,omitempty" toml:"id,omitempty"`
	Status string `json:"status" toml:"status"`
}

// PlayerView is one player with their badge ids in the order they were won.
type PlayerView struct {
	Name   string `json:"name" toml:"name"`
	Score  int    `json:"score" toml:"score"`
	Badges []int  `json:"badges" toml:"badges"`
}

// Snapshot copies the game state. Hidden card ids are left out unless
// revealAll is set.
func (g *Game) Snapshot(revealAll bool) Snapshot {
	s := Snapshot{
		GameID:    g.id,
		CheatMode: g.cheatMode,
		Current:   g.current,
		Selected:  make([]int, 0, len(g.selected)),
		GameOver:  g.CheckForGameEnd(),
		Players:   make([]PlayerView, 0, len(g.players)),
		Cards:     make([]CardView, 0, len(g.cards)),
	}

	for _, c := range g.selected {
		s.Selected = append(s.Selected, g.IndexOf(c))
	}
	if s.GameOver {
		s.Winner = g.WinnerName()
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerView{
			Name:   p.Name(),
			Score:  p.Score(),
			Badges: p.BadgeIDs(),
		})
	}
	for i, c := range g.cards {
		view := CardView{Index: i, Status: c.Status().String()}
		if revealAll || c.Status() != StatusHidden || g.cheatMode {
			id := c.ID()
			view.ID = &id
		}
		s.Cards = append(s.Cards, view)
	}

	return s
}
