package game

import "github.com/Mshel/gridsnake/internal/grid"

type PlayerState struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Bot           bool           `json:"bot"`
	Head          grid.Point     `json:"head"`
	HeadX         float64        `json:"headX"`
	HeadY         float64        `json:"headY"`
	Direction     grid.Direction `json:"direction"`
	Tail          []grid.Point   `json:"tail"`
	PendingGrowth int            `json:"pendingGrowth"`
	Stalled       bool           `json:"stalled"`
	Ticks         int            `json:"ticks"`
}

// Snapshot is an immutable copy of the world taken at the end of a frame.
type Snapshot struct {
	Frame   int64         `json:"frame"`
	Width   int           `json:"width"`
	Holes   []grid.Point  `json:"holes,omitempty"`
	Players []PlayerState `json:"players"`
}

func (s Snapshot) Player(id string) (PlayerState, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

func (gm *GameManager) buildSnapshot() Snapshot {
	snapshot := Snapshot{
		Frame:   gm.frame,
		Width:   gm.Graph.Width(),
		Holes:   gm.Config.Holes,
		Players: make([]PlayerState, 0, len(gm.players)),
	}
	for _, player := range gm.players {
		head := player.Head()
		node := head.CurrentNode()
		if node == nil {
			continue
		}
		state := PlayerState{
			ID:            player.ID,
			Name:          player.Name,
			Bot:           gm.botMaster.Controls(player.ID),
			Head:          node.Position(),
			Direction:     player.Direction(),
			PendingGrowth: player.PendingGrowth(),
			Stalled:       player.Stalled(),
			Ticks:         player.Ticks(),
		}
		state.HeadX, state.HeadY = float64(node.X), float64(node.Y)
		if t, ok := head.(*Transform); ok {
			state.HeadX, state.HeadY = t.Target()
		}
		for _, piece := range player.TailPieces() {
			if n := piece.CurrentNode(); n != nil {
				state.Tail = append(state.Tail, n.Position())
			}
		}
		snapshot.Players = append(snapshot.Players, state)
	}
	return snapshot
}
