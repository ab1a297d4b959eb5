package game

import (
	"slices"

	"github.com/charmbracelet/log"
)

// Destroy tears a player down as one unit: the head and every tail piece leave
// the grid, the run is scored and whoever watches the player is told. It runs on
// the frame loop with mu held, straight from Player.Detach.
func (gm *GameManager) Destroy(leader Mover, tail []*TailPiece) {
	head, ok := leader.(*Transform)
	if !ok {
		return
	}
	player := gm.heads[head]
	if player == nil {
		return
	}

	for i := len(tail) - 1; i >= 0; i-- {
		segment := tail[i].Transform()
		segment.Remove()
		delete(gm.transforms, segment)
	}
	head.Remove()
	delete(gm.transforms, head)
	delete(gm.heads, head)

	gm.players = slices.DeleteFunc(gm.players, func(p *Player) bool { return p == player })
	gm.botMaster.Remove(player.ID)
	gm.Metrics.IncDeaths()

	gm.sunsetPlayer(player, len(tail)+1)
}

func (gm *GameManager) sunsetPlayer(player *Player, length int) {
	if gm.HighScores != nil {
		if err := gm.HighScores.SavePlayersHighScore(player.Name, length, player.Ticks()); err != nil {
			log.Printf("High score persist err: %v ", err)
		}
	}

	updates, ok := gm.updateChannels[player.ID]
	if !ok {
		return
	}
	delete(gm.updateChannels, player.ID)

	select {
	case updates <- PlayerDeadMsg{PlayerID: player.ID, Length: length, Ticks: player.Ticks()}:
	default:
		log.Warn("Update channel full, dropping death notice", "player", player.Name)
	}
	close(updates)
	log.Info("Player sunset", "player", player.Name, "length", length, "ticks", player.Ticks())
}
