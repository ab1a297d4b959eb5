package game

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/Mshel/gridsnake/internal/event"
)

type Bot struct {
	BotStrategy Strategy
	*Player
}

// NewBot wraps a player with a Lua strategy, or the default strategy when none is given.
func NewBot(player *Player, botStrategy *BotStrategy) (*Bot, error) {
	if botStrategy == nil {
		return &Bot{BotStrategy: &DefaultStrategy{}, Player: player}, nil
	}
	strategy, err := NewLuaStrategy(botStrategy)
	if err != nil {
		return nil, err
	}
	return &Bot{BotStrategy: strategy, Player: player}, nil
}

func (b *Bot) close() {
	if closer, ok := b.BotStrategy.(interface{ Close() }); ok {
		closer.Close()
	}
}

// BotMaster steers bots. Bots feed the bus exactly like a keyboard would.
type BotMaster struct {
	ControlledPlayers []*Bot
	GameMainManager   *GameManager
}

func NewBotMaster(gm *GameManager) *BotMaster {
	return &BotMaster{GameMainManager: gm}
}

func (bm *BotMaster) Add(bot *Bot) {
	bm.ControlledPlayers = append(bm.ControlledPlayers, bot)
}

func (bm *BotMaster) Remove(playerID string) {
	bm.ControlledPlayers = slices.DeleteFunc(bm.ControlledPlayers, func(b *Bot) bool {
		if b.ID != playerID {
			return false
		}
		b.close()
		return true
	})
}

func (bm *BotMaster) Controls(playerID string) bool {
	return slices.ContainsFunc(bm.ControlledPlayers, func(b *Bot) bool { return b.ID == playerID })
}

// processBots lets each bot whose head is at rest ask for a new direction.
func (bm *BotMaster) processBots() {
	for _, bot := range slices.Clone(bm.ControlledPlayers) {
		if bot.IsDetached() || !bot.Head().IsTransitionDone() {
			continue
		}
		next := bot.BotStrategy.getNextBestDirection(bot.Player, bm.GameMainManager)
		if next == bot.Direction() {
			continue
		}
		log.Debug("Bot turning", "bot", bot.Name, "from", bot.Direction(), "to", next)
		bm.GameMainManager.Bus.Broadcast(event.CategoryInput, bot.InputSubcategory(), event.NewDirectionEvent(next))
	}
}

func (bm *BotMaster) Close() {
	bm.GameMainManager.mu.Lock()
	defer bm.GameMainManager.mu.Unlock()
	for _, bot := range bm.ControlledPlayers {
		bot.close()
	}
	bm.ControlledPlayers = nil
}
