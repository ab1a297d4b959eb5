package game

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/Mshel/gridsnake/internal/grid"
)

type BotStrategy struct {
	StrategyName       string
	StrategyDefinition string
}

// MoveClockwise circles the grid edge. Scripts receive the head as a table and
// return either a direction name or a {Dx=..., Dy=...} table with +Dy meaning up.
var MoveClockwise = &BotStrategy{
	StrategyName: "MoveClockwise",
	StrategyDefinition: `
		function getNextDirection(head)
			if head.free[head.direction] then
				return head.direction
			end
			local turns = {up = "right", right = "down", down = "left", left = "up"}
			return turns[head.direction]
		end
	`,
}

// LuaStrategy runs a script's getNextDirection(head) every time a bot may turn.
// The Lua state is not safe for concurrent use; bots are driven by the frame loop.
type LuaStrategy struct {
	name     string
	state    *lua.LState
	fallback Strategy
}

func NewLuaStrategy(botStrategy *BotStrategy) (*LuaStrategy, error) {
	if botStrategy == nil {
		return nil, errors.New("bot strategy not found")
	}

	luaState := lua.NewState()
	if err := luaState.DoString(botStrategy.StrategyDefinition); err != nil {
		luaState.Close()
		return nil, fmt.Errorf("could not parse lua strategy definition %q: %w", botStrategy.StrategyName, err)
	}
	if luaState.GetGlobal("getNextDirection").Type() != lua.LTFunction {
		luaState.Close()
		return nil, fmt.Errorf("lua strategy %q does not define getNextDirection", botStrategy.StrategyName)
	}

	return &LuaStrategy{
		name:     botStrategy.StrategyName,
		state:    luaState,
		fallback: &DefaultStrategy{},
	}, nil
}

func (s *LuaStrategy) getNextBestDirection(player *Player, gm *GameManager) grid.Direction {
	dir, err := s.getBotsNextDirection(player)
	if err != nil {
		s.state.SetTop(0)
		return s.fallback.getNextBestDirection(player, gm)
	}
	return dir
}

func (s *LuaStrategy) getBotsNextDirection(player *Player) (grid.Direction, error) {
	s.state.Push(s.state.GetGlobal("getNextDirection"))
	s.state.Push(s.headTable(player))
	if err := s.state.PCall(1, 1, nil); err != nil {
		return grid.Up, fmt.Errorf("could not execute lua strategy definition: %w", err)
	}

	luaReturn := s.state.Get(-1)
	s.state.Pop(1)

	switch value := luaReturn.(type) {
	case lua.LString:
		dir, ok := grid.ParseDirection(string(value))
		if !ok {
			return grid.Up, fmt.Errorf("lua returned unknown direction %q", string(value))
		}
		return dir, nil
	case *lua.LTable:
		return grid.DirectionFromVector(convertLuaDirectionTableToGoStruct(value))
	default:
		return grid.Up, errors.New("lua return value was type " + luaReturn.Type().String() + ", expected string or table")
	}
}

func (s *LuaStrategy) headTable(player *Player) *lua.LTable {
	head := s.state.NewTable()
	free := s.state.NewTable()

	node := player.Head().CurrentNode()
	if node != nil {
		head.RawSetString("x", lua.LNumber(node.X))
		head.RawSetString("y", lua.LNumber(node.Y))
		for _, dir := range grid.Directions {
			free.RawSetString(dir.String(), lua.LBool(isFree(node.Neighbor(dir))))
		}
	}
	head.RawSetString("direction", lua.LString(player.Direction().String()))
	head.RawSetString("length", lua.LNumber(player.Length()))
	head.RawSetString("free", free)
	return head
}

func (s *LuaStrategy) Close() {
	s.state.Close()
}

func convertLuaDirectionTableToGoStruct(luaTbl *lua.LTable) grid.Vec2 {
	result := grid.Vec2{}
	luaTbl.ForEach(func(key, value lua.LValue) {
		if key.Type() != lua.LTString {
			return
		}

		switch lua.LVAsString(key) {
		case "Dy":
			result.Y = int(lua.LVAsNumber(value))
		case "Dx":
			result.X = int(lua.LVAsNumber(value))
		}
	})
	return result
}
