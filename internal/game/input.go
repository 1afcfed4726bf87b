package game

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

// command is what a key press asks the runtime to do.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdPause
	cmdMove
	cmdAttack
	cmdStop
	cmdRecall
	cmdSkill
)

// action is a decoded key press.
type action struct {
	cmd   command
	dir   world.Vec2
	skill gamedata.Key
}

// translateKey maps a key press to an action. Screen up is -Z.
func translateKey(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return action{cmd: cmdQuit}
	case tcell.KeyUp:
		return action{cmd: cmdMove, dir: world.V(0, -1)}
	case tcell.KeyDown:
		return action{cmd: cmdMove, dir: world.V(0, 1)}
	case tcell.KeyLeft:
		return action{cmd: cmdMove, dir: world.V(-1, 0)}
	case tcell.KeyRight:
		return action{cmd: cmdMove, dir: world.V(1, 0)}
	case tcell.KeyRune:
	default:
		return action{}
	}

	switch r {
	case 'q', 'Q':
		return action{cmd: cmdSkill, skill: gamedata.KeyQ}
	case 'w', 'W':
		return action{cmd: cmdSkill, skill: gamedata.KeyW}
	case 'e', 'E':
		return action{cmd: cmdSkill, skill: gamedata.KeyE}
	case 'r', 'R':
		return action{cmd: cmdSkill, skill: gamedata.KeyR}
	case 'a', 'A':
		return action{cmd: cmdAttack}
	case 's', 'S':
		return action{cmd: cmdStop}
	case 'b', 'B':
		return action{cmd: cmdRecall}
	case 'p', 'P', ' ':
		return action{cmd: cmdPause}
	}
	return action{}
}

// describe turns a simulation event into a feed line. Frequent events such
// as individual hits return "".
func describe(e event.Event) string {
	switch e.Type {
	case event.SkillCast:
		return fmt.Sprintf("Cast %s (%s)", e.Skill, e.Archetype)
	case event.AuraToggled:
		if e.Amount > 0 {
			return "Aura on"
		}
		return "Aura off"
	case event.EnemyDied:
		return "Enemy slain"
	case event.LevelUp:
		return fmt.Sprintf("Reached level %d", int(e.Amount))
	case event.PlayerDied:
		return "You have fallen"
	case event.PlayerRespawned:
		return "You wake in the village"
	case event.RecallPrompted:
		return "Village portal open"
	case event.TeleportSucceeded:
		return "Returned to the field"
	default:
		return ""
	}
}

// feedSize is how many feed lines are kept.
const feedSize = 5

// pushFeed appends line and drops the oldest entries past feedSize.
func pushFeed(feed []string, line string) []string {
	if line == "" {
		return feed
	}
	feed = append(feed, line)
	if len(feed) > feedSize {
		feed = append(feed[:0], feed[len(feed)-feedSize:]...)
	}
	return feed
}
