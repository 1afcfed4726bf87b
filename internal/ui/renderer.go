package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/sim"
	"github.com/samdwyer/hollowgate/internal/world"
)

// HUDLines is the number of rows reserved below the map.
const HUDLines = 4

var spinFrames = []rune{'|', '/', '-', '\\'}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Viewport returns the map viewport for the current screen size, centred on
// focus.
func (r *Renderer) Viewport(focus world.Vec2) Viewport {
	w, h := r.screen.Size()
	return Viewport{Center: focus, Cols: w, Rows: max(h-HUDLines, 1)}
}

// Render draws one frame: the field around the hero, then the HUD.
// feed holds recent notifications, newest last.
func (r *Renderer) Render(snap sim.Snapshot, feed []string, paused bool) {
	r.screen.Clear()
	vp := r.Viewport(snap.Player.Pos)

	r.drawGround(vp, snap)

	for _, p := range snap.Strikes {
		r.plot(vp, p, '*', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	r.drawPortal(vp, snap.VillagePortal, 'O')
	if snap.ReturnPortal != nil {
		r.drawPortal(vp, *snap.ReturnPortal, 'o')
	}

	for _, e := range snap.Enemies {
		if !e.Alive {
			continue
		}
		r.plot(vp, e.Pos, e.Symbol, enemyStyle(e))
	}

	r.plot(vp, snap.Player.Pos, heroGlyph(snap.Player), heroStyle(snap.Player))

	r.drawHUD(vp.Rows, snap, feed, paused)
	r.screen.Show()
}

func (r *Renderer) drawGround(vp Viewport, snap sim.Snapshot) {
	extent := snap.Extent
	for y := 0; y < vp.Rows; y++ {
		for x := 0; x < vp.Cols; x++ {
			p := vp.ToWorld(x, y)
			if math.Abs(p.X) > extent || math.Abs(p.Z) > extent {
				continue
			}
			ch, style := groundCell(p, snap)
			r.screen.SetContent(x, y, ch, style)
		}
	}
}

// groundCell returns the rune and style for the terrain at p.
func groundCell(p world.Vec2, snap sim.Snapshot) (rune, tcell.Style) {
	switch {
	case snap.Village.Contains(p):
		return '.', tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	case snap.Exclusion.Contains(p):
		return ':', tcell.StyleDefault.Foreground(tcell.ColorDarkOliveGreen)
	}
	for _, c := range snap.Camps {
		if c.Contains(p) {
			return ',', tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
		}
	}
	return '.', tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
}

func (r *Renderer) drawPortal(vp Viewport, p sim.PortalView, glyph rune) {
	style := tcell.StyleDefault.Foreground(tcell.ColorMediumPurple).Bold(true)
	r.plot(vp, p.Pos, glyph, style)
	if !p.Linked {
		return
	}
	frame := int(p.Spin/(2*math.Pi)*float64(len(spinFrames))) % len(spinFrames)
	if x, y, ok := vp.ToCell(p.Pos); ok && x+1 < vp.Cols {
		r.screen.SetContent(x+1, y, spinFrames[frame], style)
	}
}

func (r *Renderer) plot(vp Viewport, p world.Vec2, ch rune, style tcell.Style) {
	if x, y, ok := vp.ToCell(p); ok {
		r.screen.SetContent(x, y, ch, style)
	}
}

func heroGlyph(p sim.PlayerView) rune {
	if !p.Alive {
		return 'x'
	}
	return '@'
}

func heroStyle(p sim.PlayerView) tcell.Style {
	style := tcell.StyleDefault.Bold(true)
	switch {
	case !p.Alive:
		return style.Foreground(tcell.ColorRed)
	case p.Frozen:
		return style.Foreground(tcell.ColorAqua)
	case p.Invulnerable:
		return style.Foreground(tcell.ColorWhite).Blink(true)
	default:
		return style.Foreground(tcell.ColorYellow)
	}
}

func enemyStyle(e sim.EnemyView) tcell.Style {
	color, err := gamedata.ParseHexColor(e.Color)
	if err != nil {
		color = tcell.ColorWhite
	}
	style := tcell.StyleDefault.Foreground(color)
	if e.Slowed {
		style = style.Foreground(tcell.ColorLightBlue)
	}
	if e.State == entity.StateChase || e.State == entity.StateAttack {
		style = style.Bold(true)
	}
	if e.Targeted {
		style = style.Reverse(true)
	}
	return style
}

func (r *Renderer) drawHUD(top int, snap sim.Snapshot, feed []string, paused bool) {
	p := snap.Player
	status := fmt.Sprintf("%s  Lv %d  HP %s %.0f/%.0f  MP %s %.0f/%.0f  XP %.0f/%.0f  Foes %d  [%s]",
		p.Name, p.Level,
		bar(p.HPRatio, 10), p.HP, p.MaxHP,
		bar(p.MPRatio, 10), p.MP, p.MaxMP,
		p.XP, p.XPToNext, snap.FoesLeft, snap.Phase)
	if paused {
		status += "  PAUSED"
	}
	r.RenderMessage(status, top, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	r.RenderMessage(SkillLine(snap.Skills), top+1, tcell.StyleDefault.Foreground(tcell.ColorSilver))

	line := snap.Message
	if line == "" && len(feed) > 0 {
		line = feed[len(feed)-1]
	}
	r.RenderMessage(line, top+2, tcell.StyleDefault.Foreground(tcell.ColorGold))

	help := "arrows move  click walk/portal  a attack  q/w/e/r skills  s stop  b recall  p pause  esc quit"
	r.RenderMessage(help, top+3, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
}

// SkillLine formats the skill bar.
func SkillLine(skills []sim.SkillView) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		var state string
		switch {
		case s.Active:
			state = "ON"
		case s.Cooldown > 0:
			state = fmt.Sprintf("%.1fs", s.Cooldown)
		case s.Ready:
			state = "ready"
		default:
			state = "--"
		}
		parts = append(parts, fmt.Sprintf("[%s] %s %s", s.Key, s.Name, state))
	}
	return strings.Join(parts, "  ")
}

func bar(ratio float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, ratio)) * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int, style tcell.Style) {
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}
