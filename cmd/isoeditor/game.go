package main

import (
	"fmt"
	"image/color"
	"sort"
	"sync/atomic"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/isomapper/anim"
	"github.com/milk9111/isomapper/atlas"
	"github.com/milk9111/isomapper/config"
	"github.com/milk9111/isomapper/editor"
	"github.com/milk9111/isomapper/grid"
	"github.com/milk9111/isomapper/history"
	"github.com/milk9111/isomapper/iso"
	"github.com/milk9111/isomapper/tool"
	log "github.com/sirupsen/logrus"
)

var hotkeys = map[ebiten.Key]string{
	ebiten.KeyDigit1: "1",
	ebiten.KeyDigit2: "2",
	ebiten.KeyDigit3: "3",
}

type objectSprite struct {
	col, row  int
	frame     string
	placement editor.Placement
}

// Game is the ebiten front end: it turns input into engine calls and draws
// a mirror of the map kept up to date from engine events.
type Game struct {
	cfg     *config.Config
	engine  *editor.Engine
	atlas   *atlas.Atlas
	player  *anim.Player
	camera  *iso.Camera
	sprites *spriteCache
	ui      *ebitenui.UI
	panel   *Panel

	view    *grid.Store
	objects map[[2]int]objectSprite

	atlasChanged atomic.Bool

	isPanning        bool
	lastPanX         int
	lastPanY         int
	hoverCol         int
	hoverRow         int
	hoverOK          bool
	screenW, screenH int
	centred          bool
}

func newGame(cfg *config.Config, eng *editor.Engine, at *atlas.Atlas, player *anim.Player, sprites *spriteCache) *Game {
	g := &Game{
		cfg:     cfg,
		engine:  eng,
		atlas:   at,
		player:  player,
		camera:  iso.NewCamera(),
		sprites: sprites,
		objects: map[[2]int]objectSprite{},
	}
	g.ui, g.panel = buildUI(uiHandlers{
		onTool:   g.setTool,
		onTab:    g.setTab,
		onFrame:  g.selectFrame,
		onUndo:   g.undo,
		onRedo:   g.redo,
		onExport: g.export,
	}, at.TileFrames())

	eng.OnCell(g.onCell)
	eng.OnHistory(g.onHistory)
	return g
}

// load replaces the map being edited.
func (g *Game) load(store *grid.Store) error {
	g.view = grid.MustNew(store.Size())
	g.objects = map[[2]int]objectSprite{}
	g.player.Reset()
	g.centred = false
	return g.engine.Load(store)
}

func (g *Game) onCell(ev editor.CellEvent) {
	if g.view == nil {
		return
	}
	key := [2]int{ev.Col, ev.Row}
	if !ev.Present {
		_ = g.view.Clear(ev.Layer, ev.Col, ev.Row)
		delete(g.objects, key)
		return
	}
	_ = g.view.Set(ev.Layer, ev.Col, ev.Row, ev.State)
	if ev.Layer != grid.Objects {
		return
	}
	var p editor.Placement
	if ev.Placement != nil {
		p = *ev.Placement
	} else {
		p = editor.ObjectPlacement(g.engine.Projector(), ev.Col, ev.Row, 32, 48)
	}
	g.objects[key] = objectSprite{col: ev.Col, row: ev.Row, frame: ev.State.Frame, placement: p}
}

func (g *Game) onHistory(ev editor.HistoryEvent) {
	g.panel.SetHistory(ev.CanUndo, ev.CanRedo)
	if ev.Last.Op != history.OpNone {
		g.panel.SetStatus(ev.Last.String())
	}
}

func (g *Game) setTool(t tool.Tool) {
	g.engine.Selection().SetTool(t)
	g.panel.SetTool(t)
	log.Printf("Switched to %s tool", t)
}

func (g *Game) setTab(tab tool.Tab) {
	sel := g.engine.Selection()
	if sel.Tab() == tab {
		return
	}
	sel.SetTab(tab)
	g.panel.SetTab(tab)
	if tab == tool.Objects {
		g.panel.SetFrames(g.atlas.ObjectFrames())
	} else {
		g.panel.SetFrames(g.atlas.TileFrames())
	}
}

func (g *Game) selectFrame(frame string) {
	sel := g.engine.Selection()
	if sel.Tab() == tool.Objects {
		sel.SelectObject(frame)
	} else {
		sel.SelectTile(frame)
	}
	g.panel.SetStatus(fmt.Sprintf("Selected %s %s", sel.Tab(), frame))
}

func (g *Game) undo() {
	if _, ok := g.engine.Undo(); !ok {
		g.panel.SetStatus("Nothing to undo")
	}
}

func (g *Game) redo() {
	if _, ok := g.engine.Redo(); !ok {
		g.panel.SetStatus("Nothing to redo")
	}
}

func (g *Game) Update() error {
	if g.atlasChanged.Swap(false) {
		g.sprites.Reset()
		g.engine.Resync()
		if g.engine.Selection().Tab() == tool.Objects {
			g.panel.SetFrames(g.atlas.ObjectFrames())
		} else {
			g.panel.SetFrames(g.atlas.TileFrames())
		}
		g.panel.SetStatus("Atlas reloaded")
	}

	g.ui.Update()
	g.player.Update()

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	for key, name := range hotkeys {
		if inpututil.IsKeyJustPressed(key) && !ctrl {
			if t, ok := tool.ToolForKey(name); ok {
				g.setTool(t)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if g.engine.Selection().Tab() == tool.Tiles {
			g.setTab(tool.Objects)
		} else {
			g.setTab(tool.Tiles)
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.redo()
		} else {
			g.undo()
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY) {
		g.redo()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.export()
	}

	// Pan (middle mouse drag)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		g.isPanning = true
		g.lastPanX, g.lastPanY = ebiten.CursorPosition()
	}
	if g.isPanning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		cx, cy := ebiten.CursorPosition()
		g.camera.Pan(float64(cx-g.lastPanX), float64(cy-g.lastPanY))
		g.lastPanX, g.lastPanY = cx, cy
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.isPanning = false
	}

	sx, sy := ebiten.CursorPosition()
	if _, wy := ebiten.Wheel(); wy != 0 {
		factor := 1.1
		if wy < 0 {
			factor = 1 / 1.1
		}
		g.camera.ZoomAt(float64(sx), float64(sy), factor)
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.engine.PointerUp()
	}

	g.hoverOK = false
	if sx < panelWidth {
		return nil
	}
	col, row := g.engine.Projector().WorldToGrid(g.camera.ScreenToWorld(float64(sx), float64(sy)))
	size := g.view.Size()
	g.hoverCol, g.hoverRow = col, row
	g.hoverOK = col >= 0 && row >= 0 && col < size && row < size

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if _, err := g.engine.PointerDown(col, row); err != nil {
			log.Warnf("edit at (%d, %d): %v", col, row, err)
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if _, err := g.engine.PointerMove(col, row); err != nil {
			log.Warnf("edit at (%d, %d): %v", col, row, err)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{24, 26, 32, 255})
	if !g.centred && g.screenW > 0 {
		mapCentre := g.engine.Projector().Centre(g.view.Size())
		g.camera.CenterOn(mapCentre.Add(cp.Vector{X: -panelWidth / 2}), g.screenW, g.screenH)
		g.centred = true
	}

	proj := g.engine.Projector()
	n := g.view.Size()
	visible := g.visibleWorld()
	if !visible.Intersects(proj.Bounds(n)) {
		g.ui.Draw(screen)
		return
	}
	// back to front along the diagonals
	for sum := 0; sum <= 2*(n-1); sum++ {
		for row := 0; row < n; row++ {
			col := sum - row
			if col < 0 || col >= n {
				continue
			}
			state, _, _ := g.view.Get(grid.Ground, col, row)
			if !state.Shown() {
				continue
			}
			frame := state.Frame
			if sub, ok := g.player.Frame(col, row); ok {
				frame = sub
			}
			w := proj.GridToWorld(col, row)
			if !visible.Intersects(tileBB(proj, w)) {
				continue
			}
			img := g.sprites.Get(grid.Ground, frame)
			b := img.Bounds()
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(w.X-float64(b.Dx())/2, w.Y-float64(b.Dy())/2)
			g.toScreen(&op.GeoM)
			op.ColorScale.ScaleAlpha(float32(state.Alpha))
			screen.DrawImage(img, op)
		}
	}

	sprites := make([]objectSprite, 0, len(g.objects))
	for _, o := range g.objects {
		if visible.Intersects(o.placement.Rect()) {
			sprites = append(sprites, o)
		}
	}
	sort.Slice(sprites, func(i, j int) bool {
		if sprites[i].placement.Depth != sprites[j].placement.Depth {
			return sprites[i].placement.Depth < sprites[j].placement.Depth
		}
		return sprites[i].col < sprites[j].col
	})
	for _, o := range sprites {
		img := g.sprites.Get(grid.Objects, o.frame)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(o.placement.Pos.X, o.placement.Pos.Y-float64(img.Bounds().Dy()))
		g.toScreen(&op.GeoM)
		screen.DrawImage(img, op)
	}

	if g.hoverOK {
		g.drawHover(screen, proj)
	}
	g.ui.Draw(screen)
}

// visibleWorld returns the world-space box currently on screen.
func (g *Game) visibleWorld() cp.BB {
	tl := g.camera.ScreenToWorld(0, 0)
	br := g.camera.ScreenToWorld(float64(g.screenW), float64(g.screenH))
	return cp.BB{L: tl.X, B: tl.Y, R: br.X, T: br.Y}
}

// tileBB is the box of the ground tile centred on w. Animated strips are
// drawn one tile wide, so the tile size covers them.
func tileBB(proj iso.Projector, w cp.Vector) cp.BB {
	hw, hh := float64(proj.TileWidth)/2, float64(proj.TileHeight)/2
	return cp.BB{L: w.X - hw, B: w.Y - hh, R: w.X + hw, T: w.Y + hh}
}

func (g *Game) toScreen(m *ebiten.GeoM) {
	m.Scale(g.camera.Zoom, g.camera.Zoom)
	m.Translate(g.camera.PanX, g.camera.PanY)
}

func (g *Game) drawHover(screen *ebiten.Image, proj iso.Projector) {
	c := proj.GridToWorld(g.hoverCol, g.hoverRow)
	hw, hh := float64(proj.TileWidth)/2, float64(proj.TileHeight)/2
	pts := []cp.Vector{
		{X: c.X, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y},
		{X: c.X, Y: c.Y + hh},
		{X: c.X - hw, Y: c.Y},
	}
	outline := color.RGBA{255, 230, 80, 255}
	for i := range pts {
		ax, ay := g.camera.WorldToScreen(pts[i])
		bx, by := g.camera.WorldToScreen(pts[(i+1)%len(pts)])
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 2, outline, true)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
