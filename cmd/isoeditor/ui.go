package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/isomapper/tool"
	"golang.org/x/image/font/gofont/goregular"
)

const panelWidth = 220

type uiHandlers struct {
	onTool   func(t tool.Tool)
	onTab    func(tab tool.Tab)
	onFrame  func(frame string)
	onUndo   func()
	onRedo   func()
	onExport func()
}

// Panel holds the left-hand editor widgets the game updates after edits.
type Panel struct {
	toolGroup   *widget.RadioGroup
	toolButtons []*widget.Button
	tabGroup    *widget.RadioGroup
	tabButtons  []*widget.Button
	frames      *widget.List
	entries     []any
	undoBtn     *widget.Button
	redoBtn     *widget.Button
	status      *widget.Label

	// suppress stops programmatic changes from echoing back as user input.
	suppress bool
}

func buildUI(h uiHandlers, frames []string) (*ebitenui.UI, *Panel) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newTheme(&fontFace)
	theme := ui.PrimaryTheme

	// radio groups activate their first element while being built
	p := &Panel{suppress: true}

	left := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}),
			),
		),
	)

	left.AddChild(widget.NewLabel(widget.LabelOpts.Text("Tools", &fontFace, labelColor)))
	toolRow := row()
	for _, t := range tool.All {
		btn := toggleButton(theme, &fontFace, t.String(), 64)
		p.toolButtons = append(p.toolButtons, btn)
		toolRow.AddChild(btn)
	}
	p.toolGroup = radioGroup(p.toolButtons, func(idx int) {
		if !p.suppress && h.onTool != nil {
			h.onTool(tool.All[idx])
		}
	})
	left.AddChild(toolRow)

	historyRow := row()
	p.undoBtn = actionButton(theme, &fontFace, "Undo", h.onUndo)
	p.redoBtn = actionButton(theme, &fontFace, "Redo", h.onRedo)
	historyRow.AddChild(p.undoBtn)
	historyRow.AddChild(p.redoBtn)
	historyRow.AddChild(actionButton(theme, &fontFace, "Export", h.onExport))
	left.AddChild(historyRow)

	tabRow := row()
	for _, tab := range []tool.Tab{tool.Tiles, tool.Objects} {
		btn := toggleButton(theme, &fontFace, tab.String(), 96)
		p.tabButtons = append(p.tabButtons, btn)
		tabRow.AddChild(btn)
	}
	p.tabGroup = radioGroup(p.tabButtons, func(idx int) {
		if !p.suppress && h.onTab != nil {
			h.onTab(tool.Tab(idx))
		}
	})
	left.AddChild(tabRow)

	p.frames = widget.NewList(
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth-16, 360),
		)),
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			name, _ := e.(string)
			return name
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			name, ok := args.Entry.(string)
			if !ok || p.suppress || h.onFrame == nil {
				return
			}
			h.onFrame(name)
		}),
	)
	left.AddChild(p.frames)

	p.status = widget.NewLabel(widget.LabelOpts.Text("", &fontFace, labelColor))
	left.AddChild(p.status)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchVertical:    true,
	}
	root.AddChild(left)
	ui.Container = root

	p.suppress = false
	p.SetFrames(frames)
	p.SetHistory(false, false)
	return ui, p
}

func row() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
}

func toggleButton(theme *widget.Theme, fontFace *text.Face, label string, width int) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, fontFace, toggleColours),
		widget.ButtonOpts.ToggleMode(),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, 32),
		),
	)
}

func actionButton(theme *widget.Theme, fontFace *text.Face, label string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(60, 32),
		),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func radioGroup(buttons []*widget.Button, changed func(idx int)) *widget.RadioGroup {
	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	return widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for idx, b := range buttons {
				if args.Active == b {
					changed(idx)
					return
				}
			}
		}),
	)
}

func (p *Panel) SetTool(t tool.Tool) {
	idx := int(t)
	if idx < 0 || idx >= len(p.toolButtons) {
		return
	}
	p.suppress = true
	p.toolGroup.SetActive(p.toolButtons[idx])
	p.suppress = false
}

func (p *Panel) SetTab(tab tool.Tab) {
	idx := int(tab)
	if idx < 0 || idx >= len(p.tabButtons) {
		return
	}
	p.suppress = true
	p.tabGroup.SetActive(p.tabButtons[idx])
	p.suppress = false
}

// SetFrames replaces the picker entries.
func (p *Panel) SetFrames(names []string) {
	p.suppress = true
	p.entries = make([]any, len(names))
	for i, n := range names {
		p.entries[i] = n
	}
	p.frames.SetEntries(p.entries)
	p.suppress = false
}

func (p *Panel) SetHistory(canUndo, canRedo bool) {
	p.undoBtn.GetWidget().Disabled = !canUndo
	p.redoBtn.GetWidget().Disabled = !canRedo
}

func (p *Panel) SetStatus(msg string) {
	p.status.Label = msg
}
