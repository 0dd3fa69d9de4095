package tool

// State is the current tool plus brush selection. Tile and Object are
// mutually exclusive; an empty string means nothing is selected.
type State struct {
	tool   Tool
	tile   string
	object string
	tab    Tab
}

// NewState starts with the brush on the tiles tab and nothing selected.
func NewState() *State {
	return &State{tool: Brush, tab: Tiles}
}

// Snapshot is a value copy of State. The editor reads one per tool
// application so a single edit sees one consistent selection.
type Snapshot struct {
	Tool   Tool
	Tile   string
	Object string
	Tab    Tab
}

func (s *State) Tool() Tool { return s.tool }
func (s *State) Tile() string { return s.tile }
func (s *State) Object() string { return s.object }
func (s *State) Tab() Tab { return s.tab }

func (s *State) SetTool(t Tool) {
	s.tool = t
}

// SelectTile selects a ground tile and switches edits to the tiles tab.
func (s *State) SelectTile(frame string) {
	s.tile = frame
	s.object = ""
	s.tab = Tiles
}

// SelectObject selects an object and switches edits to the objects tab.
func (s *State) SelectObject(frame string) {
	s.object = frame
	s.tile = ""
	s.tab = Objects
}

// SetTab switches tabs. Like the picker, switching tabs drops the current
// selection.
func (s *State) SetTab(tab Tab) {
	if tab == s.tab {
		return
	}
	s.tab = tab
	s.tile = ""
	s.object = ""
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{Tool: s.tool, Tile: s.tile, Object: s.object, Tab: s.tab}
}
