package history

// Record is one undoable edit. The concrete types are TileEdit, ObjectEdit
// and FillEdit.
type Record interface {
	isRecord()
}

// TileEdit is a change to one ground cell. An empty New means the cell was
// erased back to the placeholder.
type TileEdit struct {
	Col      int
	Row      int
	Old      string
	New      string
	OldAlpha float64
	NewAlpha float64
}

// ObjectEdit is a change to one object cell. Empty Old/New mean no object.
type ObjectEdit struct {
	Col int
	Row int
	Old string
	New string
}

// FillEdit groups every cell changed by a single flood fill, in the order
// the fill touched them.
type FillEdit struct {
	Changes []TileEdit
}

func (TileEdit) isRecord()   {}
func (ObjectEdit) isRecord() {}
func (FillEdit) isRecord()   {}
