package history

import "fmt"

// emptyFrame mirrors grid.EmptyFrame; history does not import grid.
const emptyFrame = "empty"

func absent(frame string) bool {
	return frame == "" || frame == emptyFrame
}

// Describe returns a short human readable summary of a record.
func Describe(r Record) string {
	switch rec := r.(type) {
	case nil:
		return "No actions yet"
	case TileEdit:
		return describeTile(rec)
	case ObjectEdit:
		return describeObject(rec)
	case FillEdit:
		return fmt.Sprintf("Used fill tool (%d tiles affected)", len(rec.Changes))
	default:
		return fmt.Sprintf("%T action", r)
	}
}

func describeTile(e TileEdit) string {
	switch {
	case (absent(e.Old) || e.OldAlpha == 0) && !absent(e.New):
		return fmt.Sprintf("Placed tile %q at (%d, %d)", e.New, e.Col, e.Row)
	case !absent(e.Old) && absent(e.New):
		return fmt.Sprintf("Erased tile %q at (%d, %d)", e.Old, e.Col, e.Row)
	case e.Old == e.New:
		return fmt.Sprintf("Placed tile at (%d, %d)", e.Col, e.Row)
	default:
		return fmt.Sprintf("Changed tile from %q to %q at (%d, %d)", e.Old, e.New, e.Col, e.Row)
	}
}

func describeObject(e ObjectEdit) string {
	switch {
	case e.Old == "" && e.New != "":
		return fmt.Sprintf("Placed object %q at (%d, %d)", e.New, e.Col, e.Row)
	case e.Old != "" && e.New == "":
		return fmt.Sprintf("Removed object %q at (%d, %d)", e.Old, e.Col, e.Row)
	default:
		return fmt.Sprintf("Replaced object %q with %q at (%d, %d)", e.Old, e.New, e.Col, e.Row)
	}
}

func (e Entry) String() string {
	switch e.Op {
	case OpUndo:
		return "Undid: " + Describe(e.Record)
	case OpRedo:
		return "Redid: " + Describe(e.Record)
	default:
		return Describe(e.Record)
	}
}
