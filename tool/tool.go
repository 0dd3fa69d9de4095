// Package tool holds the current tool and brush selection.
package tool

import (
	"fmt"
	"strings"
)

type Tool int

const (
	Brush Tool = iota
	Eraser
	Bucket
)

// All lists the tools in toolbar order.
var All = []Tool{Brush, Eraser, Bucket}

func (t Tool) String() string {
	switch t {
	case Brush:
		return "Brush"
	case Eraser:
		return "Eraser"
	case Bucket:
		return "Bucket"
	default:
		return "Unknown"
	}
}

// ParseTool accepts a tool name in any case.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brush":
		return Brush, nil
	case "eraser", "erase":
		return Eraser, nil
	case "bucket", "fill":
		return Bucket, nil
	default:
		return Brush, fmt.Errorf("tool: unknown tool %q", s)
	}
}

// Tab is the picker tab a selection came from; it decides which layer
// subsequent edits target.
type Tab int

const (
	Tiles Tab = iota
	Objects
)

func (t Tab) String() string {
	if t == Objects {
		return "objects"
	}
	return "tiles"
}

// Hotkeys maps single keys to tools.
var Hotkeys = map[string]Tool{
	"1": Brush,
	"2": Eraser,
	"3": Bucket,
}

// ToolForKey looks up a hotkey.
func ToolForKey(key string) (Tool, bool) {
	t, ok := Hotkeys[strings.ToLower(key)]
	return t, ok
}
