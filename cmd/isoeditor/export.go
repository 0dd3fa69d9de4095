package main

import (
	"fmt"
	"sync"

	"github.com/milk9111/isomapper/mapfile"
	log "github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// export writes the map to the export directory and, when enabled, copies
// the JSON to the system clipboard.
func (g *Game) export() {
	doc := g.engine.Document()
	_, err := mapfile.Export(doc, g.cfg.Export.Dir, g.cfg.Export.Name, func(ok bool) {
		if ok {
			g.panel.SetStatus(fmt.Sprintf("Exported %s.json", g.cfg.Export.Name))
		} else {
			g.panel.SetStatus("Export failed")
		}
	})
	if err != nil || !g.cfg.Export.Clipboard {
		return
	}

	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		log.Warnf("clipboard unavailable: %v", clipboardErr)
		return
	}
	data, err := mapfile.Marshal(doc)
	if err != nil {
		log.Warnf("clipboard export: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Println("Copied map JSON to clipboard")
}
