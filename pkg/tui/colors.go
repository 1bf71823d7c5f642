package tui

import "github.com/gdamore/tcell/v2"

// Muted base16-style palette shared by all views
var (
	ColorBackground = tcell.ColorBlack
	ColorUserText   = tcell.NewRGBColor(147, 181, 107) // Soft green
	ColorAgentText  = tcell.NewRGBColor(107, 147, 181) // Soft blue
	ColorDimText    = tcell.NewRGBColor(92, 80, 68)    // Warm gray
	ColorStatusText = tcell.NewRGBColor(245, 183, 97)  // Amber
	ColorErrorText  = tcell.NewRGBColor(217, 95, 95)   // Muted red
	ColorPrompt     = tcell.NewRGBColor(235, 135, 85)  // Orange
)

// Inline markup tags for tview dynamic colors
const (
	tagUser     = "[#93b56b]"
	tagAgent    = "[#6b93b5]"
	tagThinking = "[#5c5044::u]"
	tagDim      = "[#5c5044]"
	tagStatus   = "[#f5b761]"
	tagError    = "[#d95f5f]"
	tagReset    = "[-:-:-]"
)
