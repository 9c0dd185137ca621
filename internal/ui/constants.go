package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconDownload = "⬇"
	IconFolder   = "📁"
	IconError    = "❌"
	IconCheck    = "✔"
	IconPending  = "⏳"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Window and row sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 560

	StatusLabelWidth  float32 = 110
	VersionLabelWidth float32 = 90
	PercentLabelWidth float32 = 48
	ProgressBarWidth  float32 = 140

	RowMinWidth  float32 = 520
	RowMinHeight float32 = 44
)

// EventTick is how often the window drains updater events
const EventTick = 100 * time.Millisecond

// AutoStartDelay postpones the startup batch until the window is shown
const AutoStartDelay = 500 * time.Millisecond
