package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LauncherTheme is a compact theme with the launcher's red and gold palette.
// Row status labels map onto Success, Error and Warning, so those colours
// double as the Installed, Failed and Downloading highlights.
type LauncherTheme struct{}

// NewLauncherTheme creates the launcher theme
func NewLauncherTheme() fyne.Theme {
	return &LauncherTheme{}
}

// Color returns theme colors
func (t *LauncherTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	dark := variant == theme.VariantDark

	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 56, G: 142, B: 60, A: 255} // Installed, up to date
	case theme.ColorNameError:
		return color.RGBA{R: 198, G: 40, B: 40, A: 255} // Failed
	case theme.ColorNameWarning:
		return color.RGBA{R: 255, G: 203, B: 5, A: 255} // Gold, in progress
	case theme.ColorNamePrimary:
		return color.RGBA{R: 204, G: 0, B: 0, A: 255} // Play button red
	case theme.ColorNameBackground:
		if dark {
			return color.RGBA{R: 24, G: 24, B: 28, A: 255}
		}
		return color.RGBA{R: 248, G: 246, B: 240, A: 255} // Warm off-white
	case theme.ColorNameForeground:
		if dark {
			return color.RGBA{R: 240, G: 240, B: 240, A: 255}
		}
		return color.RGBA{R: 33, G: 33, B: 33, A: 255}
	case theme.ColorNameDisabled:
		// Row buttons are disabled for the whole busy period and must stay readable
		if dark {
			return color.RGBA{R: 128, G: 128, B: 128, A: 255}
		}
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *LauncherTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *LauncherTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes, tighter than the default so four rows fit the
// fixed window without scrolling
func (t *LauncherTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3 // Default 4
	case theme.SizeNameInnerPadding:
		return 6 // Default 8
	case theme.SizeNameLineSpacing:
		return 2 // Default 4
	case theme.SizeNameText:
		return 13 // Default 14
	case theme.SizeNameHeadingText:
		return 18 // Title keeps the default
	case theme.SizeNameSubHeadingText:
		return 14 // Game names, default 16
	case theme.SizeNameCaptionText:
		return 10 // Byte counters under the progress bar
	case theme.SizeNameInputRadius:
		return 3 // Default 5
	case theme.SizeNameSelectionRadius:
		return 2 // Default 3
	}

	return theme.DefaultTheme().Size(name)
}
