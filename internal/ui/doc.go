// Package ui contains the Fyne-based desktop window of the launcher. It
// renders one row per game plus the Flash Player, forwards button presses
// to the launcher context and the updater, and applies updater events on
// the UI thread. All UI strings are localized via Localization.
package ui
