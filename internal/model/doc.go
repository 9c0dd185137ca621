package model

// Package model defines domain data structures used across the launcher:
// tracked items, transient download tasks, progress snapshots, item status
// enums and the error taxonomy shared by the updater and the UI.
