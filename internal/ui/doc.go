// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for bulk playlist jobs:
//  1. [DirectoryView] : Browse the harvested directory and pick playlists
//  2. [ConfirmView] : Review targets before the job starts
//  3. [RunView] : Monitor per-target progress in real time
//  4. [ResultView] : Display the per-target outcomes
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress events flow through a broadcaster subscription, so the dashboard
// mirrors exactly what any other subscriber sees.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
