// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view onboarding and dashboard workflow:
//  1. [ChecklistView] : Review onboarding steps with done markers
//  2. [ConfirmView] : Confirm the dashboard fetch
//  3. [RunView] : Monitor real-time progress updates
//  4. [ResultView] : Display tip totals, refundable counts, and song requests
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the CatalogEngine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
