// Package ui implements the interactive disambiguation picker using bubbletea's Elm architecture.
//
// When a spoken phrase matches more than one playlist without a clear winner,
// [PickerModel] presents the ranked candidates as a navigable list. Selecting
// an entry resolves the phrase; esc or q cancels the whole add.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
