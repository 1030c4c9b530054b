package editor

import (
	"sync"
)

// AppState is the explicit application-state object for one user's
// workspace: the selected note and notebook plus sidebar visibility.
// Components receive it by reference and mutate it only through these
// operations; there are no ambient globals.
type AppState struct {
	mu                 sync.Mutex
	selectedNoteID     *string
	selectedNotebookID *string
	sidebarOpen        bool
}

// NewAppState returns the initial workspace state: sidebar open, nothing
// selected.
func NewAppState() *AppState {
	return &AppState{sidebarOpen: true}
}

// SetSelectedNote records the currently open note (nil = none).
func (a *AppState) SetSelectedNote(id *string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectedNoteID = id
}

// SelectedNote returns the currently open note id, or nil.
func (a *AppState) SelectedNote() *string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedNoteID
}

// SetSelectedNotebook records the active notebook filter (nil = all).
func (a *AppState) SetSelectedNotebook(id *string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectedNotebookID = id
}

// SelectedNotebook returns the active notebook filter, or nil.
func (a *AppState) SelectedNotebook() *string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedNotebookID
}

// SetSidebarOpen sets sidebar visibility.
func (a *AppState) SetSidebarOpen(open bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sidebarOpen = open
}

// ToggleSidebar flips sidebar visibility and returns the new value.
func (a *AppState) ToggleSidebar() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sidebarOpen = !a.sidebarOpen
	return a.sidebarOpen
}

// SidebarOpen returns sidebar visibility.
func (a *AppState) SidebarOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sidebarOpen
}
