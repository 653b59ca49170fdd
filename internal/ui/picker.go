package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackdrop/internal/resolve"
	"github.com/desertthunder/trackdrop/internal/services"
)

var _ list.Item = candidateItem{}

// candidateItem wraps [resolve.RankedCandidate] to implement [list.Item].
type candidateItem struct {
	candidate resolve.RankedCandidate
}

func (i candidateItem) FilterValue() string { return i.candidate.Candidate.Name }
func (i candidateItem) Title() string {
	if i.candidate.Candidate.IsAlias {
		return fmt.Sprintf("%s → %s", i.candidate.Candidate.Name, i.candidate.Playlist.Name)
	}
	return i.candidate.Playlist.Name
}
func (i candidateItem) Description() string {
	return fmt.Sprintf("%d tracks • score %.2f", i.candidate.Playlist.TrackCount, i.candidate.Score)
}

// keyMap defines the [key.Binding] mapping for the picker.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.enter, k.quit},
	}
}

// PickerModel presents ranked candidates for an ambiguous phrase and
// resolves to the user's selection or a cancellation.
type PickerModel struct {
	phrase     string
	candidates []resolve.RankedCandidate
	list       list.Model
	help       help.Model
	keys       keyMap
	width      int
	height     int
	selected   *services.Playlist
	cancelled  bool
}

// NewPickerModel creates a picker over the ranked candidates.
func NewPickerModel(phrase string, candidates []resolve.RankedCandidate) *PickerModel {
	items := make([]list.Item, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{candidate: c}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Which playlist did you mean by %q?", phrase)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return &PickerModel{
		phrase:     phrase,
		candidates: candidates,
		list:       l,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

func (m *PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the picker state.
func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.list.SelectedItem().(candidateItem); ok {
				playlist := item.candidate.Playlist
				m.selected = &playlist
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the candidate list with contextual help.
func (m *PickerModel) View() string {
	return m.list.View() + "\n" + styles.help.Render(m.help.View(m.keys))
}

// Selection returns the chosen playlist, or false when the user cancelled.
func (m *PickerModel) Selection() (services.Playlist, bool) {
	if m.cancelled || m.selected == nil {
		return services.Playlist{}, false
	}
	return *m.selected, true
}

// Pick runs the picker and blocks until the user selects or cancels.
func Pick(phrase string, candidates []resolve.RankedCandidate) (services.Playlist, bool, error) {
	model := NewPickerModel(phrase, candidates)

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return services.Playlist{}, false, fmt.Errorf("picker failed: %w", err)
	}

	picker, ok := final.(*PickerModel)
	if !ok {
		return services.Playlist{}, false, fmt.Errorf("unexpected picker model type")
	}

	playlist, chosen := picker.Selection()
	return playlist, chosen, nil
}
