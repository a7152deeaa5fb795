package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/fs-bridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateBrowse browserState = iota
	statePrompt
	stateViewFile
)

type promptKind int

const (
	promptNewFile promptKind = iota
	promptNewDir
)

type entryInfo struct {
	name string
	dir  bool
}

type browserModel struct {
	err      error
	mgr      *bridge.Manager
	entries  []entryInfo
	input    textinput.Model
	viewName string
	viewData string
	selected int
	prompt   promptKind
	state    browserState
}

func newBrowserModel(mgr *bridge.Manager) *browserModel {
	m := &browserModel{mgr: mgr}
	m.reload()
	return m
}

func (m *browserModel) cwd() string {
	defer m.mgr.Pool().Drain()
	s, _ := m.mgr.Proxies().String(m.mgr.CurrentDirectoryPath())
	return s
}

func (m *browserModel) reload() {
	defer m.mgr.Pool().Drain()

	m.entries = nil
	m.err = nil

	h := m.mgr.DirectoryContents(pathHandle(m.mgr, "."))
	if h == 0 {
		m.err = fmt.Errorf("cannot list %s", m.cwd())
		return
	}
	p, ok := m.mgr.Proxies().GetKind(h, bridge.ProxyStringList)
	if !ok {
		return
	}
	store := m.mgr.Store()
	base := store.WorkingDirectory()
	for _, name := range p.(*bridge.StringListProxy).Values() {
		m.entries = append(m.entries, entryInfo{
			name: name,
			dir:  !store.IsFile(base.Join(name)),
		})
	}
	if m.selected >= len(m.entries) {
		m.selected = 0
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == statePrompt {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.state = stateBrowse
			return m, nil
		case "enter":
			m.applyPrompt()
			m.state = stateBrowse
			m.reload()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.state == stateViewFile {
			m.state = stateBrowse
		}

	case "up", "k":
		if m.state == stateBrowse && m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.state == stateBrowse && m.selected < len(m.entries)-1 {
			m.selected++
		}

	case "enter", "right", "l":
		if m.state == stateBrowse {
			m.open()
		}

	case "backspace", "left", "h":
		if m.state == stateBrowse {
			m.mgr.ChangeCurrentDirectoryPath(pathHandle(m.mgr, ".."))
			m.mgr.Pool().Drain()
			m.selected = 0
			m.reload()
		}

	case "n":
		if m.state == stateBrowse {
			m.startPrompt(promptNewFile, "file name")
		}

	case "m":
		if m.state == stateBrowse {
			m.startPrompt(promptNewDir, "directory name")
		}

	case "d":
		if m.state == stateBrowse {
			m.deleteSelected()
			m.reload()
		}

	case "r":
		if m.state == stateBrowse {
			m.reload()
		}
	}

	return m, nil
}

func (m *browserModel) open() {
	if m.selected >= len(m.entries) {
		return
	}
	defer m.mgr.Pool().Drain()

	entry := m.entries[m.selected]
	if entry.dir {
		if m.mgr.ChangeCurrentDirectoryPath(pathHandle(m.mgr, entry.name)) {
			m.selected = 0
			m.reload()
		}
		return
	}

	full := m.mgr.Store().WorkingDirectory().Join(entry.name).String()
	h, err := m.mgr.ContentsAtPath(pathHandle(m.mgr, full))
	if err != nil || h == 0 {
		m.err = fmt.Errorf("cannot read %s", entry.name)
		return
	}
	data, _ := m.mgr.Proxies().Blob(h)
	m.viewName = entry.name
	m.viewData = string(data)
	m.state = stateViewFile
}

func (m *browserModel) startPrompt(kind promptKind, placeholder string) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.Focus()
	m.input = ti
	m.prompt = kind
	m.state = statePrompt
}

func (m *browserModel) applyPrompt() {
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		return
	}
	defer m.mgr.Pool().Drain()

	switch m.prompt {
	case promptNewFile:
		ok, err := m.mgr.CreateFile(pathHandle(m.mgr, name), 0, 0)
		if err != nil || !ok {
			m.err = fmt.Errorf("cannot create %s", name)
		}
	case promptNewDir:
		ok, err := m.mgr.CreateDirectory(pathHandle(m.mgr, name), true, 0, 0)
		if err != nil || !ok {
			m.err = fmt.Errorf("cannot create %s", name)
		}
	}
}

func (m *browserModel) deleteSelected() {
	if m.selected >= len(m.entries) {
		return
	}
	defer m.mgr.Pool().Drain()

	entry := m.entries[m.selected]
	ok, err := m.mgr.RemoveItem(pathHandle(m.mgr, entry.name), 0)
	if err != nil || !ok {
		m.err = fmt.Errorf("cannot remove %s", entry.name)
	}
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sandbox Browser"))
	b.WriteString(" ")
	b.WriteString(m.cwd())
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		if len(m.entries) == 0 {
			b.WriteString(helpStyle.Render("(empty)"))
			b.WriteString("\n")
		}
		for i, entry := range m.entries {
			line := entry.name
			if entry.dir {
				line = dirStyle.Render(line + "/")
			} else {
				line = fileStyle.Render(line)
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> "))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • backspace up • n file • m dir • d delete • q quit"))

	case statePrompt:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter create • esc cancel"))

	case stateViewFile:
		b.WriteString(fileStyle.Render(m.viewName))
		b.WriteString("\n\n")
		b.WriteString(m.viewData)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func runInteractive(mgr *bridge.Manager) error {
	p := tea.NewProgram(newBrowserModel(mgr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
