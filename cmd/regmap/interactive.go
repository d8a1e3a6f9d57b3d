package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/regmap/atdf"
	"github.com/wippyai/regmap/sfr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	regStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	unusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateRegisterList browserState = iota
	stateRegisterDetail
	stateMapView
)

type browserModel struct {
	err      error
	dev      *sfr.Device
	filename string
	filter   textinput.Model
	visible  []*sfr.Register
	selected int
	state    browserState
}

type loadedMsg struct {
	err error
	dev *sfr.Device
}

func newBrowserModel(filename string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter registers"
	ti.Prompt = "/ "
	ti.Width = 30

	return &browserModel{
		filename: filename,
		filter:   ti,
		state:    stateRegisterList,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadDevice
}

func (m *browserModel) loadDevice() tea.Msg {
	doc, err := atdf.DecodeFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	start, length, err := doc.Window()
	if err != nil {
		return loadedMsg{err: err}
	}

	raws, err := doc.Registers()
	if err != nil {
		return loadedMsg{err: err}
	}

	dev, err := sfr.NewDevice(doc.Name(), raws, start, length)
	if err != nil {
		return loadedMsg{err: err}
	}

	return loadedMsg{dev: dev}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if !m.filter.Focused() {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateRegisterList && !m.filter.Focused() && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateRegisterList && !m.filter.Focused() && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateRegisterList && !m.filter.Focused() {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "m":
			if m.state == stateRegisterList && !m.filter.Focused() {
				m.state = stateMapView
			}

		case "enter":
			switch m.state {
			case stateRegisterList:
				if m.filter.Focused() {
					m.filter.Blur()
				} else if len(m.visible) > 0 {
					m.state = stateRegisterDetail
				}
			case stateRegisterDetail, stateMapView:
				m.state = stateRegisterList
			}

		case "esc":
			switch m.state {
			case stateRegisterList:
				if m.filter.Focused() {
					m.filter.Blur()
				} else if m.filter.Value() != "" {
					m.filter.SetValue("")
					m.refilter()
				}
			case stateRegisterDetail, stateMapView:
				m.state = stateRegisterList
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.dev = msg.dev
		m.refilter()
	}

	if m.state == stateRegisterList && m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.refilter()
		return m, cmd
	}

	return m, nil
}

// refilter rebuilds the visible register list from the filter text and
// clamps the cursor to it.
func (m *browserModel) refilter() {
	if m.dev == nil {
		return
	}

	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, reg := range m.dev.Regs.Sorted() {
		if needle == "" || strings.Contains(strings.ToLower(reg.Name), needle) {
			m.visible = append(m.visible, reg)
		}
	}

	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.dev == nil {
		return "Loading device..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Register Map"))
	fmt.Fprintf(&b, " %s  [%#x, %#x)\n\n",
		m.dev.Name, m.dev.Start, uint64(m.dev.Start)+uint64(m.dev.Length))

	switch m.state {
	case stateRegisterList:
		m.viewList(&b)
	case stateRegisterDetail:
		m.viewDetail(&b)
	case stateMapView:
		m.viewMap(&b)
	}

	return b.String()
}

func (m *browserModel) viewList(b *strings.Builder) {
	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(unusedStyle.Render("no matching registers"))
		b.WriteString("\n")
	}
	for i, reg := range m.visible {
		line := fmt.Sprintf("%s  %-10s %s",
			addrStyle.Render(fmt.Sprintf("%#04x", reg.Addr)), reg.Name, reg.Caption)
		if i == m.selected && !m.filter.Focused() {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter detail • / filter • m map • q quit"))
}

func (m *browserModel) viewDetail(b *strings.Builder) {
	reg := m.visible[m.selected]
	l := sfr.LayoutOf(reg)

	fmt.Fprintf(b, "%s - %s\n\n", regStyle.Render(reg.Name), reg.Caption)
	fmt.Fprintf(b, "address  %s\n", addrStyle.Render(fmt.Sprintf("%#04x", reg.Addr)))
	fmt.Fprintf(b, "size     %d byte(s)\n", reg.Size)
	fmt.Fprintf(b, "mask     %#x (%d addressable bits)\n", reg.Mask, l.Bits)

	switch l.Kind {
	case sfr.LayoutByte:
		b.WriteString("shape    byte register\n\n")
	case sfr.LayoutWord:
		b.WriteString("shape    word register with byte halves\n\n")
	default:
		fmt.Fprintf(b, "shape    irregular %d-bit bitset\n\n", l.Bits)
	}

	for _, f := range l.Fields {
		switch {
		case f.Padding:
			if f.Width > 1 {
				fmt.Fprintf(b, "  %s\n", unusedStyle.Render(fmt.Sprintf("b%d...b%d  unused", f.Pos, f.Last())))
			} else {
				fmt.Fprintf(b, "  %s\n", unusedStyle.Render(fmt.Sprintf("b%d       unused", f.Pos)))
			}
		case f.Anon:
			fmt.Fprintf(b, "  b%-2d     %s\n", f.Pos, f.Name)
		default:
			fmt.Fprintf(b, "  b%-2d     %s  %s\n", f.Pos, regStyle.Render(f.Name), f.Caption)
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/esc back • q quit"))
}

func (m *browserModel) viewMap(b *strings.Builder) {
	b.WriteString("Memory map:\n\n")

	for _, slot := range m.dev.Map.Slots {
		if slot.Kind == sfr.SlotRegister {
			reg := slot.Reg
			span := fmt.Sprintf("%#04x", slot.Addr)
			if reg.Size > 1 {
				span = fmt.Sprintf("%#04x-%#04x", slot.Addr, slot.Addr+uint32(reg.Size)-1)
			}
			fmt.Fprintf(b, "  %s  %s %s\n",
				addrStyle.Render(span), regStyle.Render(reg.Name), reg.Caption)
			continue
		}
		fmt.Fprintf(b, "  %s\n", unusedStyle.Render(fmt.Sprintf("%#04x  (unused)", slot.Addr)))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/esc back • q quit"))
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newBrowserModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
