package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/kernel-descriptor/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	dumpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit a descriptor interactively and watch its encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.Unsupported(errors.PhaseConfig, "tui requires an interactive terminal")
			}
			p := tea.NewProgram(newEditorModel(), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

// Editor input order.
const (
	inputCellSize = iota
	inputNParticle
	inputStride0
	inputStride1
	inputStride2
	inputCount
)

var inputLabels = [inputCount]string{"cell_size", "n_particle", "stride[0]", "stride[1]", "stride[2]"}

type editorModel struct {
	err       error
	precision string
	dump      string
	hex       string
	probe     string
	inputs    []textinput.Model
	focusIdx  int
}

type probeResultMsg struct {
	err    error
	output string
}

func newEditorModel() *editorModel {
	defaults := [inputCount]string{"1", "0", "1", "1", "1"}
	m := &editorModel{
		precision: "f64",
		inputs:    make([]textinput.Model, inputCount),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-11s ", inputLabels[i])
		ti.SetValue(defaults[i])
		ti.Width = 24
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	m.refresh()
	return m
}

func (m *editorModel) Init() tea.Cmd {
	return textinput.Blink
}

// params reads the current field values.
func (m *editorModel) params() (*params, error) {
	p := &params{Precision: m.precision, Stride: make([]int64, 3)}

	cell, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[inputCellSize].Value()), 64)
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "cell_size", m.inputs[inputCellSize].Value(), "not a number")
	}
	p.CellSize = cell

	for i := inputNParticle; i < inputCount; i++ {
		v, err := strconv.ParseInt(strings.TrimSpace(m.inputs[i].Value()), 10, 64)
		if err != nil {
			return nil, errors.InvalidInput(errors.PhaseConfig, inputLabels[i], m.inputs[i].Value(), "not an integer")
		}
		if i == inputNParticle {
			p.NParticle = v
		} else {
			p.Stride[i-inputStride0] = v
		}
	}
	return p, nil
}

// refresh re-encodes the current values.
func (m *editorModel) refresh() {
	m.dump, m.hex, m.err = "", "", nil

	p, err := m.params()
	if err != nil {
		m.err = err
		return
	}
	var out []byte
	if p.Precision == "f32" {
		out, err = encodeAs[float32](p, false)
	} else {
		out, err = encodeAs[float64](p, false)
	}
	if err != nil {
		m.err = err
		return
	}

	var b bytes.Buffer
	if err := writeDump(&b, p.Precision, out); err != nil {
		m.err = err
		return
	}
	m.dump = strings.TrimRight(b.String(), "\n")
	m.hex = fmt.Sprintf("%x", out)
}

// probeCmd dispatches p to the built-in probe kernel. The command runs off
// the update loop and reads only the captured params.
func probeCmd(p *params, err error) tea.Cmd {
	return func() tea.Msg {
		if err != nil {
			return probeResultMsg{err: err}
		}

		var b bytes.Buffer
		if p.Precision == "f32" {
			err = runProbe[float32](context.Background(), &b, p, "")
		} else {
			err = runProbe[float64](context.Background(), &b, p, "")
		}
		return probeResultMsg{err: err, output: strings.TrimRight(b.String(), "\n")}
	}
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			m.focus((m.focusIdx + 1) % inputCount)
			return m, nil

		case "shift+tab", "up":
			m.focus((m.focusIdx + inputCount - 1) % inputCount)
			return m, nil

		case "ctrl+p":
			if m.precision == "f32" {
				m.precision = "f64"
			} else {
				m.precision = "f32"
			}
			m.probe = ""
			m.refresh()
			return m, nil

		case "enter":
			return m, probeCmd(m.params())
		}

	case probeResultMsg:
		if msg.err != nil {
			m.probe = errorStyle.Render(fmt.Sprintf("probe failed: %v", msg.err))
			if msg.output != "" {
				m.probe = msg.output + "\n" + m.probe
			}
		} else {
			m.probe = resultStyle.Render(msg.output)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		m.probe = ""
		m.refresh()
	}
	return m, cmd
}

func (m *editorModel) focus(idx int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	m.inputs[m.focusIdx].Focus()
}

func (m *editorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PMWD Descriptor"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(m.precision))
	b.WriteString("\n\n")

	for _, input := range m.inputs {
		b.WriteString(fieldStyle.Render(input.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(dumpStyle.Render(m.dump))
		b.WriteString("\n")
		b.WriteString(typeStyle.Render(m.hex))
	}
	b.WriteString("\n")

	if m.probe != "" {
		b.WriteString("\n")
		b.WriteString(m.probe)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field • ctrl+p toggle precision • enter probe • esc quit"))

	return b.String()
}
