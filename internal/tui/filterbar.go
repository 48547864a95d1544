package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/pages"
)

const (
	inputWidth = 20
	boundWidth = 8
)

// control is one filter input: a dropdown, a search box or a min/max pair.
type control struct {
	desc    filter.Descriptor
	options []string
	optIdx  int
	term    textinput.Model
	min     textinput.Model
	max     textinput.Model
	onMax   bool
}

func newControl(d filter.Descriptor) control {
	c := control{desc: d, options: []string{filter.All}}
	switch d.Kind {
	case filter.KindSearch:
		c.term = newInput(d.Placeholder, inputWidth)
	case filter.KindRange:
		c.min = newInput("min", boundWidth)
		c.max = newInput("max", boundWidth)
	}
	return c
}

func newInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 64
	in.Width = width
	in.Prompt = ""
	return in
}

func (c control) value() filter.Value {
	switch c.desc.Kind {
	case filter.KindChoice:
		return filter.Value{Selection: c.options[c.optIdx]}
	case filter.KindSearch:
		return filter.Value{Term: c.term.Value()}
	default:
		return filter.Value{Min: c.min.Value(), Max: c.max.Value()}
	}
}

// filterBar is the stack of filter controls above a page's grid, closed
// by the Clear Filters button.
type filterBar struct {
	controls []control
	focus    int
	editing  bool
	clear    Button
}

func newFilterBar(p pages.Page, clear Button) filterBar {
	fields := p.Fields()
	b := filterBar{controls: make([]control, len(fields)), clear: clear}
	for i, d := range fields {
		b.controls[i] = newControl(d)
	}
	return b
}

// setOptions refreshes dropdown entries from the loaded records. A current
// selection the records no longer offer stays selected at the end of the
// list rather than silently widening the filter to "All".
func (b *filterBar) setOptions(p pages.Page) {
	for i := range b.controls {
		c := &b.controls[i]
		if c.desc.Kind != filter.KindChoice {
			continue
		}
		current := c.options[c.optIdx]
		c.options = p.Options(c.desc.Name)
		c.optIdx = slices.Index(c.options, current)
		if c.optIdx < 0 {
			c.options = append(c.options, current)
			c.optIdx = len(c.options) - 1
		}
	}
}

// State is the filter state the controls currently express.
func (b filterBar) State() filter.State {
	st := make(filter.State, len(b.controls))
	for _, c := range b.controls {
		st[c.desc.Name] = c.value()
	}
	return st
}

// Reset returns every control to "All" or empty and leaves edit mode.
func (b *filterBar) Reset() {
	b.stopEdit()
	for i := range b.controls {
		c := &b.controls[i]
		c.optIdx = 0
		c.term.SetValue("")
		c.min.SetValue("")
		c.max.SetValue("")
		c.onMax = false
	}
}

func (b filterBar) onButton() bool { return b.focus == len(b.controls) }

// Height is the number of rendered lines.
func (b filterBar) Height() int { return len(b.controls) + 1 }

func (b *filterBar) move(delta int) {
	b.stopEdit()
	b.focus = max(0, min(len(b.controls), b.focus+delta))
}

// focusRow focuses the control on rendered line row, or the button.
func (b *filterBar) focusRow(row int) {
	if row < 0 || row > len(b.controls) {
		return
	}
	b.stopEdit()
	b.focus = row
}

// cycle steps a dropdown through its options, or flips a range control
// between its min and max inputs. It reports whether the state changed.
func (b *filterBar) cycle(delta int) bool {
	if b.onButton() {
		return false
	}
	c := &b.controls[b.focus]
	switch c.desc.Kind {
	case filter.KindChoice:
		n := len(c.options)
		if n <= 1 {
			return false
		}
		c.optIdx = ((c.optIdx+delta)%n + n) % n
		return true
	case filter.KindRange:
		c.onMax = delta > 0
	}
	return false
}

// startEdit focuses the text input under the cursor, if any.
func (b *filterBar) startEdit() tea.Cmd {
	in := b.activeInput()
	if in == nil {
		return nil
	}
	b.editing = true
	return in.Focus()
}

func (b *filterBar) stopEdit() {
	b.editing = false
	for i := range b.controls {
		b.controls[i].term.Blur()
		b.controls[i].min.Blur()
		b.controls[i].max.Blur()
	}
}

func (b *filterBar) activeInput() *textinput.Model {
	if b.onButton() {
		return nil
	}
	c := &b.controls[b.focus]
	switch c.desc.Kind {
	case filter.KindSearch:
		return &c.term
	case filter.KindRange:
		if c.onMax {
			return &c.max
		}
		return &c.min
	}
	return nil
}

// switchBound moves editing between the min and max inputs.
func (b *filterBar) switchBound() tea.Cmd {
	if b.onButton() || b.controls[b.focus].desc.Kind != filter.KindRange {
		return nil
	}
	c := &b.controls[b.focus]
	c.min.Blur()
	c.max.Blur()
	c.onMax = !c.onMax
	return b.activeInput().Focus()
}

// updateInput feeds a key to the input being edited and reports whether
// its value changed.
func (b *filterBar) updateInput(msg tea.Msg) (bool, tea.Cmd) {
	in := b.activeInput()
	if in == nil {
		return false, nil
	}
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return in.Value() != before, cmd
}

// View renders the controls, one per line, followed by the button line.
func (b filterBar) View(width int, focused bool, summary, errMsg string) string {
	lines := make([]string, 0, b.Height())
	for i, c := range b.controls {
		active := focused && i == b.focus
		label := labelStyle.Render(c.desc.Label)
		if active {
			label = labelStyle.Foreground(ColorBlue).Bold(true).Render(c.desc.Label)
		}
		lines = append(lines, label+b.renderControl(c, active))
	}

	parts := []string{b.clear.View(focused && b.onButton()), helpStyle.Render(summary)}
	if errMsg != "" {
		parts = append(parts, errorStyle.Render(errMsg))
	}
	lines = append(lines, strings.Join(parts, "  "))

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func (b filterBar) renderControl(c control, active bool) string {
	switch c.desc.Kind {
	case filter.KindChoice:
		v := c.options[c.optIdx]
		text := fmt.Sprintf("‹ %s ›", v)
		if active {
			return accentStyle.Render(text)
		}
		if v != filter.All {
			return lipgloss.NewStyle().Foreground(ColorWhite).Render(text)
		}
		return helpStyle.Render(text)
	case filter.KindSearch:
		return bracket(c.term.View(), active)
	default:
		minBox := bracket(c.min.View(), active && !c.onMax)
		maxBox := bracket(c.max.View(), active && c.onMax)
		return minBox + helpStyle.Render(" – ") + maxBox
	}
}

func bracket(s string, active bool) string {
	style := helpStyle
	if active {
		style = accentStyle
	}
	return style.Render("[") + s + style.Render("]")
}
