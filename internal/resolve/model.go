// internal/resolve/model.go
package resolve

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"peergrade/internal/compile"
	"peergrade/internal/namematch"
	"peergrade/internal/roster"
)

// item is one roster candidate in the picker list.
type item struct {
	index   int
	student roster.Student
}

func (i item) Title() string { return i.student.Name }

func (i item) Description() string {
	desc := "login " + i.student.SISLoginID
	if i.student.Section != "" {
		desc += " · section " + i.student.Section
	}
	return desc
}

func (i item) FilterValue() string { return i.student.Name + " " + i.student.SISLoginID }

// model steps through the requests. decided maps request ID to the
// accepted roster index; skipped requests stay absent.
type model struct {
	reqs []compile.Request
	ro   *roster.Roster

	cur      int
	list     list.Model
	decided  map[int]int
	canceled bool

	width  int
	height int
}

func newModel(reqs []compile.Request, ro *roster.Roster) *model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	m := &model{
		reqs:    reqs,
		ro:      ro,
		list:    l,
		decided: map[int]int{},
	}
	m.refresh()
	return m
}

// refresh loads the current request's candidates into the list, best
// guesses first.
func (m *model) refresh() {
	req := m.reqs[m.cur]
	order := rankCandidates(req, m.ro)
	items := make([]list.Item, len(order))
	for i, ri := range order {
		items[i] = item{index: ri, student: m.ro.Students[ri]}
	}
	m.list.ResetFilter()
	m.list.SetItems(items)
	m.list.Select(0)
}

// rankCandidates orders the full roster for one request: the tie set
// from matching first, then fuzzy-ranked names, then everyone else.
func rankCandidates(req compile.Request, ro *roster.Roster) []int {
	seen := make([]bool, ro.Len())
	order := make([]int, 0, ro.Len())
	add := func(i int) {
		if !seen[i] {
			seen[i] = true
			order = append(order, i)
		}
	}
	for _, i := range req.Candidates {
		add(i)
	}
	names := make([]string, ro.Len())
	for i, s := range ro.Students {
		names[i] = s.Name
	}
	for _, mt := range fuzzy.Find(namematch.Clean(req.Entered), names) {
		add(mt.Index)
	}
	for i := range names {
		add(i)
	}
	return order
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(0, msg.Width-4), max(0, msg.Height-12))

	case tea.KeyMsg:
		// While a filter is being typed every key belongs to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() != list.Unfiltered {
				break // clears the filter
			}
			m.canceled = true
			return m, tea.Quit
		case "enter":
			it, ok := m.list.SelectedItem().(item)
			if !ok {
				return m, nil
			}
			m.decided[m.reqs[m.cur].ID] = it.index
			return m.advance()
		case "s":
			return m.advance()
		case "S":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// advance moves to the next request, quitting after the last one.
func (m *model) advance() (tea.Model, tea.Cmd) {
	m.cur++
	if m.cur >= len(m.reqs) {
		return m, tea.Quit
	}
	m.refresh()
	return m, nil
}

func (m *model) View() string {
	if m.cur >= len(m.reqs) {
		return ""
	}
	req := m.reqs[m.cur]

	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Resolve %q (%d/%d)", req.Entered, m.cur+1, len(m.reqs)))

	var lines []string
	switch req.Kind {
	case compile.KindSelf:
		lines = append(lines, "Self response")
		if req.Email != "" {
			lines = append(lines, "Email: "+req.Email)
		}
	case compile.KindPeer:
		by := req.Respondent
		if by == "" {
			by = "unknown respondent"
		}
		lines = append(lines, "Peer eval by "+by)
	}
	if req.Section != "" {
		lines = append(lines, "Section: "+req.Section)
	}
	if req.Team != "" {
		lines = append(lines, "Team: "+req.Team)
	}
	if len(req.Rated) > 0 {
		lines = append(lines, "Rated: "+strings.Join(req.Rated, ", "))
	}
	lines = append(lines, "From: "+req.Ref.String())
	if req.Count > 1 {
		lines = append(lines, fmt.Sprintf("Seen in %d rows", req.Count))
	}
	ctx := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render("Enter → accept    s → skip    S → skip rest    Esc → cancel")

	return lipgloss.JoinVertical(lipgloss.Left, head, ctx, m.list.View(), hint)
}
