package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/stratlife/pkg/request"
	"github.com/stefanpenner/stratlife/pkg/store"
	"github.com/stefanpenner/stratlife/pkg/view"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}

	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2
	if m.input != inputNone {
		footerLines++
	}
	contentHeight := h - headerLines - footerLines

	var body string
	switch m.screen {
	case ScreenDashboard:
		body = m.renderDashboard(w)
	case ScreenCalendar:
		body = m.renderCalendar(w)
	default:
		body = m.renderPlanner(w, contentHeight)
	}
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(body, i, w))
		b.WriteString("\n")
	}

	if m.input != inputNone {
		b.WriteString(InputPromptStyle.Render("> ") + m.textInput.View())
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("StratLife")
	if m.requests.Pending() {
		title += " " + m.spinner.View()
	}

	stats := view.ComputeStats(m.store.All())
	count := HeaderCountStyle.Render(fmt.Sprintf("%d/%d goals complete", stats.Completed, stats.Total))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(count) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + count
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range screenNames {
		if Screen(i) == m.screen {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	if m.screen == ScreenPlanner {
		tabs = append(tabs, FooterStyle.Render("  │ "))
		for _, h := range store.Horizons {
			label := strings.ToUpper(string(h[:1])) + string(h[1:])
			if h == m.horizon {
				tabs = append(tabs, ActiveTabStyle.Render(label))
			} else {
				tabs = append(tabs, InactiveTabStyle.Render(label))
			}
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) renderPlanner(width, height int) string {
	leftWidth := width / 3
	if leftWidth < 24 {
		leftWidth = 24
	}
	rightWidth := width - leftWidth - 1
	if rightWidth < 20 {
		rightWidth = 20
	}

	left := m.renderList(leftWidth, height)
	right := m.renderDetail(rightWidth)

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	var lines []string
	for i := 0; i < height; i++ {
		lines = append(lines, getLine(left, i, leftWidth)+sep+getLine(right, i, rightWidth))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderList(width, height int) string {
	lines := []string{HeaderStyle.Render(plannerTitle(m.horizon)), ""}

	if len(m.items) == 0 {
		hint := "No goals yet. Press 'a' to add one"
		if m.horizon == store.HorizonAnnual {
			hint += " or 'P' to plan"
		}
		lines = append(lines, FooterStyle.Render(hint+"."))
		return strings.Join(lines, "\n")
	}

	// Scrolling window, two lines per item
	avail := (height - 2) / 2
	if avail < 1 {
		avail = 1
	}
	start := 0
	if m.cursor >= avail {
		start = m.cursor - avail + 1
	}
	end := start + avail
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, m.renderListItem(m.items[i], i == m.cursor, width)...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderListItem(item ListItem, isSelected bool, width int) []string {
	g := item.Goal
	icon := statusIcon(g.Status)
	if m.requests.State(request.Key{Op: request.OpBreakdown, GoalID: g.ID}) == request.Pending {
		icon = m.spinner.View()
	}

	title := truncate(g.Title, width-4)
	line := icon + " " + title
	if w := lipgloss.Width(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	if isSelected {
		line = SelectedStyle.Render(line)
	} else if g.Status == store.StatusCancelled {
		line = CancelledStyle.Render(line)
	}

	meta := "  " + progressBar(g.Progress, 10) + " " +
		CategoryStyle.Render(g.CategoryOrDefault())
	if !g.DueDate.IsZero() {
		meta += " " + DueStyle.Render(g.DueDate.In(m.loc).Format("Jan 2"))
	}
	if item.Children > 0 {
		meta += DueStyle.Render(fmt.Sprintf(" ⤷%d", item.Children))
	}
	return []string{line, meta}
}

func (m Model) renderDetail(width int) string {
	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return FooterStyle.Render(" Select a goal to view details")
	}
	item := m.items[m.cursor]

	var md strings.Builder
	md.WriteString(store.RenderMarkdown(item.Goal))
	if item.ParentTitle != "" {
		md.WriteString("\n**Supports:** " + item.ParentTitle + "\n")
	}
	if err := m.requests.Err(request.Key{Op: request.OpBreakdown, GoalID: item.Goal.ID}); err != nil {
		md.WriteString("\n> Breakdown failed: " + err.Error() + "\n")
	}

	rendered := md.String()
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(rendered); err == nil {
			rendered = out
		}
	}
	return strings.TrimRight(rendered, "\n ")
}

func (m Model) renderDashboard(width int) string {
	goals := m.store.All()
	stats := view.ComputeStats(goals)

	var lines []string
	lines = append(lines, HeaderStyle.Render("Overview"), "")
	row := func(label string, v int) {
		lines = append(lines, StatLabelStyle.Render(label)+StatValueStyle.Render(strconv.Itoa(v)))
	}
	row("Total", stats.Total)
	row("Completed", stats.Completed)
	row("In progress", stats.InProgress)
	row("Not started", stats.NotStarted)
	lines = append(lines,
		StatLabelStyle.Render("Completion")+progressBar(stats.CompletionRate, 20)+" "+
			StatValueStyle.Render(strconv.Itoa(stats.CompletionRate)+"%"),
		"",
		HeaderStyle.Render("By category"),
		"",
	)

	counts := view.ByCategory(goals)
	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	for _, c := range counts {
		pct := 0
		if maxCount > 0 {
			pct = c.Count * 100 / maxCount
		}
		lines = append(lines, StatLabelStyle.Render(c.Category)+progressBar(pct, 20)+" "+strconv.Itoa(c.Count))
	}

	lines = append(lines, "", HeaderStyle.Render("Coach"))
	advice := m.advice
	switch {
	case m.requests.State(request.Key{Op: request.OpAdvice}) == request.Pending:
		advice = m.spinner.View() + " Thinking..."
	case advice == "":
		advice = "Press 'i' for advice on your in-progress goals."
	}
	boxWidth := width - 4
	if boxWidth > 72 {
		boxWidth = 72
	}
	lines = append(lines, AdviceStyle.Width(boxWidth).Render(advice))

	return strings.Join(lines, "\n")
}

func (m Model) renderCalendar(width int) string {
	days := view.ByCalendarDay(m.store.All(), m.month, m.loc)
	today := m.now().In(m.loc)

	var lines []string
	lines = append(lines, HeaderStyle.Render(m.month.String()), "")

	var hdr []string
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		hdr = append(hdr, CalendarHeaderStyle.Render(d))
	}
	lines = append(lines, strings.Join(hdr, ""))

	var week []string
	for i := 0; i < int(m.month.FirstWeekday()); i++ {
		week = append(week, CalendarDayStyle.Render(""))
	}
	for d := 1; d <= m.month.Days(); d++ {
		label := strconv.Itoa(d)
		style := CalendarDayStyle
		if n := len(days[d]); n > 0 {
			label += "•" + strconv.Itoa(n)
			style = CalendarBusyStyle
		}
		if m.month.Contains(today, m.loc) && today.Day() == d {
			style = CalendarTodayStyle
		}
		week = append(week, style.Render(label))
		if len(week) == 7 {
			lines = append(lines, strings.Join(week, ""))
			week = nil
		}
	}
	if len(week) > 0 {
		lines = append(lines, strings.Join(week, ""))
	}

	lines = append(lines, "")
	for d := 1; d <= m.month.Days(); d++ {
		for _, g := range days[d] {
			entry := fmt.Sprintf("%2d  %s %s %s", d, statusIcon(g.Status), g.Title,
				DueStyle.Render("("+string(g.Horizon)+")"))
			lines = append(lines, truncate(entry, width))
		}
	}
	if len(days) == 0 {
		lines = append(lines, FooterStyle.Render("Nothing due this month."))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	switch {
	case m.input != inputNone:
		help = "enter confirm  esc cancel"
	case m.screen == ScreenCalendar:
		help = "[ ] month  tab view  ? help  q quit"
	case m.screen == ScreenDashboard:
		help = "i advice  tab view  ? help  q quit"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete Goal"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s'? Sub-goals are kept.\n\n", m.deleteTarget.Title))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// progressBar draws pct (0-100) as a bar of width cells.
func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return BarFillStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
