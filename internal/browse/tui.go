package browse

import (
	"cmp"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/salarynorm/internal/experience"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/salary"
)

// Lines per record item in the list view (title + subtitle + blank separator).
const recordItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	recordTitleStyle = lipgloss.NewStyle().
				Bold(true)

	recordSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedRecordTitleStyle = lipgloss.NewStyle().
					Bold(true).
					Foreground(lipgloss.Color("15")).
					Background(lipgloss.Color("24"))

	selectedRecordSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(18)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

type browseModel struct {
	title         string
	parsed        []model.CleanRecord
	unparsed      []model.CleanRecord
	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int // 0=left (parsed), 1=right (unparsed)
	leftCursor    int
	rightCursor   int
	width         int
	height        int
	ready         bool

	// Detail view state
	view           viewState
	detail         model.CleanRecord
	detailViewport viewport.Model
	showTrace      bool

	openURL  func(string)
	wantQuit bool
}

// newBrowseModel splits records into parsed (highest midpoint first) and
// unparsed (grouped by raw text) panes.
func newBrowseModel(title string, records []model.CleanRecord) browseModel {
	var parsed, unparsed []model.CleanRecord
	for _, r := range records {
		if r.SalaryParsed {
			parsed = append(parsed, r)
		} else {
			unparsed = append(unparsed, r)
		}
	}
	slices.SortStableFunc(parsed, func(a, b model.CleanRecord) int {
		return cmp.Compare(midOf(b), midOf(a))
	})
	slices.SortStableFunc(unparsed, func(a, b model.CleanRecord) int {
		return cmp.Compare(a.SalaryRaw, b.SalaryRaw)
	})
	return browseModel{
		title:    title,
		parsed:   parsed,
		unparsed: unparsed,
		openURL:  openURL,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.detail.JobURL != "" {
			m.openURL(m.detail.JobURL)
		}
		return m, nil
	case "r":
		m.showTrace = !m.showTrace
		m.detailViewport.SetContent(m.renderDetail())
		m.detailViewport.SetYOffset(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.parsed)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.unparsed)-1, 0))
	}
}

func (m *browseModel) ensureCursorVisible() {
	var vp *viewport.Model
	var cursor int
	if m.activePane == 0 {
		vp = &m.leftViewport
		cursor = m.leftCursor
	} else {
		vp = &m.rightViewport
		cursor = m.rightCursor
	}

	cursorTop := cursor * recordItemHeight
	cursorBottom := cursorTop + recordItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	records := m.activeRecords()
	if len(records) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = records[m.activeCursor()]
	m.showTrace = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.leftViewport.SetContent(renderRecords(m.parsed, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderRecords(m.unparsed, m.rightCursor, m.activePane == 1))
}

func (m browseModel) activeRecords() []model.CleanRecord {
	if m.activePane == 0 {
		return m.parsed
	}
	return m.unparsed
}

func (m browseModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" Parsed (%d)", len(m.parsed))
	rightHeader := fmt.Sprintf(" Unparsed (%d)", len(m.unparsed))

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	leftPane := leftBorder.Render(m.leftViewport.View())
	rightPane := rightBorder.Render(m.rightViewport.View())

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	total := len(m.parsed) + len(m.unparsed)
	statusText := fmt.Sprintf(" %s | %d records | %s parsed    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		m.title, total, parseRate(len(m.parsed), total))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Posting Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  r parse trace  esc/backspace back  ↑/↓ scroll  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", r.JobTitle)
	addField("Company", r.CompanyName)
	addField("Industry", r.Industry)
	addField("City", r.City)
	addField("Education", r.EducationReq)

	b.WriteByte('\n')
	addField("Salary (raw)", r.SalaryRaw)
	addField("Monthly range", formatRange(r.SalaryMin, r.SalaryMax))
	addField("Period", r.SalaryPeriod)
	addField("Months / year", strconv.Itoa(r.SalaryMonths))
	addField("Midpoint", formatYuan(r.SalaryMid))
	addField("Annual estimate", formatYuan(r.SalaryAnnualEst))
	addField("Level", r.SalaryLevel)

	b.WriteByte('\n')
	addField("Experience (raw)", r.ExperienceReq)
	addField("Experience", experience.Bucket(r.ExperienceBucket).Label())

	b.WriteByte('\n')
	addField("Crawled", r.CrawlTime)
	addField("Job URL", r.JobURL)
	addField("Identity key", r.IdentityKey)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-lipgloss.Width(label), 3))
		return dividerStyle.Render(label + fill)
	}

	b.WriteByte('\n')
	if m.showTrace {
		p := salary.Parse(r.SalaryRaw)
		b.WriteString(divider("── Parser trace ") + "\n\n")
		addField("Negotiable", strconv.FormatBool(salary.IsNegotiable(r.SalaryRaw)))
		addField("Parsed", strconv.FormatBool(p.Parsed))
		addField("Monthly range", formatRange(p.MonthlyMin, p.MonthlyMax))
		addField("Period", p.Period.String())
		addField("Bonus months", strconv.Itoa(p.BonusMonths))
		addField("Bucket", experience.Classify(r.ExperienceReq).String())
	} else {
		b.WriteString(hintStyle.Render("  press r to re-run the parser on the raw text") + "\n")
	}

	return b.String()
}

func renderRecords(records []model.CleanRecord, cursor int, isActive bool) string {
	if len(records) == 0 {
		return "  (no records)"
	}

	var b strings.Builder
	for i, r := range records {
		isSelected := isActive && i == cursor

		titleSt := recordTitleStyle
		subtitleSt := recordSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedRecordTitleStyle
			subtitleSt = selectedRecordSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(fmt.Sprintf("%s · %s", r.JobTitle, r.CompanyName)))
		b.WriteByte('\n')

		salaryText := r.SalaryRaw
		if r.SalaryParsed {
			salaryText = fmt.Sprintf("%s (%s)", formatRange(r.SalaryMin, r.SalaryMax), r.SalaryLevel)
		} else if salaryText == "" {
			salaryText = "(empty)"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", r.City, salaryText,
			experience.Bucket(r.ExperienceBucket).Label())))
		b.WriteByte('\n')

		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func midOf(r model.CleanRecord) int {
	if r.SalaryMid == nil {
		return 0
	}
	return *r.SalaryMid
}

func formatRange(lo, hi *int) string {
	if lo == nil || hi == nil {
		return "n/a"
	}
	if *lo == *hi {
		return fmt.Sprintf("%d 元/月", *lo)
	}
	return fmt.Sprintf("%d-%d 元/月", *lo, *hi)
}

func formatYuan(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d 元", *v)
}

func parseRate(parsed, total int) string {
	if total == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(parsed)*100/float64(total))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowseTUI launches the interactive split-pane browser over records.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed esc
// to return to the picker.
func RunBrowseTUI(title string, records []model.CleanRecord) (bool, error) {
	p := tea.NewProgram(newBrowseModel(title, records), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browseModel)
	return final.wantQuit, nil
}
