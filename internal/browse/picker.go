package browse

import (
	"cmp"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/salarynorm/internal/model"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// AllCities is the picker entry that selects every record.
const AllCities = ""

// CityOption is one picker entry.
type CityOption struct {
	City  string // AllCities for the catch-all entry
	Count int
}

func (o CityOption) label() string {
	name := o.City
	if name == AllCities {
		name = "All cities"
	}
	return fmt.Sprintf("%s (%d)", name, o.Count)
}

// CityOptions lists the cities in records by descending posting count,
// preceded by the all-cities entry. Records without a city are only
// reachable through the all-cities entry.
func CityOptions(records []model.CleanRecord) []CityOption {
	counts := map[string]int{}
	for _, r := range records {
		if r.City != "" {
			counts[r.City]++
		}
	}
	opts := make([]CityOption, 0, len(counts)+1)
	for city, n := range counts {
		opts = append(opts, CityOption{City: city, Count: n})
	}
	slices.SortFunc(opts, func(a, b CityOption) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.City, b.City)
	})
	return append([]CityOption{{City: AllCities, Count: len(records)}}, opts...)
}

// FilterByCity returns the records in city, or all records for AllCities.
func FilterByCity(records []model.CleanRecord, city string) []model.CleanRecord {
	if city == AllCities {
		return records
	}
	var out []model.CleanRecord
	for _, r := range records {
		if r.City == city {
			out = append(out, r)
		}
	}
	return out
}

type pickerModel struct {
	options []CityOption
	cursor  int
	chosen  int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Salary Browser · Select a city")
	s += "\n"

	for i, o := range m.options {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+o.label()) + "\n"
		} else {
			s += pickerItemStyle.Render(o.label()) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunCityPicker shows an interactive city selector.
// Returns the index of the chosen option, or a negative value if the user quit.
func RunCityPicker(options []CityOption) (int, error) {
	m := pickerModel{
		options: options,
		chosen:  -1,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	return final.chosen, nil
}
