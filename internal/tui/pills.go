package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pilltrack/internal/dose"
	"github.com/sadopc/pilltrack/internal/store"
)

var pillColors = []string{"#2196F3", "#4CAF50", "#FF9800", "#F44336", "#9C27B0", "#00BCD4", "#FFEB3B", "#795548"}

type pillsModel struct {
	store  *store.Store
	width  int
	height int

	pills  []store.Pill
	cursor int

	formActive bool
	form       *huh.Form
	editing    bool
	editingID  string

	// Form field pointers (survive value copies)
	formName         *string
	formDosage       *string
	formType         *string
	formTimesPerDay  *string
	formTimesOfDay   *[]string
	formInstructions *string
	formColor        *string
	formShape        *string
	formPackSize     *string
	formAmount       *string
}

func newPillsModel(s *store.Store) pillsModel {
	name, dosage, typ, tpd := "", "", string(store.TypeTablet), "1"
	instructions, color, shape := "", pillColors[0], "round"
	packSize, amount := "30", "30"
	timesOfDay := []string{}
	return pillsModel{
		store:            s,
		formName:         &name,
		formDosage:       &dosage,
		formType:         &typ,
		formTimesPerDay:  &tpd,
		formTimesOfDay:   &timesOfDay,
		formInstructions: &instructions,
		formColor:        &color,
		formShape:        &shape,
		formPackSize:     &packSize,
		formAmount:       &amount,
	}
}

func (m *pillsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type pillsDataMsg struct {
	pills []store.Pill
}

func (m pillsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		pills, err := m.store.ListPills()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return pillsDataMsg{pills: pills}
	}
}

func (m pillsModel) update(msg tea.Msg) (pillsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case pillsDataMsg:
		m.pills = msg.pills
		if m.cursor >= len(m.pills) {
			m.cursor = max(0, len(m.pills)-1)
		}
		return m, nil

	case pillSavedMsg:
		verb := "updated"
		if msg.created {
			verb = "added"
		}
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("%s %s", msg.name, verb)}
		})

	case pillDeletedMsg:
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: msg.name + " deleted (with its intake history)"}
		})

	case packResetMsg:
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: msg.name + " pack reset"}
		})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.pills)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.pills) > 0 {
				pill := m.pills[m.cursor]
				return m.showForm(&pill)
			}
		case key.Matches(msg, keys.Delete):
			if len(m.pills) > 0 {
				pill := m.pills[m.cursor]
				return m, func() tea.Msg {
					if err := m.store.DeletePill(pill.ID); err != nil {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
					return pillDeletedMsg{name: pill.Name}
				}
			}
		case key.Matches(msg, keys.Reset):
			if len(m.pills) > 0 {
				pill := m.pills[m.cursor]
				return m, func() tea.Msg {
					if _, err := m.store.ResetPillPack(pill.ID); err != nil {
						return statusMsg{text: fmt.Sprintf("Reset error: %v", err), isError: true}
					}
					return packResetMsg{name: pill.Name}
				}
			}
		}
	}
	return m, nil
}

func (m pillsModel) showForm(pill *store.Pill) (pillsModel, tea.Cmd) {
	if pill != nil {
		m.editing = true
		m.editingID = pill.ID
		*m.formName = pill.Name
		*m.formDosage = pill.Dosage
		*m.formType = string(pill.Type)
		*m.formTimesPerDay = strconv.Itoa(pill.TimesPerDay)
		slots := make([]string, len(pill.TimesOfDay))
		for i, s := range pill.TimesOfDay {
			slots[i] = string(s)
		}
		*m.formTimesOfDay = slots
		*m.formInstructions = pill.Instructions
		*m.formColor = pill.Color
		*m.formShape = pill.Shape
		*m.formPackSize = strconv.Itoa(pill.DefaultPackSize)
		*m.formAmount = strconv.Itoa(pill.CurrentPackAmount)
	} else {
		m.editing = false
		m.editingID = ""
		*m.formName = ""
		*m.formDosage = ""
		*m.formType = string(store.TypeTablet)
		*m.formTimesPerDay = "1"
		*m.formTimesOfDay = []string{string(store.Morning)}
		*m.formInstructions = ""
		*m.formColor = pillColors[0]
		*m.formShape = "round"
		*m.formPackSize = "30"
		*m.formAmount = "30"
	}

	typeOptions := make([]huh.Option[string], len(store.PillTypes))
	for i, t := range store.PillTypes {
		typeOptions[i] = huh.NewOption(string(t), string(t))
	}
	slotOptions := make([]huh.Option[string], len(store.Slots))
	for i, s := range store.Slots {
		slotOptions[i] = huh.NewOption(s.Label(), string(s))
	}
	colorOptions := make([]huh.Option[string], len(pillColors))
	for i, c := range pillColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	shapeOptions := make([]huh.Option[string], len(store.Shapes))
	for i, s := range store.Shapes {
		shapeOptions[i] = huh.NewOption(s, s)
	}
	countOptions := []huh.Option[string]{
		huh.NewOption("1", "1"), huh.NewOption("2", "2"),
		huh.NewOption("3", "3"), huh.NewOption("4", "4"),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Dosage (e.g. 500mg)").Value(m.formDosage),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(m.formType),
			huh.NewSelect[string]().Title("Times per day").Options(countOptions...).Value(m.formTimesPerDay),
			huh.NewMultiSelect[string]().Title("Times of day").Options(slotOptions...).Value(m.formTimesOfDay),
		),
		huh.NewGroup(
			huh.NewInput().Title("Instructions (optional)").Value(m.formInstructions),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
			huh.NewSelect[string]().Title("Shape").Options(shapeOptions...).Value(m.formShape),
			huh.NewInput().Title("Pack size").Value(m.formPackSize),
			huh.NewInput().Title("Pills currently in pack").Value(m.formAmount),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m pillsModel) updateForm(msg tea.Msg) (pillsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.savePill()
	}
	return m, cmd
}

// savePill converts the form values and lets the repository validate them;
// a ValidationError comes back as a status line message.
func (m pillsModel) savePill() tea.Cmd {
	name := *m.formName
	dosage := *m.formDosage
	pillType := store.PillType(*m.formType)
	timesPerDay, _ := strconv.Atoi(*m.formTimesPerDay)
	slots := make([]store.TimeOfDay, len(*m.formTimesOfDay))
	for i, s := range *m.formTimesOfDay {
		slots[i] = store.TimeOfDay(s)
	}
	instructions := *m.formInstructions
	color := *m.formColor
	shape := *m.formShape
	packSize, _ := strconv.Atoi(*m.formPackSize)
	amount, _ := strconv.Atoi(*m.formAmount)

	editing, editingID := m.editing, m.editingID

	return func() tea.Msg {
		var err error
		if editing {
			_, err = m.store.UpdatePill(editingID, store.PillPatch{
				Name:              &name,
				Dosage:            &dosage,
				Type:              &pillType,
				TimesPerDay:       &timesPerDay,
				TimesOfDay:        slots,
				Instructions:      &instructions,
				Color:             &color,
				Shape:             &shape,
				DefaultPackSize:   &packSize,
				CurrentPackAmount: &amount,
			})
		} else {
			_, err = m.store.CreatePill(store.Pill{
				Name:              name,
				Dosage:            dosage,
				Type:              pillType,
				TimesPerDay:       timesPerDay,
				TimesOfDay:        slots,
				Instructions:      instructions,
				Color:             color,
				Shape:             shape,
				DefaultPackSize:   packSize,
				CurrentPackAmount: amount,
			})
		}
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return pillSavedMsg{name: name, created: !editing}
	}
}

func (m pillsModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Pill")
		if m.editing {
			title = titleStyle.Render("Edit Pill")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("Pills")

	if len(m.pills) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No pills yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-20s %-12s %-10s %-20s %s", "", "Name", "Dosage", "Per day", "Stock", "Pack size"))
	rows = append(rows, header)

	for i, pill := range m.pills {
		status := dose.StatusFor(pill.CurrentPackAmount)
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(pill.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		stock := stockStyle(status).Render(fmt.Sprintf("%-20s", fmt.Sprintf("%d pills (%s)", pill.CurrentPackAmount, status)))
		row := style.Render(fmt.Sprintf("%s%s %-20s %-12s %-10d", cursor, dot, pill.Name, pill.Dosage, pill.TimesPerDay)) +
			" " + stock + mutedStyle.Render(strconv.Itoa(pill.DefaultPackSize))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  r: reset pack  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
