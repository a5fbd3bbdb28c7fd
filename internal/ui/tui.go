// Package ui provides the terminal front ends: a full-screen menu
// interface for TTY sessions and a line-oriented shell for piped input.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/deck"
	"taskdeck/internal/service"
	"taskdeck/internal/utils"
)

// RunTUI starts the full-screen interface. It fails when stdout is not
// a terminal; callers fall back to the shell in that case.
func RunTUI(ctx context.Context, svc *service.Service) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(NewModel(svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type screen int

const (
	screenMenu screen = iota
	screenProjects
	screenProjectForm
	screenDetail
	screenTaskForm
	screenStatusPick
	screenConfirm
)

// listPurpose selects what pressing enter on the project list does.
type listPurpose int

const (
	purposeManage listPurpose = iota
	purposeDelete
)

// confirmTarget is the entity a pending confirmation would delete.
type confirmTarget struct {
	project bool
	id      int64
}

var menuItems = []string{
	"Create project",
	"List projects",
	"Manage project",
	"Delete project",
	"Quit",
}

// Model is the state machine behind the full-screen interface. All
// reads and writes go through the service; the model never touches
// the store directly.
type Model struct {
	svc *service.Service

	screen  screen
	menuSel int

	projects []deck.Project
	projSel  int
	purpose  listPurpose

	// current is the project shown on the detail and form screens.
	current deck.Project
	taskSel int

	inputs    []textinput.Model
	labels    []string
	focus     int
	editing   bool
	editID    int64
	formTitle string

	confirm confirmTarget

	statusLine string
	errLine    string
}

// NewModel returns a model starting at the main menu.
func NewModel(svc *service.Service) *Model {
	return &Model{svc: svc}
}

func (m *Model) Init() tea.Cmd {
	m.reload()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case screenMenu:
		return m.updateMenu(key)
	case screenProjects:
		return m.updateProjects(key)
	case screenProjectForm, screenTaskForm:
		return m.updateForm(key)
	case screenDetail:
		return m.updateDetail(key)
	case screenStatusPick:
		return m.updateStatusPick(key)
	case screenConfirm:
		return m.updateConfirm(key)
	}
	return m, nil
}

func (m *Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.menuSel > 0 {
			m.menuSel--
		}
	case "down", "j":
		if m.menuSel < len(menuItems)-1 {
			m.menuSel++
		}
	case "enter":
		return m.selectMenu()
	}
	return m, nil
}

func (m *Model) selectMenu() (tea.Model, tea.Cmd) {
	m.clearNotices()
	switch menuItems[m.menuSel] {
	case "Create project":
		return m.openProjectForm(false, deck.Project{})
	case "List projects", "Manage project":
		m.purpose = purposeManage
		m.reload()
		m.projSel = 0
		m.screen = screenProjects
	case "Delete project":
		m.purpose = purposeDelete
		m.reload()
		m.projSel = 0
		m.screen = screenProjects
	case "Quit":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateProjects(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.screen = screenMenu
	case "up", "k":
		if m.projSel > 0 {
			m.projSel--
		}
	case "down", "j":
		if m.projSel < len(m.projects)-1 {
			m.projSel++
		}
	case "enter":
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.projSel]
		if m.purpose == purposeDelete {
			m.confirm = confirmTarget{project: true, id: p.ID}
			m.screen = screenConfirm
			return m, nil
		}
		return m.openDetail(p.ID)
	case "d":
		if len(m.projects) == 0 {
			return m, nil
		}
		m.confirm = confirmTarget{project: true, id: m.projects[m.projSel].ID}
		m.screen = screenConfirm
	}
	return m, nil
}

func (m *Model) updateDetail(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.reload()
		m.purpose = purposeManage
		m.screen = screenProjects
	case "up", "k":
		if m.taskSel > 0 {
			m.taskSel--
		}
	case "down", "j":
		if m.taskSel < len(m.current.Tasks)-1 {
			m.taskSel++
		}
	case "a":
		return m.openTaskForm(false, deck.Task{})
	case "p":
		return m.openProjectForm(true, m.current)
	case "e":
		if t, ok := m.selectedTask(); ok {
			return m.openTaskForm(true, t)
		}
	case "s":
		if _, ok := m.selectedTask(); ok {
			m.clearNotices()
			m.screen = screenStatusPick
		}
	case "d":
		if t, ok := m.selectedTask(); ok {
			m.confirm = confirmTarget{id: t.ID}
			m.screen = screenConfirm
		}
	}
	return m, nil
}

func (m *Model) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.leaveForm()
		return m, nil
	case "tab", "down":
		return m, m.focusInput(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusInput(m.focus - 1)
	case "enter":
		if m.focus < len(m.inputs)-1 {
			return m, m.focusInput(m.focus + 1)
		}
		return m.submitForm()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

func (m *Model) updateStatusPick(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "b":
		m.screen = screenDetail
	case "1", "2", "3":
		t, ok := m.selectedTask()
		if !ok {
			m.screen = screenDetail
			return m, nil
		}
		idx := int(key.String()[0] - '1')
		status := deck.Statuses()[idx]
		updated, err := m.svc.ChangeStatus(m.current.ID, t.ID, string(status))
		if err != nil {
			m.errLine = service.UserMessage(err)
		} else {
			m.statusLine = fmt.Sprintf("Task %d is now %s", updated.ID, updated.Status)
			m.errLine = ""
		}
		m.reload()
		m.screen = screenDetail
	}
	return m, nil
}

func (m *Model) updateConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y":
		if m.confirm.project {
			if err := m.svc.DeleteProject(m.confirm.id); err != nil {
				m.errLine = service.UserMessage(err)
			} else {
				m.statusLine = fmt.Sprintf("Deleted project %d", m.confirm.id)
				m.errLine = ""
			}
			m.current = deck.Project{}
			m.reload()
			m.screen = screenProjects
		} else {
			if err := m.svc.DeleteTask(m.current.ID, m.confirm.id); err != nil {
				m.errLine = service.UserMessage(err)
			} else {
				m.statusLine = fmt.Sprintf("Deleted task %d", m.confirm.id)
				m.errLine = ""
			}
			m.reload()
			m.screen = screenDetail
		}
	case "n", "esc":
		if m.confirm.project {
			m.screen = screenProjects
		} else {
			m.screen = screenDetail
		}
	}
	return m, nil
}

// openProjectForm shows the project form, pre-filled when editing.
func (m *Model) openProjectForm(editing bool, p deck.Project) (tea.Model, tea.Cmd) {
	name := newInput("Website relaunch", deck.MaxNameLen)
	desc := newInput("optional", deck.MaxDescriptionLen)
	if editing {
		name.SetValue(p.Name)
		desc.SetValue(p.Description)
		m.formTitle = fmt.Sprintf("Edit project %d", p.ID)
	} else {
		m.formTitle = "New project"
	}
	m.inputs = []textinput.Model{name, desc}
	m.labels = []string{"Name", "Description"}
	m.focus = 0
	m.editing = editing
	m.editID = p.ID
	m.clearNotices()
	m.screen = screenProjectForm
	return m, m.inputs[0].Focus()
}

// openTaskForm shows the task form, pre-filled when editing.
func (m *Model) openTaskForm(editing bool, t deck.Task) (tea.Model, tea.Cmd) {
	name := newInput("Draft copy", deck.MaxNameLen)
	desc := newInput("optional", deck.MaxDescriptionLen)
	deadline := newInput("YYYY-MM-DD, optional", len(deck.DeadlineLayout))
	if editing {
		name.SetValue(t.Name)
		desc.SetValue(t.Description)
		if t.Deadline != nil {
			deadline.SetValue(t.Deadline.Format(deck.DeadlineLayout))
		}
		m.formTitle = fmt.Sprintf("Edit task %d", t.ID)
	} else {
		m.formTitle = "New task"
	}
	m.inputs = []textinput.Model{name, desc, deadline}
	m.labels = []string{"Name", "Description", "Deadline"}
	m.focus = 0
	m.editing = editing
	m.editID = t.ID
	m.clearNotices()
	m.screen = screenTaskForm
	return m, m.inputs[0].Focus()
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	if m.screen == screenProjectForm {
		return m.submitProjectForm()
	}
	return m.submitTaskForm()
}

func (m *Model) submitProjectForm() (tea.Model, tea.Cmd) {
	name := m.inputs[0].Value()
	desc := m.inputs[1].Value()
	if m.editing {
		p, err := m.svc.EditProject(m.editID, &name, &desc)
		if err != nil {
			m.errLine = service.UserMessage(err)
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Updated project %d %q", p.ID, p.Name)
	} else {
		p, err := m.svc.CreateProject(name, desc)
		if err != nil {
			m.errLine = service.UserMessage(err)
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Created project %d %q", p.ID, p.Name)
	}
	m.errLine = ""
	m.leaveForm()
	return m, nil
}

func (m *Model) submitTaskForm() (tea.Model, tea.Cmd) {
	name := m.inputs[0].Value()
	desc := m.inputs[1].Value()
	deadline := m.inputs[2].Value()
	if m.editing {
		edit := service.TaskEdit{Name: &name, Description: &desc, Deadline: &deadline}
		t, err := m.svc.EditTask(m.current.ID, m.editID, edit)
		if err != nil {
			m.errLine = service.UserMessage(err)
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Updated task %d %q", t.ID, t.Name)
	} else {
		t, err := m.svc.AddTask(m.current.ID, name, desc, deadline)
		if err != nil {
			m.errLine = service.UserMessage(err)
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Added task %d %q", t.ID, t.Name)
	}
	m.errLine = ""
	m.leaveForm()
	return m, nil
}

// leaveForm drops the inputs and returns to the screen the form was
// opened from.
func (m *Model) leaveForm() {
	fromProjectCreate := m.screen == screenProjectForm && !m.editing
	m.inputs = nil
	m.labels = nil
	m.focus = 0
	m.editing = false
	m.editID = 0
	m.reload()
	if fromProjectCreate {
		m.screen = screenMenu
	} else {
		m.screen = screenDetail
	}
}

func (m *Model) openDetail(id int64) (tea.Model, tea.Cmd) {
	p, err := m.svc.GetProject(id)
	if err != nil {
		m.errLine = service.UserMessage(err)
		return m, nil
	}
	m.current = p
	m.taskSel = 0
	m.screen = screenDetail
	return m, nil
}

func (m *Model) focusInput(i int) tea.Cmd {
	if i < 0 {
		i = len(m.inputs) - 1
	}
	if i >= len(m.inputs) {
		i = 0
	}
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) selectedTask() (deck.Task, bool) {
	if m.taskSel < 0 || m.taskSel >= len(m.current.Tasks) {
		return deck.Task{}, false
	}
	return m.current.Tasks[m.taskSel], true
}

// reload refreshes the cached project list and the current project,
// clamping cursors that fell off the end.
func (m *Model) reload() {
	m.projects = m.svc.ListProjects()
	if m.projSel >= len(m.projects) {
		m.projSel = len(m.projects) - 1
	}
	if m.projSel < 0 {
		m.projSel = 0
	}
	if m.current.ID != 0 {
		if p, err := m.svc.GetProject(m.current.ID); err == nil {
			m.current = p
		} else {
			m.current = deck.Project{}
		}
	}
	if m.taskSel >= len(m.current.Tasks) {
		m.taskSel = len(m.current.Tasks) - 1
	}
	if m.taskSel < 0 {
		m.taskSel = 0
	}
}

func (m *Model) clearNotices() {
	m.statusLine = ""
	m.errLine = ""
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)
	switch m.screen {
	case screenMenu:
		m.viewMenu(&b)
	case screenProjects:
		m.viewProjects(&b)
	case screenProjectForm, screenTaskForm:
		m.viewForm(&b)
	case screenDetail:
		m.viewDetail(&b)
	case screenStatusPick:
		m.viewStatusPick(&b)
	case screenConfirm:
		m.viewConfirm(&b)
	}
	m.writeNotices(&b)
	m.writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Taskdeck"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *Model) viewMenu(b *strings.Builder) {
	tasks := 0
	for _, p := range m.projects {
		tasks += len(p.Tasks)
	}
	fmt.Fprintf(b, "%d projects, %d tasks\n\n", len(m.projects), tasks)
	for i, item := range menuItems {
		b.WriteString(cursorMark(i == m.menuSel) + item + "\n")
	}
	b.WriteString("\n")
}

func (m *Model) viewProjects(b *strings.Builder) {
	b.WriteString("Projects\n\n")
	if len(m.projects) == 0 {
		b.WriteString("  No projects yet.\n\n")
		return
	}
	for i, p := range m.projects {
		b.WriteString(cursorMark(i == m.projSel) + formatProjectLine(p) + "\n")
	}
	b.WriteString("\n")
}

func (m *Model) viewDetail(b *strings.Builder) {
	fmt.Fprintf(b, "Project %d: %s\n", m.current.ID, m.current.Name)
	if m.current.Description != "" {
		b.WriteString("  " + utils.Truncate(m.current.Description, 72) + "\n")
	}
	b.WriteString("\nTasks\n\n")
	if len(m.current.Tasks) == 0 {
		b.WriteString("  No tasks yet.\n\n")
		return
	}
	for i, t := range m.current.Tasks {
		b.WriteString(cursorMark(i == m.taskSel) + formatTaskLine(t) + "\n")
		if i == m.taskSel && t.Description != "" {
			b.WriteString("        " + utils.Truncate(t.Description, 60) + "\n")
		}
	}
	b.WriteString("\n")
}

func (m *Model) viewForm(b *strings.Builder) {
	b.WriteString(m.formTitle + "\n\n")
	for i, in := range m.inputs {
		b.WriteString(m.labels[i] + "\n")
		b.WriteString(in.View() + "\n\n")
	}
}

func (m *Model) viewStatusPick(b *strings.Builder) {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	fmt.Fprintf(b, "Change status for task %d %q\n\n", t.ID, t.Name)
	for i, s := range deck.Statuses() {
		fmt.Fprintf(b, "  %d %s\n", i+1, s)
	}
	b.WriteString("\n")
}

func (m *Model) viewConfirm(b *strings.Builder) {
	if m.confirm.project {
		p, err := m.svc.GetProject(m.confirm.id)
		if err != nil {
			return
		}
		fmt.Fprintf(b, "Delete project %d %q and its %d tasks? (y/n)\n\n", p.ID, p.Name, len(p.Tasks))
		return
	}
	t, err := m.svc.GetTask(m.current.ID, m.confirm.id)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "Delete task %d %q? (y/n)\n\n", t.ID, t.Name)
}

func (m *Model) writeNotices(b *strings.Builder) {
	if m.errLine != "" {
		b.WriteString("Error: " + m.errLine + "\n\n")
		return
	}
	if m.statusLine != "" {
		b.WriteString(m.statusLine + "\n\n")
	}
}

func (m *Model) writeFooter(b *strings.Builder) {
	switch m.screen {
	case screenMenu:
		b.WriteString("up/down move | enter select | q quit\n")
	case screenProjects:
		if m.purpose == purposeDelete {
			b.WriteString("up/down move | enter delete | esc back | q quit\n")
		} else {
			b.WriteString("up/down move | enter open | d delete | esc back | q quit\n")
		}
	case screenDetail:
		b.WriteString("a add task | e edit | s status | d delete | p edit project | esc back | q quit\n")
	case screenProjectForm, screenTaskForm:
		b.WriteString("enter next field or submit | tab switch | esc cancel\n")
	case screenStatusPick:
		b.WriteString("1-3 pick | esc cancel\n")
	case screenConfirm:
		b.WriteString("y confirm | n cancel\n")
	}
}

func cursorMark(selected bool) string {
	if selected {
		return "  > "
	}
	return "    "
}

func formatProjectLine(p deck.Project) string {
	done := 0
	for _, t := range p.Tasks {
		if t.Status == deck.StatusDone {
			done++
		}
	}
	return fmt.Sprintf("%d %s (%d tasks, %d done)", p.ID, p.Name, len(p.Tasks), done)
}

func formatTaskLine(t deck.Task) string {
	mark := " "
	if t.Overdue() {
		mark = "!"
	}
	line := fmt.Sprintf("%s %d [%s] %s", mark, t.ID, t.Status, t.Name)
	if t.Deadline != nil {
		line += " (due " + t.Deadline.Format(deck.DeadlineLayout) + ")"
	}
	return line
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 48
	return in
}

// IsTTY returns true if the file behind w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
