package ui

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"taskdeck/internal/deck"
	"taskdeck/internal/service"
	"taskdeck/internal/utils"
)

const shellHelp = `Commands:
  project create "Name" ["Description"]
  project list
  project show <project>
  project edit <project> [--name ...] [--desc ...]
  project delete <project>
  task add <project> "Name" ["Description"] [--deadline YYYY-MM-DD]
  task list <project>
  task show <project> <task>
  task edit <project> <task> [--name ...] [--desc ...] [--deadline YYYY-MM-DD] [--status ...]
  task status <project> <task> <pending|in_progress|done>
  help
  quit

Statuses are pending, in_progress and done. An empty --deadline clears
the deadline. Quotes group words into one argument.`

// Shell reads commands line by line and runs them against the service.
// A failed command prints a message and the loop continues.
type Shell struct {
	svc *service.Service
	in  io.Reader
	out io.Writer

	// Prompt prints "> " before each line for interactive sessions.
	Prompt bool
}

// NewShell returns a shell reading from in and writing to out.
func NewShell(svc *service.Service, in io.Reader, out io.Writer) *Shell {
	return &Shell{svc: svc, in: in, out: out}
}

// Run processes commands until quit, EOF or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		done <- sc.Err()
	}()

	fmt.Fprintln(s.out, "Taskdeck shell. Type help for commands.")
	for {
		if s.Prompt {
			fmt.Fprint(s.out, "> ")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		case line := <-lines:
			if s.exec(line) {
				return nil
			}
		}
	}
}

// exec runs one line and reports whether the shell should quit.
func (s *Shell) exec(line string) bool {
	args, err := utils.SplitArgs(line)
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return false
	}
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "project":
		s.runVerb(projectVerbs, "project", args[1:])
	case "task":
		s.runVerb(taskVerbs, "task", args[1:])
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", args[0])
	}
	return false
}

type verbFunc func(s *Shell, args []string) error

var projectVerbs = map[string]verbFunc{
	"create": (*Shell).projectCreate,
	"list":   (*Shell).projectList,
	"show":   (*Shell).projectShow,
	"edit":   (*Shell).projectEdit,
	"delete": (*Shell).projectDelete,
}

var taskVerbs = map[string]verbFunc{
	"add":    (*Shell).taskAdd,
	"list":   (*Shell).taskList,
	"show":   (*Shell).taskShow,
	"edit":   (*Shell).taskEdit,
	"status": (*Shell).taskStatus,
	"delete": (*Shell).taskDelete,
}

func (s *Shell) runVerb(verbs map[string]verbFunc, group string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "usage: %s <verb> ... (try help)\n", group)
		return
	}
	fn, ok := verbs[args[0]]
	if !ok {
		fmt.Fprintf(s.out, "unknown command %q %q (try help)\n", group, args[0])
		return
	}
	if err := fn(s, args[1:]); err != nil {
		fmt.Fprintln(s.out, "error:", service.UserMessage(err))
	}
}

func (s *Shell) projectCreate(args []string) error {
	fs := s.flagSet("project create")
	desc := fs.String("desc", "", "project description")
	pos, err := parseLine(fs, args)
	if err != nil {
		return nil
	}
	if len(pos) < 1 || len(pos) > 2 {
		return usageError(`project create "Name" ["Description"]`)
	}
	description := *desc
	if len(pos) == 2 {
		description = pos[1]
	}
	p, err := s.svc.CreateProject(pos[0], description)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created project %d %q\n", p.ID, p.Name)
	return nil
}

func (s *Shell) projectList(args []string) error {
	if len(args) != 0 {
		return usageError("project list")
	}
	projects := s.svc.ListProjects()
	if len(projects) == 0 {
		fmt.Fprintln(s.out, "No projects yet.")
		return nil
	}
	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTASKS\tDONE")
	for _, p := range projects {
		done := 0
		for _, t := range p.Tasks {
			if t.Status == deck.StatusDone {
				done++
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", p.ID, p.Name, len(p.Tasks), done)
	}
	return w.Flush()
}

func (s *Shell) projectShow(args []string) error {
	if len(args) != 1 {
		return usageError("project show <project>")
	}
	id, err := parseID(args[0], "project")
	if err != nil {
		return err
	}
	p, err := s.svc.GetProject(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Project %d: %s\n", p.ID, p.Name)
	if p.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", p.Description)
	}
	fmt.Fprintf(s.out, "  Created %s, %d tasks\n", p.CreatedAt.Format("2006-01-02 15:04"), len(p.Tasks))
	return s.printTasks(p.Tasks)
}

func (s *Shell) projectEdit(args []string) error {
	fs := s.flagSet("project edit")
	name := fs.String("name", "", "new project name")
	desc := fs.String("desc", "", "new project description")
	pos, err := parseLine(fs, args)
	if err != nil {
		return nil
	}
	if len(pos) != 1 {
		return usageError("project edit <project> [--name ...] [--desc ...]")
	}
	id, err := parseID(pos[0], "project")
	if err != nil {
		return err
	}
	var namePtr, descPtr *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			namePtr = name
		case "desc":
			descPtr = desc
		}
	})
	if namePtr == nil && descPtr == nil {
		return usageError("project edit <project> needs --name or --desc")
	}
	p, err := s.svc.EditProject(id, namePtr, descPtr)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated project %d %q\n", p.ID, p.Name)
	return nil
}

func (s *Shell) projectDelete(args []string) error {
	if len(args) != 1 {
		return usageError("project delete <project>")
	}
	id, err := parseID(args[0], "project")
	if err != nil {
		return err
	}
	p, err := s.svc.GetProject(id)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteProject(id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted project %d %q and %d tasks\n", p.ID, p.Name, len(p.Tasks))
	return nil
}

func (s *Shell) taskAdd(args []string) error {
	fs := s.flagSet("task add")
	desc := fs.String("desc", "", "task description")
	deadline := fs.String("deadline", "", "deadline as YYYY-MM-DD")
	pos, err := parseLine(fs, args)
	if err != nil {
		return nil
	}
	if len(pos) < 2 || len(pos) > 3 {
		return usageError(`task add <project> "Name" ["Description"]`)
	}
	id, err := parseID(pos[0], "project")
	if err != nil {
		return err
	}
	description := *desc
	if len(pos) == 3 {
		description = pos[2]
	}
	t, err := s.svc.AddTask(id, pos[1], description, *deadline)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added task %d %q to project %d\n", t.ID, t.Name, id)
	return nil
}

func (s *Shell) taskList(args []string) error {
	if len(args) != 1 {
		return usageError("task list <project>")
	}
	id, err := parseID(args[0], "project")
	if err != nil {
		return err
	}
	tasks, err := s.svc.ListTasks(id)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks yet.")
		return nil
	}
	return s.printTasks(tasks)
}

func (s *Shell) taskShow(args []string) error {
	if len(args) != 2 {
		return usageError("task show <project> <task>")
	}
	projectID, taskID, err := parseIDPair(args)
	if err != nil {
		return err
	}
	t, err := s.svc.GetTask(projectID, taskID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task %d: %s\n", t.ID, t.Name)
	if t.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", t.Description)
	}
	fmt.Fprintf(s.out, "  Status %s\n", t.Status)
	if t.Deadline != nil {
		line := "  Due " + t.Deadline.Format(deck.DeadlineLayout)
		if t.Overdue() {
			line += " (overdue)"
		}
		fmt.Fprintln(s.out, line)
	}
	fmt.Fprintf(s.out, "  Created %s, updated %s\n",
		t.CreatedAt.Format("2006-01-02 15:04"), t.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func (s *Shell) taskEdit(args []string) error {
	fs := s.flagSet("task edit")
	name := fs.String("name", "", "new task name")
	desc := fs.String("desc", "", "new task description")
	deadline := fs.String("deadline", "", "deadline as YYYY-MM-DD, empty clears it")
	status := fs.String("status", "", "new status")
	pos, err := parseLine(fs, args)
	if err != nil {
		return nil
	}
	if len(pos) != 2 {
		return usageError("task edit <project> <task> [--name ...] [--desc ...] [--deadline ...] [--status ...]")
	}
	projectID, taskID, err := parseIDPair(pos)
	if err != nil {
		return err
	}
	var edit service.TaskEdit
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			edit.Name = name
		case "desc":
			edit.Description = desc
		case "deadline":
			edit.Deadline = deadline
		case "status":
			edit.Status = status
		}
	})
	if edit == (service.TaskEdit{}) {
		return usageError("task edit <project> <task> needs at least one of --name, --desc, --deadline, --status")
	}
	t, err := s.svc.EditTask(projectID, taskID, edit)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated task %d %q\n", t.ID, t.Name)
	return nil
}

func (s *Shell) taskStatus(args []string) error {
	if len(args) != 3 {
		return usageError("task status <project> <task> <pending|in_progress|done>")
	}
	projectID, taskID, err := parseIDPair(args[:2])
	if err != nil {
		return err
	}
	t, err := s.svc.ChangeStatus(projectID, taskID, args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Task %d is now %s\n", t.ID, t.Status)
	return nil
}

func (s *Shell) taskDelete(args []string) error {
	if len(args) != 2 {
		return usageError("task delete <project> <task>")
	}
	projectID, taskID, err := parseIDPair(args)
	if err != nil {
		return err
	}
	t, err := s.svc.GetTask(projectID, taskID)
	if err != nil {
		return err
	}
	if err := s.svc.DeleteTask(projectID, taskID); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted task %d %q from project %d\n", t.ID, t.Name, projectID)
	return nil
}

func (s *Shell) printTasks(tasks []deck.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tNAME\tDEADLINE")
	for _, t := range tasks {
		due := ""
		if t.Deadline != nil {
			due = t.Deadline.Format(deck.DeadlineLayout)
			if t.Overdue() {
				due += " !"
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Status, t.Name, due)
	}
	return w.Flush()
}

func (s *Shell) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(s.out)
	return fs
}

// parseLine parses args that mix positional arguments with flags.
// Everything before the first flag is positional, so commands read
// naturally: task add 1 "Buy milk" --deadline 2025-01-01.
func parseLine(fs *flag.FlagSet, args []string) ([]string, error) {
	pos := args
	var flags []string
	for i, a := range args {
		if strings.HasPrefix(a, "-") && a != "-" {
			pos, flags = args[:i], args[i:]
			break
		}
	}
	if err := fs.Parse(flags); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(pos)+fs.NArg())
	out = append(out, pos...)
	out = append(out, fs.Args()...)
	return out, nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%q is not a valid %s ID", raw, what)
	}
	return id, nil
}

func parseIDPair(args []string) (projectID, taskID int64, err error) {
	projectID, err = parseID(args[0], "project")
	if err != nil {
		return 0, 0, err
	}
	taskID, err = parseID(args[1], "task")
	if err != nil {
		return 0, 0, err
	}
	return projectID, taskID, nil
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
