package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// TaskStatus is the state of one workflow line.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskDone
	TaskFailed
)

// Task is one line of a Workflow, usually one dataset.
type Task struct {
	Name    string
	Status  TaskStatus
	Message string
	// Details replaces Message once the task is done.
	Details string
}

// Workflow redraws a block of task lines with a spinner on the running
// ones. It is safe for concurrent use.
type Workflow struct {
	writer io.Writer
	title  string

	mu        sync.Mutex
	tasks     []*Task
	frame     int
	running   bool
	stop      chan struct{}
	drawn     int
	startTime time.Time
}

// NewWorkflow creates a workflow that draws on w.
func NewWorkflow(w io.Writer, title string) *Workflow {
	return &Workflow{writer: w, title: title, stop: make(chan struct{})}
}

// AddTask appends a pending task and returns its index.
func (wf *Workflow) AddTask(name string) int {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.tasks = append(wf.tasks, &Task{Name: name})
	return len(wf.tasks) - 1
}

// update applies fn to task idx; out-of-range indexes are ignored.
func (wf *Workflow) update(idx int, fn func(t *Task)) {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if idx >= 0 && idx < len(wf.tasks) {
		fn(wf.tasks[idx])
	}
}

func (wf *Workflow) StartTask(idx int, message string) {
	wf.update(idx, func(t *Task) { t.Status, t.Message = TaskRunning, message })
}

func (wf *Workflow) UpdateMessage(idx int, message string) {
	wf.update(idx, func(t *Task) { t.Message = message })
}

func (wf *Workflow) CompleteTask(idx int, details string) {
	wf.update(idx, func(t *Task) { t.Status, t.Details = TaskDone, details })
}

func (wf *Workflow) FailTask(idx int, errMsg string) {
	wf.update(idx, func(t *Task) { t.Status, t.Message = TaskFailed, errMsg })
}

// Start begins redrawing until Stop.
func (wf *Workflow) Start() {
	wf.mu.Lock()
	if wf.running {
		wf.mu.Unlock()
		return
	}
	wf.running = true
	wf.startTime = time.Now()
	wf.mu.Unlock()

	go func() {
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-wf.stop:
				return
			case <-ticker.C:
				wf.mu.Lock()
				if !wf.running {
					wf.mu.Unlock()
					return
				}
				wf.frame = (wf.frame + 1) % len(spinnerFrames)
				wf.draw(false)
				wf.mu.Unlock()
			}
		}
	}()
}

// Stop halts the animation and draws the final state with the elapsed
// time.
func (wf *Workflow) Stop() {
	wf.mu.Lock()
	if !wf.running {
		wf.mu.Unlock()
		return
	}
	wf.running = false
	close(wf.stop)
	wf.draw(true)
	wf.mu.Unlock()
}

// draw must be called with mu held.
func (wf *Workflow) draw(final bool) {
	var b strings.Builder
	// move up over the previous frame and clear it
	b.WriteString(strings.Repeat("\033[A\033[K", wf.drawn))

	lines := 0
	for _, t := range wf.tasks {
		b.WriteString(wf.line(t, final))
		b.WriteString("\n")
		lines++
	}
	if final {
		done, failed := 0, 0
		for _, t := range wf.tasks {
			switch t.Status {
			case TaskDone:
				done++
			case TaskFailed:
				failed++
			}
		}
		footer := fmt.Sprintf("%s: %d done, %d failed in %s", wf.title, done, failed, time.Since(wf.startTime).Round(time.Millisecond))
		b.WriteString(Dim.Render(footer))
		b.WriteString("\n")
	}
	wf.drawn = lines
	fmt.Fprint(wf.writer, b.String())
}

func (wf *Workflow) line(t *Task, final bool) string {
	var icon string
	var name, msg styleWrapper
	switch t.Status {
	case TaskRunning:
		if final {
			// an unfinished task after Stop was interrupted
			icon, name, msg = Muted.Render("○"), StepPending, Dim
			break
		}
		icon, name, msg = Secondary.Render(spinnerFrames[wf.frame]), StepRunning, Secondary
	case TaskDone:
		icon, name, msg = GetCheckMark(), StepComplete, Dim
	case TaskFailed:
		icon, name, msg = GetCrossMark(), StepFailed, Error
	default:
		icon, name, msg = Muted.Render("○"), StepPending, Dim
	}

	line := icon + " " + name.Render(t.Name)
	switch {
	case t.Status == TaskDone && t.Details != "":
		line += " " + msg.Render("→ "+t.Details)
	case t.Status == TaskFailed && t.Message != "":
		line += " " + msg.Render("→ "+t.Message)
	case !final && t.Message != "":
		line += " " + msg.Render(t.Message)
	}
	return line
}

// SimpleSpinner is a one-line spinner for a single blocking call such as a
// dataset download.
type SimpleSpinner struct {
	writer  io.Writer
	message string

	mu      sync.Mutex
	frame   int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSimpleSpinner creates a spinner that draws on w.
func NewSimpleSpinner(w io.Writer, message string) *SimpleSpinner {
	return &SimpleSpinner{writer: w, message: message, stop: make(chan struct{}), done: make(chan struct{})}
}

// Start begins the animation.
func (s *SimpleSpinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		defer close(s.done)
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				s.frame = (s.frame + 1) % len(spinnerFrames)
				fmt.Fprintf(s.writer, "\r\033[K%s %s", Secondary.Render(spinnerFrames[s.frame]), s.message)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop replaces the spinner line with a check or cross mark and msg.
func (s *SimpleSpinner) Stop(success bool, msg string) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	fmt.Fprint(s.writer, "\r\033[K")
	if success {
		fmt.Fprintf(s.writer, "%s %s\n", GetCheckMark(), msg)
		return
	}
	fmt.Fprintf(s.writer, "%s %s\n", GetCrossMark(), Error.Render(msg))
}

// UpdateMessage changes the text next to the spinner.
func (s *SimpleSpinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}
