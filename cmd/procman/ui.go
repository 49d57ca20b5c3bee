package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/windows"

	"procman/internal/logging"
	"procman/internal/procstat"
	"procman/pkg/process"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive console UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI()
	},
}

var uiTheme = struct {
	background tcell.Color
	surface    tcell.Color
	stripe     tcell.Color
	headerBg   tcell.Color
	text       tcell.Color
	subtleText tcell.Color
	accent     tcell.Color
	warm       tcell.Color
	danger     tcell.Color
	selection  tcell.Color
	inputBg    tcell.Color
}{
	background: tcell.NewHexColor(0x0f0f14),
	surface:    tcell.NewHexColor(0x11131a),
	stripe:     tcell.NewHexColor(0x161924),
	headerBg:   tcell.NewHexColor(0x181c26),
	text:       tcell.NewHexColor(0xe7e7eb),
	subtleText: tcell.NewHexColor(0x9aa0b2),
	accent:     tcell.NewHexColor(0x2fb4ad),
	warm:       tcell.NewHexColor(0xffb347),
	danger:     tcell.NewHexColor(0xff6b6b),
	selection:  tcell.NewHexColor(0x1f6f78),
	inputBg:    tcell.NewHexColor(0x151824),
}

func applyTableTheme(t *tview.Table) {
	t.SetBackgroundColor(uiTheme.surface)
	t.SetBorderColor(uiTheme.accent)
	t.SetTitleColor(uiTheme.accent)
	t.SetSelectedStyle(tcell.StyleDefault.Background(uiTheme.selection).Foreground(uiTheme.text))
}

func applyFormTheme(f *tview.Form) {
	f.SetBackgroundColor(uiTheme.surface)
	f.SetBorderColor(uiTheme.accent)
	f.SetTitleColor(uiTheme.accent)
	f.SetFieldBackgroundColor(uiTheme.inputBg)
	f.SetFieldTextColor(uiTheme.text)
	f.SetLabelColor(uiTheme.subtleText)
	f.SetButtonBackgroundColor(uiTheme.accent)
	f.SetButtonTextColor(uiTheme.background)
}

func applyTextTheme(v *tview.TextView) {
	v.SetBackgroundColor(uiTheme.surface)
	v.SetBorderColor(uiTheme.accent)
	v.SetTitleColor(uiTheme.accent)
	v.SetTextColor(uiTheme.text)
}

func stripeColor(row int) tcell.Color {
	if row%2 == 1 {
		return uiTheme.stripe
	}
	return uiTheme.surface
}

func bodyCell(text string, row int) *tview.TableCell {
	return tview.NewTableCell(text).
		SetTextColor(uiTheme.text).
		SetBackgroundColor(stripeColor(row))
}

func header(text string) *tview.TableCell {
	return tview.NewTableCell(text).
		SetSelectable(false).
		SetAttributes(tcell.AttrBold).
		SetTextColor(uiTheme.accent).
		SetBackgroundColor(uiTheme.headerBg)
}

type ui struct {
	app     *tview.Application
	procs   []process.Info
	table   *tview.Table
	details *tview.TextView
	log     *tview.TextView
	status  *tview.TextView

	// bound is the one Process the UI controls; selecting a row rebinds it.
	bound   *process.Process
	refresh time.Duration

	// shownPID mirrors bound.PID for refreshLoop; statsLines were collected
	// for statsPID.
	shownPID   atomic.Uint32
	statsPID   uint32
	statsLines []string

	logLines    []string
	lastLog     string
	lastCount   int
	lastNavRune rune
}

func runUI() error {
	refresh, err := appConfig.RefreshInterval()
	if err != nil {
		return err
	}

	app := tview.NewApplication()
	u := newUI(app, refresh)
	defer u.bound.Close()

	// Log entries go to the log pane instead of the terminal under the UI.
	logger.SetOutput(io.Discard)
	logger.AddHook(&logging.FuncHook{Fn: u.logEntry})

	u.loadProcesses()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		u.refreshLoop(ctx)
	}()

	err = app.SetRoot(u.layout(), true).EnableMouse(true).Run()
	cancel()
	<-done
	return err
}

func newUI(app *tview.Application, refresh time.Duration) *ui {
	u := &ui{
		app:     app,
		bound:   &process.Process{},
		refresh: refresh,
	}

	u.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	applyTableTheme(u.table)
	u.table.SetTitle(" Processes ").SetBorder(true)

	u.details = tview.NewTextView().
		SetScrollable(true).
		SetWrap(true)
	applyTextTheme(u.details)
	u.details.SetBorder(true).SetTitle(" Details ")

	u.log = tview.NewTextView().
		SetScrollable(true).
		SetWrap(true)
	applyTextTheme(u.log)
	u.log.SetBorder(true).SetTitle(" Log (c=clear) ")
	u.log.SetDynamicColors(true)

	u.status = tview.NewTextView().
		SetScrollable(false).
		SetWrap(false)
	u.status.SetBorder(false)
	u.status.SetBackgroundColor(uiTheme.headerBg)
	u.status.SetTextColor(uiTheme.accent)

	u.showWelcome()
	u.bindKeys()
	u.renderDetails()
	u.updateStatus("")
	return u
}

func (u *ui) layout() tview.Primitive {
	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.details, 0, 1, false).
		AddItem(u.log, 0, 1, false)

	content := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(u.table, 48, 0, true).
		AddItem(right, 0, 1, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, true).
		AddItem(u.status, 1, 0, false)
}

func (u *ui) showWelcome() {
	help := []string{
		"[lightgreen]Welcome to procman!",
		"[lightcyan]Pick a process on the left; other letters jump to names (Shift+letter always jumps).",
		"[lightcyan]k terminate  s suspend  u resume  p priority  n spawn  r refresh  c clear log",
	}
	u.logLines = append(help, u.logLines...)
	u.log.SetText(strings.Join(u.logLines, "\n"))
}

type keyAction int

const (
	keyPass keyAction = iota
	keyNavigate
	keyRefresh
	keyTerminate
	keySuspend
	keyResume
	keyPriority
	keySpawn
	keyClearLog
)

// tableKeyAction maps a rune typed in the process table to what it does.
// Lower-case command letters win; every other letter, upper case included,
// jumps to a process name.
func tableKeyAction(r rune) keyAction {
	switch r {
	case 'r':
		return keyRefresh
	case 'k':
		return keyTerminate
	case 's':
		return keySuspend
	case 'u':
		return keyResume
	case 'p':
		return keyPriority
	case 'n':
		return keySpawn
	case 'c':
		return keyClearLog
	}
	if unicode.IsLetter(r) {
		return keyNavigate
	}
	return keyPass
}

func (u *ui) bindKeys() {
	u.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRight {
			u.app.SetFocus(u.log)
			return nil
		}
		if event.Key() != tcell.KeyRune {
			return event
		}

		r := event.Rune()
		switch tableKeyAction(r) {
		case keyRefresh:
			u.loadProcesses()
		case keyTerminate:
			u.confirmTerminate()
		case keySuspend:
			u.control("suspended", (*process.Process).Suspend)
		case keyResume:
			u.control("resumed", (*process.Process).Resume)
		case keyPriority:
			u.editPriority()
		case keySpawn:
			u.editSpawn()
		case keyClearLog:
			u.clearLog()
		case keyNavigate:
			u.quickNavigateProcesses(r)
		default:
			return event
		}
		return nil
	})

	u.log.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft:
			u.app.SetFocus(u.table)
			return nil
		}
		switch event.Rune() {
		case 'c', 'C':
			u.clearLog()
			return nil
		}
		return event
	})

	u.table.SetSelectionChangedFunc(func(row, _ int) {
		u.selectRow(row)
	})
}

func (u *ui) loadProcesses() {
	infos, err := process.List()
	if err != nil {
		u.procs = nil
		logger.WithError(err).Error("load processes")
		u.table.Clear()
		u.table.SetCell(0, 0, header("PID"))
		u.table.SetCell(0, 1, header("PPID"))
		u.table.SetCell(0, 2, header("Name"))
		return
	}

	sortByName(infos)
	u.procs = infos
	u.populateTable()
}

func sortByName(infos []process.Info) {
	sort.SliceStable(infos, func(i, j int) bool {
		// sort ascending by name, case-insensitive
		return strings.ToLower(infos[i].Exe) < strings.ToLower(infos[j].Exe)
	})
}

func (u *ui) populateTable() {
	prevPID := u.bound.PID

	u.table.Clear()
	u.table.SetCell(0, 0, header("PID"))
	u.table.SetCell(0, 1, header("PPID"))
	u.table.SetCell(0, 2, header("Name"))

	selectRow := 0
	for i, p := range u.procs {
		row := i + 1
		u.table.SetCell(row, 0, bodyCell(strconv.FormatUint(uint64(p.PID), 10), row))
		u.table.SetCell(row, 1, bodyCell(strconv.FormatUint(uint64(p.ParentPID), 10), row))
		u.table.SetCell(row, 2, bodyCell(p.Exe, row))
		if p.PID == prevPID && prevPID != 0 {
			selectRow = row
		}
	}

	if selectRow > 0 {
		u.table.Select(selectRow, 0)
	} else if len(u.procs) > 0 {
		u.table.Select(1, 0)
		u.selectRow(1)
	}
}

func (u *ui) selectRow(row int) {
	if row <= 0 || row-1 >= len(u.procs) {
		u.bind(0)
		return
	}
	u.bind(u.procs[row-1].PID)
}

// bind rebinds the UI's Process. Failures leave it partially bound and are
// only logged; the details pane shows whatever is known.
func (u *ui) bind(pid uint32) {
	if pid == u.bound.PID && (pid == 0 || u.bound.Bound()) {
		return
	}
	if err := u.bound.Rebind(pid); err != nil {
		logger.WithError(err).Warn("bind")
	}
	u.renderDetails()
	u.updateStatus("")
}

// renderDetails redraws the details pane from the bound Process and the
// most recent procstat lines.
func (u *ui) renderDetails() {
	var b strings.Builder
	process.WriteInfo(&b, u.bound.Summary())

	if u.bound.Bound() {
		if class, err := u.bound.PriorityClass(); err == nil {
			fmt.Fprintf(&b, "Priority: %s\n", process.PriorityClassName(class))
		}
	}
	if u.bound.PID != 0 && u.statsPID == u.bound.PID {
		for _, line := range u.statsLines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	u.details.SetText(b.String())
	u.shownPID.Store(u.bound.PID)
}

// refreshLoop collects procstat lines off the UI goroutine and hands them
// to the details pane until ctx is done.
func (u *ui) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(u.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pid := u.shownPID.Load()
		lines, logs := collectLines(ctx, pid, u.refresh)
		if ctx.Err() != nil {
			return
		}
		u.app.QueueUpdateDraw(func() {
			for _, l := range logs {
				u.logEntry(l.level, l.text)
			}
			u.statsPID = pid
			u.statsLines = lines
			u.renderDetails()
		})
	}
}

type logLine struct {
	level logrus.Level
	text  string
}

// collectLines runs procstat for pid. Its log entries are returned instead
// of written, since the log pane may only be touched on the UI goroutine.
func collectLines(ctx context.Context, pid uint32, timeout time.Duration) ([]string, []logLine) {
	if pid == 0 {
		return nil, nil
	}

	var logs []logLine
	collector := logrus.New()
	collector.SetOutput(io.Discard)
	collector.SetLevel(logger.GetLevel())
	collector.AddHook(&logging.FuncHook{Fn: func(level logrus.Level, line string) {
		logs = append(logs, logLine{level: level, text: line})
	}})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	stats, err := procstat.Collect(ctx, collector, pid)
	if err != nil {
		return nil, logs
	}
	return stats.Lines(), logs
}

func (u *ui) control(verb string, op func(*process.Process) error) {
	if !u.bound.Bound() {
		u.updateStatus("no process handle")
		return
	}
	if err := op(u.bound); err != nil {
		logger.WithError(err).Error(verb)
		return
	}
	name, _ := u.bound.Name()
	logger.WithFields(logrus.Fields{"pid": u.bound.PID, "exe": name}).Info(verb)
	u.renderDetails()
}

func (u *ui) confirmTerminate() {
	if !u.bound.Bound() {
		u.updateStatus("no process handle")
		return
	}
	pid := u.bound.PID
	code := tview.NewInputField().
		SetLabel("Exit code ").
		SetText(strconv.FormatUint(uint64(appConfig.ExitCode), 10))

	form := tview.NewForm().
		AddFormItem(code).
		AddButton("Terminate", func() {
			v, err := strconv.ParseUint(strings.TrimSpace(code.GetText()), 10, 32)
			if err != nil {
				code.SetLabel("Invalid code ")
				return
			}
			if err := u.bound.Terminate(uint32(v)); err != nil {
				logger.WithError(err).Error("terminate")
			} else {
				logger.WithField("pid", pid).Info("terminated")
			}
			u.closeModal()
			u.loadProcesses()
		}).
		AddButton("Cancel", u.closeModal)
	form.SetBorder(true).SetTitle(fmt.Sprintf(" Terminate PID %d ", pid))
	applyFormTheme(form)

	u.showModal(form, 44, 7)
	u.app.SetFocus(code)
}

func (u *ui) editPriority() {
	if !u.bound.Bound() {
		u.updateStatus("no process handle")
		return
	}
	names := process.PriorityClassNames()
	drop := tview.NewDropDown().
		SetLabel("Class ").
		SetOptions(names, nil)
	drop.SetCurrentOption(2)
	if class, err := u.bound.PriorityClass(); err == nil {
		for i, n := range names {
			if n == process.PriorityClassName(class) {
				drop.SetCurrentOption(i)
			}
		}
	}

	form := tview.NewForm().
		AddFormItem(drop).
		AddButton("Save", func() {
			_, name := drop.GetCurrentOption()
			class, err := process.ParsePriorityClass(name)
			if err == nil {
				err = u.bound.SetPriorityClass(class)
			}
			if err != nil {
				logger.WithError(err).Error("set priority")
			} else {
				logger.WithFields(logrus.Fields{"pid": u.bound.PID, "class": name}).Info("priority set")
			}
			u.closeModal()
			u.renderDetails()
		}).
		AddButton("Cancel", u.closeModal)
	form.SetBorder(true).SetTitle(" Priority class ")
	applyFormTheme(form)

	u.showModal(form, 44, 7)
	u.app.SetFocus(drop)
}

func (u *ui) editSpawn() {
	parentText := appConfig.Spawn.Parent
	if parentText == "" && u.bound.PID != 0 {
		parentText = strconv.FormatUint(uint64(u.bound.PID), 10)
	}

	path := tview.NewInputField().SetLabel("Executable ")
	args := tview.NewInputField().SetLabel("Arguments ")
	parent := tview.NewInputField().SetLabel("Parent ").SetText(parentText)
	console := tview.NewCheckbox().SetLabel("New console ").SetChecked(appConfig.Spawn.NewConsole)

	form := tview.NewForm().
		AddFormItem(path).
		AddFormItem(args).
		AddFormItem(parent).
		AddFormItem(console).
		AddButton("Spawn", func() {
			exe := strings.TrimSpace(path.GetText())
			if exe == "" {
				path.SetLabel("Executable (required) ")
				return
			}
			opts := process.SpawnOptions{Args: strings.Fields(args.GetText())}
			if console.IsChecked() {
				opts.CreationFlags |= windows.CREATE_NEW_CONSOLE
			}

			target := strings.TrimSpace(parent.GetText())
			parentPID, err := resolvePID(target)
			var childPID uint32
			if err == nil {
				childPID, err = process.SpawnWithParent(exe, parentPID, opts)
			}
			if err != nil {
				logger.WithError(err).Error("spawn")
			} else {
				logger.WithFields(logrus.Fields{"pid": childPID, "parent": target}).Info("spawned")
			}
			u.closeModal()
			u.loadProcesses()
		}).
		AddButton("Cancel", u.closeModal)
	form.SetBorder(true).SetTitle(" Spawn with parent ")
	applyFormTheme(form)

	u.showModal(form, 64, 13)
	u.app.SetFocus(path)
}

func (u *ui) showModal(p tview.Primitive, width, height int) {
	modal := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(nil, 0, 1, false).
			AddItem(p, width, 0, true).
			AddItem(nil, 0, 1, false), height, 0, true).
		AddItem(nil, 0, 1, false)

	u.app.SetRoot(modal, true)
}

func (u *ui) closeModal() {
	u.app.SetRoot(u.layout(), true)
	u.app.SetFocus(u.table)
}

const maxLogLines = 200

func (u *ui) logEntry(level logrus.Level, line string) {
	color := "white"
	switch {
	case level <= logrus.ErrorLevel:
		color = "red"
	case level == logrus.WarnLevel:
		color = "yellow"
	}
	u.logf("[%s]%s", color, tview.Escape(line))
}

func (u *ui) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if msg == u.lastLog {
		u.lastCount++
		if len(u.logLines) > 0 {
			u.logLines[len(u.logLines)-1] = collapseMsg(u.lastLog, u.lastCount)
		}
	} else {
		u.lastLog = msg
		u.lastCount = 1
		u.logLines = append(u.logLines, msg)
		if len(u.logLines) > maxLogLines {
			u.logLines = u.logLines[len(u.logLines)-maxLogLines:]
		}
	}

	u.log.SetText(strings.Join(u.logLines, "\n"))
	u.log.ScrollToEnd()
}

func (u *ui) clearLog() {
	u.logLines = nil
	u.lastLog = ""
	u.lastCount = 0
	u.log.SetText("")
}

func collapseMsg(msg string, count int) string {
	if count <= 1 {
		return msg
	}
	return fmt.Sprintf("%s (x%d)", msg, count)
}

func (u *ui) updateStatus(warn string) {
	text := "No process selected"
	color := uiTheme.accent
	switch {
	case warn != "":
		text = warn
		color = uiTheme.danger
	case u.bound.PID != 0:
		name, _ := u.bound.Name()
		state := "bound"
		if !u.bound.Bound() {
			state = "no access"
			color = uiTheme.warm
		}
		text = fmt.Sprintf(" PID %d %s (%s)", u.bound.PID, name, state)
	}
	u.status.SetTextColor(color)
	u.status.SetText(text)
}

func (u *ui) quickNavigateProcesses(ch rune) {
	if len(u.procs) == 0 {
		return
	}

	target := unicode.ToLower(ch)
	start := 0
	if target == u.lastNavRune {
		if row, _ := u.table.GetSelection(); row > 0 {
			start = (row - 1) + 1
		}
	}

	if idx := nextMatch(u.procs, target, start); idx >= 0 {
		u.table.Select(idx+1, 0)
		u.lastNavRune = target
		return
	}

	u.lastNavRune = 0
}

// nextMatch returns the index of the first process at or after start
// (wrapping) whose name begins with r, or -1.
func nextMatch(procs []process.Info, r rune, start int) int {
	for i := 0; i < len(procs); i++ {
		idx := (start + i) % len(procs)
		name := strings.ToLower(procs[idx].Exe)
		if strings.HasPrefix(name, string(r)) {
			return idx
		}
	}
	return -1
}
