package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

type view struct {
	w io.Writer

	plain   lipgloss.Style
	header  lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	status  map[string]lipgloss.Style
}

func newView(w io.Writer, noColor bool) *view {
	r := lipgloss.NewRenderer(w)
	pick := func(s lipgloss.Style) lipgloss.Style {
		if noColor {
			return r.NewStyle()
		}
		return s
	}

	return &view{
		w:       w,
		plain:   r.NewStyle(),
		header:  pick(r.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))),
		title:   pick(r.NewStyle().Bold(true)),
		muted:   pick(r.NewStyle().Foreground(lipgloss.Color("241"))),
		success: pick(r.NewStyle().Foreground(lipgloss.Color("42"))),
		status: map[string]lipgloss.Style{
			"todo":        pick(r.NewStyle().Foreground(lipgloss.Color("252"))),
			"in-progress": pick(r.NewStyle().Foreground(lipgloss.Color("214"))),
			"done":        pick(r.NewStyle().Foreground(lipgloss.Color("42"))),
		},
	}
}

func (v *view) println(s string) {
	fmt.Fprintln(v.w, s)
}

func (v *view) ok(format string, args ...any) {
	v.println(v.success.Render(fmt.Sprintf(format, args...)))
}

func (v *view) note(format string, args ...any) {
	v.println(v.muted.Render(fmt.Sprintf(format, args...)))
}

// table pads every column to its widest cell. style may restyle a cell
// after padding; nil leaves it plain.
func (v *view) table(head []string, rows [][]string, style func(row, col int, cell string) lipgloss.Style) {
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}

	cells := make([]string, len(head))
	for i, h := range head {
		cells[i] = v.header.Render(pad(h, widths[i]))
	}
	v.println(strings.TrimRight(strings.Join(cells, "  "), " "))

	for r, row := range rows {
		for i, cell := range row {
			padded := pad(cell, widths[i])
			if i == len(row)-1 {
				padded = cell
			}
			if style != nil {
				padded = style(r, i, cell).Render(padded)
			}
			cells[i] = padded
		}
		v.println(strings.Join(cells[:len(row)], "  "))
	}
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func optID(n *int64) string {
	if n == nil {
		return "-"
	}
	return id(*n)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (v *view) user(u *models.User) {
	v.println(fmt.Sprintf("%s <%s>  %s", v.title.Render(u.Name), u.Email, v.muted.Render("id "+id(u.ID))))
}

func (v *view) projects(list []models.Project) {
	if len(list) == 0 {
		v.note("No projects yet.")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{id(p.ID), p.Title, optID(p.OwnerID), date(p.CreatedAt)})
	}
	v.table([]string{"ID", "TITLE", "OWNER", "CREATED"}, rows, nil)
}

func (v *view) project(p *models.Project, tasks []models.Task) {
	v.println(v.title.Render(p.Title) + v.muted.Render("  #"+id(p.ID)))
	if p.Description != "" {
		v.println(p.Description)
	}
	v.note("owner %s, created %s", optID(p.OwnerID), date(p.CreatedAt))
	v.println("")
	v.tasks(tasks)
}

func (v *view) tasks(list []models.Task) {
	if len(list) == 0 {
		v.note("No tasks.")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		assignees := make([]string, 0, len(t.AssigneeIDs))
		for _, a := range t.AssigneeIDs {
			assignees = append(assignees, id(a))
		}
		who := strings.Join(assignees, ",")
		if who == "" {
			who = "-"
		}
		rows = append(rows, []string{id(t.ID), t.Status, t.Title, who})
	}
	v.table([]string{"ID", "STATUS", "TITLE", "ASSIGNEES"}, rows, func(_, col int, cell string) lipgloss.Style {
		if s, ok := v.status[cell]; ok && col == 1 {
			return s
		}
		return v.plain
	})
}

func (v *view) task(t *models.Task) {
	v.tasks([]models.Task{*t})
}

func (v *view) comments(list []models.Comment) {
	if len(list) == 0 {
		v.note("No comments.")
		return
	}
	for _, c := range list {
		v.println(v.muted.Render(fmt.Sprintf("#%d by user %d, %s", c.ID, c.AuthorID, date(c.CreatedAt))))
		v.println(c.Content)
	}
}

func (v *view) attachments(list []models.Attachment) {
	if len(list) == 0 {
		v.note("No attachments.")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		state := "pending"
		if a.Uploaded {
			state = "uploaded"
		}
		rows = append(rows, []string{id(a.ID), a.FileName, state, a.DownloadURL})
	}
	v.table([]string{"ID", "FILE", "STATE", "URL"}, rows, nil)
}
