package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gallerist/internal/darkroom"
	"gallerist/internal/shared"
	"gallerist/internal/state"
)

const sidebarWidth = 28

// browserOpen is swapped out in tests.
var browserOpen = shared.OpenBrowser

// renderMain composes the full-screen layout: header, sidebar + photo
// table, status line, and the upload modal overlaid when open.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	header := m.renderHeader(styles)
	status := m.renderStatus(styles)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	if m.snapshot.SidebarOpen {
		sidebar := m.renderSidebar(styles, bodyHeight)
		table := m.renderPhotoTable(styles, m.width-sidebarWidth, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, table)
	} else {
		body = m.renderPhotoTable(styles, m.width, bodyHeight)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, status)

	if m.snapshot.UploadModalOpen {
		modal := m.renderUploadModal(styles)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceChars(" "))
	}

	return view
}

func (m Model) renderHeader(styles Styles) string {
	title := styles.Title.Render("gallerist")

	var right string
	switch {
	case m.snapshot.Status == state.StatusFailed && m.snapshot.Err != nil:
		right = styles.Danger.Render("DARKROOM UNREACHABLE") + "  " +
			styles.Warning.Render("retrying...")
	case m.snapshot.LastUpdated.IsZero():
		right = styles.Muted.Render("connecting...")
	default:
		right = styles.Muted.Render("updated " + m.snapshot.LastUpdated.Format("15:04:05"))
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(" " + title + strings.Repeat(" ", gap) + right)
}

func (m Model) renderSidebar(styles Styles, height int) string {
	var b strings.Builder
	b.WriteString(styles.Accent.Render("Datasets"))
	b.WriteString("\n\n")

	if len(m.snapshot.Datasets) == 0 {
		b.WriteString(styles.Muted.Render("no datasets"))
	}
	for _, d := range m.snapshot.Datasets {
		label := truncate(d.Name, sidebarWidth-6)
		if d.ID == m.snapshot.ActiveDatasetID {
			b.WriteString(styles.Selected.Render("> " + label))
		} else {
			b.WriteString(styles.Text.Render("  " + label))
		}
		b.WriteString("\n")
	}

	return styles.FocusPane.
		Width(sidebarWidth - 2).
		Height(height - 2).
		Render(b.String())
}

func (m Model) renderPhotoTable(styles Styles, width, height int) string {
	var b strings.Builder

	name := "photos"
	if d, ok := m.snapshot.ActiveDataset(); ok {
		name = d.Name
	}
	b.WriteString(styles.Accent.Render(name))
	b.WriteString("\n\n")

	if len(m.snapshot.Photos) == 0 {
		b.WriteString(styles.Muted.Render("no photos"))
	} else {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  %-32s %-12s %s", "FILENAME", "SIZE", "TYPE")))
		b.WriteString("\n")
		for i, p := range m.snapshot.Photos {
			row := fmt.Sprintf("  %-32s %-12s %s",
				truncate(p.Filename, 32), photoSize(p), p.MIMEType)
			if i == m.photoRow {
				b.WriteString(styles.Selected.Render(row))
			} else {
				b.WriteString(styles.Text.Render(row))
			}
			b.WriteString("\n")
		}
	}

	return styles.Pane.
		Width(width - 2).
		Height(height - 2).
		Render(b.String())
}

func (m Model) renderStatus(styles Styles) string {
	var left string
	switch m.snapshot.Status {
	case state.StatusLoading:
		left = styles.Warning.Render("uploading...")
	case state.StatusFailed:
		if m.snapshot.Err != nil {
			left = styles.Danger.Render(truncate(m.snapshot.Err.Error(), m.width/2))
		}
	default:
		left = styles.Muted.Render(fmt.Sprintf("%d datasets / %d photos",
			len(m.snapshot.Datasets), len(m.snapshot.Photos)))
	}

	help := styles.Muted.Render("j/k select  u upload  o open  s sidebar  T theme  ? help  q quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(" " + left + strings.Repeat(" ", gap) + help)
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	rows := [][2]string{
		{"j / k", "select previous/next dataset"},
		{"J / K", "move photo cursor"},
		{"o, enter", "open highlighted photo in browser"},
		{"u", "upload an archive as a new dataset"},
		{"r", "refresh now"},
		{"s", "toggle the dataset sidebar"},
		{"T", "cycle color theme"},
		{"q, ctrl+c", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("gallerist keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(styles.Accent.Render(fmt.Sprintf("  %-10s", r[0])))
		b.WriteString(styles.Text.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("press any key to close"))

	box := styles.FocusPane.Padding(1, 2).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func photoSize(p darkroom.Photo) string {
	if p.Width == 0 && p.Height == 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}
