package ui

import (
	"fmt"
	"strings"

	"gallerist/internal/darkroom"
)

// renderUploadModal draws the archive-upload dialog. While an upload
// cycle is running it shows the live task state instead of the inputs.
func (m Model) renderUploadModal(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Upload archive"))
	b.WriteString("\n\n")

	if m.uploading {
		b.WriteString(m.spin.View())
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(uploadPhase(m.uploadTask)))
		b.WriteString("\n\n")
		b.WriteString(m.progressBar.ViewAs(float64(m.uploadTask.Progress) / 100))
		if m.uploadTask.Message != "" {
			b.WriteString("\n\n")
			b.WriteString(styles.Muted.Render(truncate(m.uploadTask.Message, 48)))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("esc cancel"))
	} else {
		b.WriteString(styles.Accent.Render("Archive"))
		b.WriteString("\n")
		b.WriteString(m.pathInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.Accent.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.nameInput.View())
		b.WriteString("\n\n")
		if m.modalErr != "" {
			b.WriteString(styles.Danger.Render(truncate(m.modalErr, 48)))
			b.WriteString("\n\n")
		}
		b.WriteString(styles.Muted.Render("tab switch field  enter upload  esc close"))
	}

	return styles.FocusPane.Padding(1, 2).Width(56).Render(b.String())
}

// uploadPhase names the stage an upload cycle is in for the modal.
func uploadPhase(t darkroom.Task) string {
	switch t.Status {
	case "":
		return "submitting archive..."
	case darkroom.StatusPending:
		return "queued on server..."
	case darkroom.StatusRunning:
		return fmt.Sprintf("processing (%d%%)", t.Progress)
	case darkroom.StatusSuccess:
		return "finishing..."
	case darkroom.StatusFailure:
		return "processing failed"
	default:
		return string(t.Status)
	}
}
