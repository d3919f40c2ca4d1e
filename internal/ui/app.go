package ui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gallerist/internal/darkroom"
	"gallerist/internal/prefs"
	"gallerist/internal/state"
	"gallerist/internal/upload"
)

const defaultUITick = time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *darkroom.Client
	Store     *state.Store
	Uploader  *upload.Uploader
	ThemeName string
	PrefsPath string
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	client    *darkroom.Client
	store     *state.Store
	uploader  *upload.Uploader
	prefsPath string
	tick      time.Duration

	theme  Theme
	width  int
	height int
	ready  bool

	snapshot state.Snapshot
	photoRow int

	showHelp bool

	// Upload modal state. progressCh carries task snapshots from the upload
	// cycle's goroutine into the Bubble Tea loop.
	pathInput   textinput.Model
	nameInput   textinput.Model
	modalFocus  int
	progressBar progress.Model
	spin        spinner.Model
	uploading   bool
	uploadTask  darkroom.Task
	modalErr    string
	progressCh  chan darkroom.Task
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = defaultUITick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/archive.zip"
	pathInput.CharLimit = 512

	nameInput := textinput.New()
	nameInput.Placeholder = "dataset name (blank: derive from filename)"
	nameInput.CharLimit = 128

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		uploader:    opts.Uploader,
		prefsPath:   prefsPath,
		tick:        tick,
		theme:       GetTheme(themeName),
		pathInput:   pathInput,
		nameInput:   nameInput,
		progressBar: progress.New(progress.WithDefaultGradient()),
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(48, msg.Width-8)
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		prevActive := m.snapshot.ActiveDatasetID
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.ActiveDatasetID != prevActive {
			m.photoRow = 0
		}
		m.clampPhotoRow()
		return m, nil

	case uploadProgressMsg:
		m.uploadTask = darkroom.Task(msg)
		return m, waitProgressCmd(m.progressCh)

	case uploadDoneMsg:
		m.uploading = false
		m.progressCh = nil
		if msg.err != nil {
			m.modalErr = msg.err.Error()
		} else {
			m.modalErr = ""
			m.pathInput.Reset()
			m.nameInput.Reset()
		}
		return m, fetchSnapshotCmd(m.store)

	case spinner.TickMsg:
		if !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}

	if m.snapshot.UploadModalOpen {
		return m.handleModalKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			sidebar := m.snapshot.SidebarOpen
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, SidebarOpen: &sidebar})
		}
		return m, nil

	case "s":
		m.store.SidebarToggled()
		return m, fetchSnapshotCmd(m.store)

	case "u":
		m.modalErr = ""
		m.pathInput.Focus()
		m.nameInput.Blur()
		m.modalFocus = 0
		m.store.UploadModalOpened()
		return m, fetchSnapshotCmd(m.store)

	case "r":
		return m, refreshCmd(m.ctx, m.client, m.store)

	case "j", "down":
		return m.moveSelection(1)

	case "k", "up":
		return m.moveSelection(-1)

	case "J", "shift+down":
		m.photoRow++
		m.clampPhotoRow()
		return m, nil

	case "K", "shift+up":
		m.photoRow--
		m.clampPhotoRow()
		return m, nil

	case "o", "enter":
		return m, m.openPhotoCmd()
	}

	return m, nil
}

// moveSelection shifts the active dataset by delta and refetches its photos.
func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	datasets := m.snapshot.Datasets
	if len(datasets) == 0 {
		return m, nil
	}
	idx := m.activeIndex() + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(datasets)-1 {
		idx = len(datasets) - 1
	}
	id := datasets[idx].ID
	if id == m.snapshot.ActiveDatasetID {
		return m, nil
	}
	m.photoRow = 0
	return m, selectDatasetCmd(m.ctx, m.client, m.store, id)
}

func (m Model) activeIndex() int {
	for i, d := range m.snapshot.Datasets {
		if d.ID == m.snapshot.ActiveDatasetID {
			return i
		}
	}
	return 0
}

func (m *Model) clampPhotoRow() {
	if m.photoRow < 0 {
		m.photoRow = 0
	}
	if n := len(m.snapshot.Photos); n == 0 {
		m.photoRow = 0
	} else if m.photoRow > n-1 {
		m.photoRow = n - 1
	}
}

// openPhotoCmd opens the highlighted photo's raw bytes in the browser.
func (m Model) openPhotoCmd() tea.Cmd {
	if len(m.snapshot.Photos) == 0 || m.client == nil {
		return nil
	}
	url := m.client.PhotoFileURL(m.snapshot.Photos[m.photoRow].ID)
	return openBrowserCmd(url)
}

// handleModalKey processes input while the upload modal is open.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.uploading {
			// Abandoning the modal supersedes the running cycle.
			m.uploader.Cancel()
			m.uploading = false
			m.progressCh = nil
		}
		m.store.UploadModalClosed()
		return m, fetchSnapshotCmd(m.store)

	case "tab", "shift+tab":
		if m.uploading {
			return m, nil
		}
		m.modalFocus = 1 - m.modalFocus
		if m.modalFocus == 0 {
			m.pathInput.Focus()
			m.nameInput.Blur()
		} else {
			m.pathInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil

	case "enter":
		if m.uploading {
			return m, nil
		}
		return m.submitUpload()
	}

	if m.uploading {
		return m, nil
	}
	var cmd tea.Cmd
	if m.modalFocus == 0 {
		m.pathInput, cmd = m.pathInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitUpload() (tea.Model, tea.Cmd) {
	path := m.pathInput.Value()
	if path == "" {
		m.modalErr = "archive path required"
		return m, nil
	}
	file, err := os.Open(path)
	if err != nil {
		m.modalErr = err.Error()
		return m, nil
	}

	filename := filepath.Base(path)
	name := m.nameInput.Value()
	if name == "" {
		name = upload.NameFromFilename(filename)
	}

	m.uploading = true
	m.modalErr = ""
	m.uploadTask = darkroom.Task{}
	ch := make(chan darkroom.Task, 8)
	m.progressCh = ch

	return m, tea.Batch(
		runUploadCmd(m.ctx, m.uploader, file, filename, name, ch),
		waitProgressCmd(ch),
		m.spin.Tick,
	)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type uploadProgressMsg darkroom.Task

type uploadDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshCmd refetches the dataset list and the active dataset's photos.
func refreshCmd(ctx context.Context, client *darkroom.Client, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		datasets, err := client.ListDatasets(ctx)
		if err != nil {
			store.DatasetsLoadFailed(err)
			return snapshotMsg(store.Snapshot())
		}
		store.DatasetsLoaded(datasets)
		if active := store.Snapshot().ActiveDatasetID; active != "" {
			photos, err := client.ListPhotos(ctx, active)
			if err != nil {
				store.PhotosLoadFailed(err)
			} else {
				store.PhotosLoaded(photos)
			}
		}
		return snapshotMsg(store.Snapshot())
	}
}

// selectDatasetCmd applies the selection transition and fetches photos for
// the new active dataset.
func selectDatasetCmd(ctx context.Context, client *darkroom.Client, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		store.DatasetSelected(id)
		photos, err := client.ListPhotos(ctx, id)
		if err != nil {
			store.PhotosLoadFailed(err)
		} else if store.Snapshot().ActiveDatasetID == id {
			store.PhotosLoaded(photos)
		}
		return snapshotMsg(store.Snapshot())
	}
}

func runUploadCmd(ctx context.Context, uploader *upload.Uploader, file *os.File, filename, name string, ch chan darkroom.Task) tea.Cmd {
	return func() tea.Msg {
		defer func() { _ = file.Close() }()
		err := uploader.Run(ctx, file, filename, name, func(t darkroom.Task) {
			select {
			case ch <- t:
			default: // never block the poll loop on a slow UI
			}
		})
		close(ch)
		return uploadDoneMsg{err: err}
	}
}

func waitProgressCmd(ch chan darkroom.Task) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return uploadProgressMsg(t)
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		_ = browserOpen(url)
		return nil
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
