// internal/app/app.go
package app

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/keymap"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

// Model is the root application model containing all state.
type Model struct {
	Session  *session.Session
	Title    string
	Showing  []subtitle.Cue
	ShowHelp bool
	ErrorMsg string
	Status   string
	Width    int
	Height   int

	statusVersion int
	sub           *playback.Subscription
	keys          *keymap.Resolver
	help          help.Model
	helpKeys      keymap.Help
}

// New creates the application model for a session. title names the media
// in the status bar.
func New(sess *session.Session, title string) Model {
	return Model{
		Session:  sess,
		Title:    title,
		sub:      sess.Subscribe(),
		keys:     keymap.NewResolver(keymap.All),
		help:     help.New(),
		helpKeys: keymap.NewHelp(keymap.All),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(TickCmd(), m.WatchSessionEvents())
}
