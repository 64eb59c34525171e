package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/legal-rag/cli/config"
	"github.com/legal-rag/cli/internal/db"
	"github.com/legal-rag/cli/internal/embeddings"
	"github.com/legal-rag/cli/internal/ollama"
	"github.com/legal-rag/cli/internal/rag"
	"github.com/legal-rag/cli/internal/session"
)

// App wires the pipeline, configuration and conversation state for the TUI.
// The conversation log lives here for the process lifetime: one session
// object, one writer, threaded through every view.
type App struct {
	cfg      *config.Config
	db       *db.DB
	pipeline rag.Pipeline
	log      *session.Log

	// showReasoning mirrors the settings toggle; it is passed through to
	// the pipeline on every question
	showReasoning bool
}

// NewApp creates the application and its collaborators
func NewApp(cfg *config.Config) (*App, error) {
	database, err := db.New(cfg.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	textEmb := embeddings.NewTextEmbedder(cfg.Ollama.BaseURL, cfg.Models.EmbeddingModelName)
	llm := ollama.NewClient(cfg.Ollama.BaseURL)

	// Fall back to the best installed model when the configured one is
	// not available
	selector := ollama.NewModelSelector(llm)
	if model, err := selector.GetDefaultModel(context.Background(), cfg.Models.LLMModelName); err == nil {
		cfg.Models.LLMModelName = model
	}

	return &App{
		cfg:      cfg,
		db:       database,
		pipeline: rag.NewEngine(database, textEmb, llm),
		log:      session.NewLog(),
	}, nil
}

// Run starts the TUI application
func (a *App) Run() error {
	defer a.db.Close()

	p := tea.NewProgram(newRootModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// view identifiers
const (
	viewChat = iota
	viewSettings
)

// rootModel switches between the chat and settings views
type rootModel struct {
	app      *App
	active   int
	chat     *chatModel
	settings *settingsModel
	width    int
	height   int
}

func newRootModel(app *App) *rootModel {
	return &rootModel{
		app:      app,
		active:   viewChat,
		chat:     newChatModel(app),
		settings: newSettingsModel(app),
	}
}

// Init initializes the root model and kicks off the corpus stats query
func (m *rootModel) Init() tea.Cmd {
	return m.settings.loadStats()
}

// Update handles global keys and routes everything else to the active view
func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat.setSize(msg.Width, msg.Height)
		m.settings.setSize(msg.Width, msg.Height)
		return m, nil
	case corpusStatsMsg:
		return m, m.settings.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.active == viewChat {
				m.active = viewSettings
			} else {
				m.active = viewChat
			}
			return m, nil
		}
	}

	if m.active == viewSettings {
		return m, m.settings.update(msg)
	}
	return m, m.chat.update(msg)
}

// View renders the active view
func (m *rootModel) View() string {
	if m.active == viewSettings {
		return m.settings.view()
	}
	return m.chat.view()
}
