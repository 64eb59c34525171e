package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/legal-rag/cli/internal/export"
	"github.com/legal-rag/cli/internal/rag"
	"github.com/legal-rag/cli/internal/session"
)

const exportDir = "exports"

// chatMessage is one rendered message. Sources hold the bounded summary
// view of each document; the raw records live on the conversation log.
type chatMessage struct {
	role      string
	content   string
	sources   []session.DocumentSummary
	reasoning string
	metadata  map[string]any
}

// chatModel handles the chat view
type chatModel struct {
	app      *App
	messages []chatMessage
	input    string
	loading  bool
	status   string
	width    int
	height   int
}

func newChatModel(app *App) *chatModel {
	return &chatModel{
		app:    app,
		width:  80,
		height: 24,
	}
}

func (cm *chatModel) setSize(width, height int) {
	cm.width = width
	cm.height = height
}

// answerMsg carries a completed pipeline result back to the view
type answerMsg struct {
	question string
	result   *rag.Result
}

// answerErrMsg signals a failed pipeline invocation. No turn is logged
// for it.
type answerErrMsg struct {
	err error
}

// exportedMsg signals a finished export attempt
type exportedMsg struct {
	path string
	err  error
}

func (cm *chatModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return cm.handleKey(msg)
	case answerMsg:
		cm.loading = false
		cm.messages = append(cm.messages, chatMessage{
			role:      "assistant",
			content:   msg.result.Answer,
			sources:   summarize(msg.result.Documents),
			reasoning: msg.result.Reasoning,
			metadata:  msg.result.Metadata,
		})
		cm.app.log.Record(msg.question, msg.result.Answer, msg.result.Documents, msg.result.Metadata)
		return nil
	case answerErrMsg:
		cm.loading = false
		cm.status = fmt.Sprintf("Error generating response: %v", msg.err)
		return nil
	case exportedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, export.ErrNoConversation) {
				cm.status = "No conversation to export"
			} else {
				cm.status = fmt.Sprintf("Export failed: %v", msg.err)
			}
		} else {
			cm.status = fmt.Sprintf("Exported to %s", msg.path)
		}
		return nil
	}
	return nil
}

func (cm *chatModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return cm.submit()
	case "ctrl+e":
		return cm.exportConversation
	case "ctrl+r":
		cm.app.log.Clear()
		cm.messages = nil
		cm.status = "Conversation cleared"
		return nil
	case "backspace":
		if len(cm.input) > 0 {
			runes := []rune(cm.input)
			cm.input = string(runes[:len(runes)-1])
		}
		return nil
	default:
		if msg.Type == tea.KeyRunes {
			cm.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			cm.input += " "
		}
		return nil
	}
}

// submit sends the current input through the pipeline
func (cm *chatModel) submit() tea.Cmd {
	question := strings.TrimSpace(cm.input)
	if question == "" || cm.loading {
		return nil
	}

	cm.input = ""
	cm.status = ""
	cm.loading = true
	cm.messages = append(cm.messages, chatMessage{role: "user", content: question})

	app := cm.app
	showReasoning := app.showReasoning
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := app.pipeline.AnswerQuestion(ctx, question, app.cfg, showReasoning)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return answerMsg{question: question, result: result}
	}
}

// exportConversation transforms the conversation log into the evaluation
// artifact and writes it to disk
func (cm *chatModel) exportConversation() tea.Msg {
	doc, err := export.Transform(cm.app.log, cm.app.cfg.DataRootName())
	if err != nil {
		return exportedMsg{err: err}
	}

	writer := &export.Writer{}
	path, err := writer.WriteFile(doc, exportDir)
	return exportedMsg{path: path, err: err}
}

// summarize derives display views for the retrieved documents
func summarize(docs []session.DocumentReference) []session.DocumentSummary {
	summaries := make([]session.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}
	return summaries
}

func (cm *chatModel) view() string {
	var lines []string

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("Legal RAG Chatbot")
	lines = append(lines, title)
	lines = append(lines, "")

	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	sourceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	for _, msg := range cm.messages {
		if msg.role == "user" {
			lines = append(lines, userStyle.Render("You: ")+msg.content)
		} else {
			lines = append(lines, "AI: "+msg.content)
			for i, src := range msg.sources {
				label := fmt.Sprintf("  [%d] %s | DB: %s | Country: %s | Law: %s",
					i+1, src.SourceName, src.DBName, src.Country, src.Law)
				lines = append(lines, sourceStyle.Render(label))
			}
			if msg.reasoning != "" {
				lines = append(lines, sourceStyle.Render("  Reasoning:"))
				for _, traceLine := range strings.Split(strings.TrimRight(msg.reasoning, "\n"), "\n") {
					lines = append(lines, sourceStyle.Render("    "+traceLine))
				}
			}
			if len(msg.metadata) > 0 {
				lines = append(lines, sourceStyle.Render("  Extracted metadata:"))
				keys := make([]string, 0, len(msg.metadata))
				for key := range msg.metadata {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					lines = append(lines, sourceStyle.Render(fmt.Sprintf("    %s: %v", key, msg.metadata[key])))
				}
			}
		}
		lines = append(lines, "")
	}

	if cm.loading {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render("Thinking..."))
		lines = append(lines, "")
	}

	if cm.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(cm.status))
		lines = append(lines, "")
	}

	lines = append(lines, "> "+cm.input)
	lines = append(lines, "")
	help := "Enter: Ask | Ctrl+E: Export | Ctrl+R: Clear | Tab: Settings | Ctrl+C: Quit"
	lines = append(lines, sourceStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
