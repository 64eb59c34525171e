package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settings entries, in display order
const (
	settingAgentMode = iota
	settingShowReasoning
	settingTopK
	settingTopKFinal
	settingUseRerank
	settingCount
)

// settingsModel handles the configuration view: agent architecture,
// retrieval parameters, and model/corpus info
type settingsModel struct {
	app      *App
	selected int
	status   string
	stats    *corpusStatsMsg
	width    int
	height   int
}

// corpusStatsMsg carries ingested document and chunk counts for the info
// block
type corpusStatsMsg struct {
	documents int
	chunks    int
}

// loadStats queries the store for corpus counts
func (sm *settingsModel) loadStats() tea.Cmd {
	app := sm.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		docs, err := app.db.GetAllDocuments(ctx)
		if err != nil {
			return nil
		}
		chunks, err := app.db.CountChunks(ctx)
		if err != nil {
			return nil
		}
		return corpusStatsMsg{documents: len(docs), chunks: chunks}
	}
}

func newSettingsModel(app *App) *settingsModel {
	return &settingsModel{
		app:    app,
		width:  80,
		height: 24,
	}
}

func (sm *settingsModel) setSize(width, height int) {
	sm.width = width
	sm.height = height
}

func (sm *settingsModel) update(msg tea.Msg) tea.Cmd {
	if stats, ok := msg.(corpusStatsMsg); ok {
		sm.stats = &stats
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if sm.selected < settingCount-1 {
			sm.selected++
		}
	case "k", "up":
		if sm.selected > 0 {
			sm.selected--
		}
	case "h", "left":
		sm.adjust(-1)
	case "l", "right", "enter", " ":
		sm.adjust(1)
	case "s":
		if err := sm.app.cfg.Save(); err != nil {
			sm.status = fmt.Sprintf("Save failed: %v", err)
		} else {
			sm.status = "Configuration saved"
		}
	}
	return nil
}

// adjust changes the selected setting. Bounds follow the original
// parameter ranges: top_k 5-20, top_k_final 3-10 and never above top_k.
func (sm *settingsModel) adjust(delta int) {
	cfg := sm.app.cfg
	switch sm.selected {
	case settingAgentMode:
		cfg.Agent.UseMultiAgent = !cfg.Agent.UseMultiAgent
	case settingShowReasoning:
		sm.app.showReasoning = !sm.app.showReasoning
	case settingTopK:
		cfg.Retrieval.TopK = clamp(cfg.Retrieval.TopK+delta, 5, 20)
		if cfg.Retrieval.TopKFinal > cfg.Retrieval.TopK {
			cfg.Retrieval.TopKFinal = cfg.Retrieval.TopK
		}
	case settingTopKFinal:
		upper := 10
		if cfg.Retrieval.TopK < upper {
			upper = cfg.Retrieval.TopK
		}
		cfg.Retrieval.TopKFinal = clamp(cfg.Retrieval.TopKFinal+delta, 3, upper)
	case settingUseRerank:
		cfg.Retrieval.UseRerank = !cfg.Retrieval.UseRerank
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (sm *settingsModel) view() string {
	cfg := sm.app.cfg
	var lines []string

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Render("Configuration")
	lines = append(lines, title)
	lines = append(lines, "")

	agentMode := "Single Agent (ReAct)"
	if cfg.Agent.UseMultiAgent {
		agentMode = "Multi-Agent (Supervisor)"
	}

	entries := []string{
		fmt.Sprintf("Agent architecture: %s", agentMode),
		fmt.Sprintf("Show reasoning trace: %v", sm.app.showReasoning),
		fmt.Sprintf("Initial retrieval (top_k): %d", cfg.Retrieval.TopK),
		fmt.Sprintf("Final documents (top_k_final): %d", cfg.Retrieval.TopKFinal),
		fmt.Sprintf("Similarity reranking: %v", cfg.Retrieval.UseRerank),
	}

	for i, entry := range entries {
		style := lipgloss.NewStyle()
		if i == sm.selected {
			style = style.Bold(true).Foreground(lipgloss.Color("205"))
		}
		lines = append(lines, style.Render(entry))
	}

	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	lines = append(lines, "")
	lines = append(lines, infoStyle.Render(fmt.Sprintf("LLM: %s", cfg.Models.LLMModelName)))
	lines = append(lines, infoStyle.Render(fmt.Sprintf("Embeddings: %s", cfg.Models.EmbeddingModelName)))
	lines = append(lines, "")

	lines = append(lines, infoStyle.Render(fmt.Sprintf("Vector stores (%d):", len(cfg.Paths.VectorStoreDirs))))
	for _, dir := range cfg.Paths.VectorStoreDirs {
		name := filepath.Base(dir)
		kind := ""
		if strings.Contains(name, "_codes") {
			kind = " (Codes)"
		} else if strings.Contains(name, "_cases") {
			kind = " (Cases)"
		}
		lines = append(lines, infoStyle.Render("  "+name+kind))
	}

	if sm.stats != nil {
		lines = append(lines, "")
		lines = append(lines, infoStyle.Render(fmt.Sprintf(
			"Indexed: %d documents, %d chunks", sm.stats.documents, sm.stats.chunks)))
	}

	if sm.status != "" {
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render(sm.status))
	}

	lines = append(lines, "")
	help := "j/k: Navigate | h/l: Adjust | s: Save | Tab: Chat | Ctrl+C: Quit"
	lines = append(lines, infoStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
