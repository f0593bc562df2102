package llm

import (
	"strings"

	"github.com/sprach-assistent/voxd/internal/applog"
)

// TokenCounter approximates model-aware token counting. A suitable
// tokenizer library is out of scope for this corpus; the whitespace-split
// heuristic below is the same order-of-magnitude approximation the
// reference agent's Ollama client relies on (it also never ships an
// exact tokenizer, trimming history by message-pair count instead).
type TokenCounter func(text string) int

// DefaultTokenCounter counts whitespace-delimited tokens.
func DefaultTokenCounter(text string) int {
	return len(strings.Fields(text))
}

// ReductionStrategy reduces a mode's history in place to fit a token
// budget.
type ReductionStrategy interface {
	Reduce(history []ChatEntry, count TokenCounter, limit int) []ChatEntry
}

// RemoveOldestStrategy drops the oldest entries until the history is
// within budget, or until there is nothing left to drop.
type RemoveOldestStrategy struct {
	log applog.Logger
}

// NewRemoveOldestStrategy builds the default reduction strategy.
func NewRemoveOldestStrategy(log applog.Logger) *RemoveOldestStrategy {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	return &RemoveOldestStrategy{log: log}
}

func (s *RemoveOldestStrategy) Reduce(history []ChatEntry, count TokenCounter, limit int) []ChatEntry {
	for totalTokens(history, count) > limit && len(history) > 0 {
		s.log.Debug("removing oldest history entry to reduce tokens", "entry", history[0].Content)
		history = history[1:]
	}
	return history
}

func totalTokens(history []ChatEntry, count TokenCounter) int {
	total := 0
	for _, entry := range history {
		total += count(entry.Content)
	}
	return total
}

// PromptManager owns one ChatHistory per Mode and the active template.
// Not safe for concurrent use; the orchestrator is its only caller.
type PromptManager struct {
	mode      Mode
	template  PromptTemplate
	histories map[Mode][]ChatEntry
	strategy  ReductionStrategy
	counter   TokenCounter
	log       applog.Logger
}

// NewPromptManager builds a manager starting in initialMode, with an empty
// history for every mode.
func NewPromptManager(initialMode Mode, strategy ReductionStrategy, log applog.Logger) *PromptManager {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	if strategy == nil {
		strategy = NewRemoveOldestStrategy(log)
	}
	histories := make(map[Mode][]ChatEntry, len(allModes))
	for _, m := range allModes {
		histories[m] = nil
	}
	return &PromptManager{
		mode:      initialMode,
		template:  baseTemplates[initialMode],
		histories: histories,
		strategy:  strategy,
		counter:   DefaultTokenCounter,
		log:       log,
	}
}

// SetMode switches the active template and history scope.
func (m *PromptManager) SetMode(mode Mode) {
	if _, ok := m.histories[mode]; !ok {
		m.log.Error("attempted to set unsupported mode", "mode", string(mode))
		return
	}
	m.mode = mode
	m.template = baseTemplates[mode]
}

// Mode returns the active mode.
func (m *PromptManager) Mode() Mode { return m.mode }

// EmptyHistory clears the current mode's history.
func (m *PromptManager) EmptyHistory() {
	m.histories[m.mode] = nil
}

// GetHistory returns the current mode's history.
func (m *PromptManager) GetHistory() []ChatEntry {
	return m.histories[m.mode]
}

// SetHistory replaces the current mode's history wholesale.
func (m *PromptManager) SetHistory(history []ChatEntry) {
	m.histories[m.mode] = history
}

// GetLastEntry returns the current mode's most recent entry, if any.
func (m *PromptManager) GetLastEntry() (ChatEntry, bool) {
	h := m.histories[m.mode]
	if len(h) == 0 {
		return ChatEntry{}, false
	}
	return h[len(h)-1], true
}

// AddUserEntry appends a user turn and returns it.
func (m *PromptManager) AddUserEntry(text string) ChatEntry {
	entry := ChatEntry{Role: "user", Content: text}
	m.histories[m.mode] = append(m.histories[m.mode], entry)
	return entry
}

// AddAssistantEntry appends an assistant turn and returns it.
func (m *PromptManager) AddAssistantEntry(text string) ChatEntry {
	entry := ChatEntry{Role: "assistant", Content: text}
	m.histories[m.mode] = append(m.histories[m.mode], entry)
	return entry
}

// CountTokens tokenizes text with the manager's token counter.
func (m *PromptManager) CountTokens(text string) int {
	return m.counter(text)
}

// CountHistoryTokens sums token counts across the current mode's history.
func (m *PromptManager) CountHistoryTokens() int {
	return totalTokens(m.histories[m.mode], m.counter)
}

// ReduceHistory applies the reduction strategy until the current mode's
// history fits limit tokens, or logs a warning and stops if it cannot.
func (m *PromptManager) ReduceHistory(limit int) {
	reduced := m.strategy.Reduce(m.histories[m.mode], m.counter, limit)
	m.histories[m.mode] = reduced
	if totalTokens(reduced, m.counter) > limit {
		m.log.Warn("history still over token limit after reduction", "mode", string(m.mode), "limit", limit)
	}
}

// GetSystemPrompt returns the active template's formatted system prompt.
func (m *PromptManager) GetSystemPrompt() string {
	return m.template.FormatPrompt()
}

// PrettyPrintHistory renders the current mode's history for diagnostics.
func (m *PromptManager) PrettyPrintHistory() string {
	var b strings.Builder
	for _, entry := range m.histories[m.mode] {
		b.WriteString(entry.Role)
		b.WriteString(": ")
		b.WriteString(entry.Content)
		b.WriteString("\n")
	}
	return b.String()
}
