// Package ask provides the question answering view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
)

// DefaultQuestion pre-fills the input.
const DefaultQuestion = "Are there any buses from Dhaka to Rajshahi under 500 taka?"

// NoDataMessage is shown when nothing was retrieved to ground an answer.
const NoDataMessage = "No data indexed to answer this question."

// ErrNoAnswerService indicates that no answer service was provided.
var ErrNoAnswerService = errors.New("answer service is not configured")

// View asks a question and shows the answer with its sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	sources   *list.ResultList
	statusbar *status.Bar

	answerService driving.AnswerService
	limit         int
	ctx           context.Context

	answer  *domain.Answer
	noData  bool
	err     error
	pending bool
	ready   bool
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, answerService driving.AnswerService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	field := input.NewField(s, "Question", "Ask about routes, fares or providers")
	field.SetValue(DefaultQuestion)

	return &View{
		styles:        s,
		keymap:        km,
		input:         field,
		sources:       list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		limit:         domain.DefaultAskK,
		ctx:           context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetLimit sets the number of passages used to ground an answer.
func (v *View) SetLimit(k int) {
	if k > 0 {
		v.limit = k
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.pending = false
		v.err = msg.Err
		v.statusbar.Fail(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.pending {
		return v, nil
	}

	if v.input.Focused() {
		if msg.Type == tea.KeyEnter {
			question := v.input.Value()
			if question == "" {
				return v, nil
			}
			v.pending = true
			v.input.Blur()
			v.statusbar.Busy("Generating answer...")
			return v, v.ask(question)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(msg.String(), v.keymap.NewQuery) {
		v.statusbar.Clear()
		v.statusbar.SetHints(v.keymap.ShortHelp())
		return v, v.input.Focus()
	}

	v.sources, _ = v.sources.Update(msg)
	return v, nil
}

func (v *View) ask(question string) tea.Cmd {
	svc, ctx, k := v.answerService, v.ctx, v.limit
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoAnswerService}
		}
		answer, err := svc.Ask(ctx, question, k)
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerCompleted) {
	v.pending = false
	v.answer = nil
	v.noData = false
	v.err = nil
	v.sources.SetResults(nil)
	v.statusbar.SetHints(v.keymap.ResultsHelp())

	switch {
	case errors.Is(msg.Err, domain.ErrNoGroundingData):
		v.noData = true
		v.statusbar.SetState(status.StateReady)
	case msg.Err != nil:
		v.err = msg.Err
		v.statusbar.Fail(msg.Err)
	default:
		v.answer = msg.Answer
		v.sources.SetResults(msg.Answer.Sources)
		v.statusbar.Info("Answered from " + pluralSources(len(msg.Answer.Sources)))
	}
}

func pluralSources(n int) string {
	if n == 1 {
		return "1 source"
	}
	return fmt.Sprintf("%d sources", n)
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Ask a Question"), "",
		v.input.View(), "",
	}

	switch {
	case v.pending:
		sections = append(sections, v.styles.Muted.Render("Thinking..."))
	case v.noData:
		sections = append(sections, v.styles.Warning.Render(NoDataMessage))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.answer != nil:
		sections = append(sections,
			v.styles.Subtitle.Render("Answer"),
			v.styles.Answer.Render(v.answer.Text), "",
			v.styles.Subtitle.Render("Sources"),
			v.sources.View(),
		)
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.ready = true
	v.input.SetWidth(width)
	v.sources.SetDimensions(width, height-12)
	v.statusbar.SetWidth(width)
}

// Answer returns the last answer, if any.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// NoData reports whether the last question found nothing to ground on.
func (v *View) NoData() bool {
	return v.noData
}

// Pending reports whether an answer is being generated.
func (v *View) Pending() bool {
	return v.pending
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Question returns the current input value.
func (v *View) Question() string {
	return v.input.Value()
}

// Reset restores the default question.
func (v *View) Reset() {
	v.answer = nil
	v.noData = false
	v.err = nil
	v.pending = false
	v.sources.SetResults(nil)
	v.input.SetValue(DefaultQuestion)
	v.input.Focus()
	v.statusbar.Clear()
	v.statusbar.SetHints(v.keymap.ShortHelp())
}
