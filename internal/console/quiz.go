package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/vocabtester/internal/quiz"
	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// TagLister lists the tags in use, most recent first.
type TagLister interface {
	ListTags(ctx context.Context) ([]string, error)
}

// Speaker reads Japanese text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type styles struct {
	sentence  lipgloss.Style
	highlight lipgloss.Style
	prompt    lipgloss.Style
	correct   lipgloss.Style
	incorrect lipgloss.Style
	subtle    lipgloss.Style
	err       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		sentence:  r.NewStyle().Bold(true).Padding(0, 1),
		highlight: r.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("15")),
		prompt:    r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		correct:   r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		incorrect: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		subtle:    r.NewStyle().Foreground(lipgloss.Color("8")),
		err:       r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Quiz is the terminal front end of a quiz session.
type Quiz struct {
	session *quiz.Session
	tags    TagLister
	speaker Speaker
	in      *bufio.Scanner
	out     io.Writer
	st      styles
}

// New creates a terminal quiz. speaker may be nil.
func New(session *quiz.Session, tags TagLister, speaker Speaker, in io.Reader, out io.Writer) *Quiz {
	return &Quiz{
		session: session,
		tags:    tags,
		speaker: speaker,
		in:      bufio.NewScanner(in),
		out:     out,
		st:      newStyles(lipgloss.NewRenderer(out)),
	}
}

var errQuit = errors.New("quit")

// Run asks questions until the input ends or the user quits.
func (q *Quiz) Run(ctx context.Context) error {
	if err := q.advance(ctx); err != nil {
		return err
	}

	for {
		st := q.session.State()
		q.show(st)

		line, ok := q.readLine()
		if !ok {
			break
		}
		if strings.HasPrefix(line, ":") {
			err := q.command(ctx, line)
			if errors.Is(err, errQuit) {
				break
			}
			if err != nil {
				return err
			}
			continue
		}

		if err := q.answer(ctx, st, line); err != nil {
			return err
		}
	}

	score := q.session.State().Score
	fmt.Fprintf(q.out, "\nScore: %d/%d\n", score.Correct, score.Answered)
	return ctx.Err()
}

func (q *Quiz) readLine() (string, bool) {
	if !q.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(q.in.Text()), true
}

func (q *Quiz) advance(ctx context.Context) error {
	err := q.session.Advance(ctx)
	if errors.Is(err, quiz.ErrNoWordsAvailable) {
		return nil
	}
	return err
}

func (q *Quiz) show(st quiz.State) {
	switch st.Step {
	case quiz.StepEmpty:
		fmt.Fprintln(q.out, q.st.incorrect.Render(quiz.Prompt(st.Step, nil)))
		fmt.Fprintln(q.out, q.st.subtle.Render("Type :tag NAME to change the filter or :q to quit."))
	case quiz.StepReading:
		fmt.Fprintln(q.out)
		fmt.Fprintln(q.out, q.st.sentence.Render(q.highlight(st.Word)))
		fmt.Fprint(q.out, q.st.prompt.Render(quiz.Prompt(st.Step, st.Word))+" ")
	case quiz.StepMeaning:
		fmt.Fprint(q.out, q.st.prompt.Render(quiz.Prompt(st.Step, st.Word))+" ")
	case quiz.StepResult:
		verdict := st.Result.Feedback(st.Word)
		if st.Result.Correct() {
			fmt.Fprintln(q.out, q.st.correct.Render(verdict))
		} else {
			fmt.Fprintln(q.out, q.st.incorrect.Render(verdict))
		}
		fmt.Fprintln(q.out, quiz.Details(st.Word))
		fmt.Fprint(q.out, q.st.subtle.Render("Press Enter for the next word")+" ")
	}
}

// highlight marks the quizzed word inside its sentence.
func (q *Quiz) highlight(w *vocab.Word) string {
	before, after, found := strings.Cut(w.JapaneseSentence, w.KanjiWord)
	if !found {
		return w.JapaneseSentence
	}
	return before + q.st.highlight.Render(w.KanjiWord) + after
}

func (q *Quiz) answer(ctx context.Context, st quiz.State, line string) error {
	switch st.Step {
	case quiz.StepReading:
		return q.session.SubmitReading(line)
	case quiz.StepMeaning:
		if _, err := q.session.SubmitMeaning(ctx, line); err != nil {
			// The session stays on the meaning step, so the answer can be
			// given again.
			slog.Error("failed to grade answer", "error", err)
			fmt.Fprintln(q.out, q.st.err.Render("Error: "+err.Error()))
		}
		return nil
	case quiz.StepResult:
		return q.advance(ctx)
	default:
		return nil
	}
}

func (q *Quiz) command(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		return errQuit
	case "tag":
		err := q.session.SetFilter(ctx, arg)
		if errors.Is(err, quiz.ErrNoWordsAvailable) {
			return nil
		}
		return err
	case "tags":
		tags, err := q.tags.ListTags(ctx)
		if err != nil {
			fmt.Fprintln(q.out, q.st.err.Render("Error: "+err.Error()))
			return nil
		}
		fmt.Fprintln(q.out, strings.Join(tags, ", "))
	case "say":
		q.say(ctx)
	default:
		fmt.Fprintln(q.out, q.st.err.Render("Unknown command :"+name))
	}
	return nil
}

func (q *Quiz) say(ctx context.Context) {
	st := q.session.State()
	if st.Word == nil {
		return
	}
	if q.speaker == nil {
		fmt.Fprintln(q.out, q.st.subtle.Render("Speech is not configured."))
		return
	}
	if err := q.speaker.Speak(ctx, st.Word.JapaneseSentence); err != nil {
		slog.Warn("speech failed", "word_id", st.Word.ID, "error", err)
		fmt.Fprintln(q.out, q.st.err.Render("Speech failed: "+err.Error()))
	}
}
