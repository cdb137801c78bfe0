package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/vocabtester/internal"
	"codeberg.org/snonux/vocabtester/internal/platform"
	"codeberg.org/snonux/vocabtester/internal/quiz"
	"codeberg.org/snonux/vocabtester/internal/reading"
	"codeberg.org/snonux/vocabtester/internal/vocab"
	"codeberg.org/snonux/vocabtester/internal/wordgen"
)

// allTags is the tag selector entry that removes the filter.
const allTags = "All"

// Store is the persistence the GUI quizzes from and edits words through.
type Store interface {
	quiz.WordStore
	AddWord(ctx context.Context, w *vocab.Word) error
	UpdateWord(ctx context.Context, w *vocab.Word) error
	FindByKanji(ctx context.Context, kanji string) (*vocab.Word, error)
	ListTags(ctx context.Context) ([]string, error)
}

// Config holds GUI application configuration. Only Store and Session are
// required; features whose collaborator is nil are disabled.
type Config struct {
	Store     Store
	Session   *quiz.Session
	Generator wordgen.Generator
	Suggester *reading.Suggester
	Speaker   Speaker
	Clipboard *platform.Clipboard
	IME       *platform.IME
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	sentenceDisplay *SentenceDisplay
	promptLabel     *widget.Label
	answerEntry     *AnswerEntry
	submitButton    *ttwidget.Button
	feedbackLabel   *widget.Label
	detailsLabel    *widget.Label
	tagSelect       *widget.Select
	audioPlayer     *AudioPlayer
	statusLabel     *widget.Label
	scoreLabel      *widget.Label

	// Toolbar buttons
	addButton  *ttwidget.Button
	editButton *ttwidget.Button
	copyButton *ttwidget.Button
	helpButton *ttwidget.Button

	config  *Config
	session *quiz.Session
	state   quiz.State

	// Background generation; pending is only touched on the fyne goroutine
	tasks   *TaskQueue
	pending map[int]func(*GenerationTask)

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new GUI application
func New(config *Config) (*Application, error) {
	if config == nil || config.Store == nil || config.Session == nil {
		return nil, errors.New("gui: store and session are required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:     app.NewWithID("org.codeberg.snonux.vocabtester"),
		config:  config,
		session: config.Session,
		pending: make(map[int]func(*GenerationTask)),
		ctx:     ctx,
		cancel:  cancel,
	}

	if config.Generator != nil {
		a.tasks = NewTaskQueue(ctx, config.Generator)
		a.tasks.SetOnComplete(a.onTaskComplete)
	}

	a.window = a.app.NewWindow("vocabtester " + internal.Version)
	a.window.Resize(fyne.NewSize(720, 520))

	a.setupUI()
	a.session.OnChange(a.render)
	return a, nil
}

func (a *Application) setupUI() {
	a.sentenceDisplay = NewSentenceDisplay()

	a.promptLabel = widget.NewLabel("")
	a.promptLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.answerEntry = NewAnswerEntry()
	a.answerEntry.OnSubmitted = func(string) {
		a.onSubmit()
	}
	a.answerEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})
	a.answerEntry.SetOnFocus(a.syncIME)

	a.submitButton = ttwidget.NewButton("", a.onSubmit)
	a.submitButton.Icon = theme.ConfirmIcon()

	inputSection := container.NewBorder(
		a.promptLabel,
		nil,
		nil,
		a.submitButton,
		a.answerEntry,
	)

	a.feedbackLabel = widget.NewLabel("")
	a.feedbackLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.feedbackLabel.Wrapping = fyne.TextWrapWord
	a.detailsLabel = widget.NewLabel("")
	a.detailsLabel.Wrapping = fyne.TextWrapWord

	a.audioPlayer = NewAudioPlayer(a.config.Speaker)

	resultSection := container.NewVBox(
		a.feedbackLabel,
		a.detailsLabel,
	)

	a.tagSelect = widget.NewSelect([]string{allTags}, a.onTagSelected)
	a.tagSelect.PlaceHolder = "Tag filter"

	a.addButton = ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), a.onAddWord)
	a.editButton = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onEditWord)
	a.copyButton = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), a.onCopy)
	a.helpButton = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	toolbar := container.NewHBox(
		a.addButton,
		a.editButton,
		a.copyButton,
		widget.NewSeparator(),
		a.tagSelect,
		layout.NewSpacer(),
		a.helpButton,
	)

	a.statusLabel = widget.NewLabel("Ready")
	a.scoreLabel = widget.NewLabel("")
	a.scoreLabel.TextStyle = fyne.TextStyle{Italic: true}

	statusSection := container.NewBorder(
		nil, nil, nil,
		a.scoreLabel,
		a.statusLabel,
	)

	content := container.NewBorder(
		container.NewVBox(
			toolbar,
			widget.NewSeparator(),
		),
		container.NewVBox(
			widget.NewSeparator(),
			statusSection,
		),
		nil, nil,
		container.NewVBox(
			a.sentenceDisplay,
			a.audioPlayer,
			widget.NewSeparator(),
			inputSection,
			resultSection,
		),
	)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		if a.tasks != nil {
			a.tasks.Stop()
		}
	})

	a.setupKeyboardShortcuts()
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.submitButton.SetToolTip("Submit answer (Enter)")
	a.addButton.SetToolTip("Add word (a)")
	a.editButton.SetToolTip("Edit current word (e)")
	a.copyButton.SetToolTip("Copy sentence (c)")
	a.helpButton.SetToolTip("Show hotkeys (h)")
	a.audioPlayer.SetToolTips()
}

// Run loads the first question and starts the GUI event loop
func (a *Application) Run() {
	a.refreshTags()
	if tag := a.session.Tag(); tag != "" {
		a.selectTag(tag)
	}
	a.advance()
	a.window.ShowAndRun()
}

// render updates every widget from a session snapshot. The session only
// changes on the fyne goroutine, so no hop is needed.
func (a *Application) render(st quiz.State) {
	prevStep := a.state.Step
	a.state = st

	a.sentenceDisplay.SetWord(st.Word)
	a.promptLabel.SetText(quiz.Prompt(st.Step, st.Word))
	a.scoreLabel.SetText(fmt.Sprintf("Score: %d/%d  Queued: %d", st.Score.Correct, st.Score.Answered, st.Queued))

	sentence := ""
	if st.Word != nil {
		sentence = st.Word.JapaneseSentence
	}
	if sentence != a.audioPlayer.text {
		a.audioPlayer.SetText(sentence)
	}

	switch st.Step {
	case quiz.StepResult:
		a.feedbackLabel.SetText(st.Result.Feedback(st.Word))
		if st.Result.Correct() {
			a.feedbackLabel.Importance = widget.SuccessImportance
		} else {
			a.feedbackLabel.Importance = widget.DangerImportance
		}
		a.feedbackLabel.Refresh()
		a.detailsLabel.SetText(quiz.Details(st.Word))
		a.answerEntry.SetPlaceHolder("Press Enter for the next word")
	default:
		a.clearResult()
		a.answerEntry.SetPlaceHolder("")
	}

	if st.Step == quiz.StepEmpty {
		a.answerEntry.Disable()
		a.submitButton.Disable()
	} else {
		a.answerEntry.Enable()
		a.submitButton.Enable()
	}
	if st.Word == nil {
		a.editButton.Disable()
		a.copyButton.Disable()
	} else {
		a.editButton.Enable()
		a.copyButton.Enable()
	}

	if st.Step != prevStep {
		a.syncIME()
	}
}

func (a *Application) clearResult() {
	a.feedbackLabel.SetText("")
	a.detailsLabel.SetText("")
}

// syncIME turns Japanese input on for the reading step and off otherwise.
func (a *Application) syncIME() {
	if a.config.IME == nil {
		return
	}
	a.config.IME.SetOpenAsync(a.state.Step == quiz.StepReading)
}

// onSubmit handles the answer entry for the current step
func (a *Application) onSubmit() {
	text := a.answerEntry.Text

	switch a.state.Step {
	case quiz.StepReading:
		a.answerEntry.SetText("")
		if err := a.session.SubmitReading(text); err != nil {
			a.showError(err)
		}
	case quiz.StepMeaning:
		ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
		defer cancel()
		if _, err := a.session.SubmitMeaning(ctx, text); err != nil {
			// The session stays on the meaning step; keep the answer so it
			// can be submitted again.
			slog.Error("failed to grade answer", "error", err)
			a.showError(err)
			return
		}
		a.answerEntry.SetText("")
	case quiz.StepResult:
		a.answerEntry.SetText("")
		a.advance()
	}
}

func (a *Application) advance() {
	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()
	if err := a.session.Advance(ctx); err != nil && !errors.Is(err, quiz.ErrNoWordsAvailable) {
		a.showError(err)
	}
}

func (a *Application) onTagSelected(selected string) {
	tag := selected
	if tag == allTags {
		tag = ""
	}
	if tag == a.session.Tag() {
		return
	}

	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()
	err := a.session.SetFilter(ctx, tag)
	switch {
	case errors.Is(err, quiz.ErrNoWordsAvailable):
		a.updateStatus(fmt.Sprintf("No words tagged %q", tag))
	case err != nil:
		a.showError(err)
	default:
		a.updateStatus("Filter: " + selected)
	}
}

// selectTag shows tag in the selector. Selecting the session's own tag does
// not reset the queue.
func (a *Application) selectTag(tag string) {
	if tag == "" {
		tag = allTags
	}
	a.tagSelect.SetSelected(tag)
}

func (a *Application) refreshTags() []string {
	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	tags, err := a.config.Store.ListTags(ctx)
	if err != nil {
		slog.Warn("failed to list tags", "error", err)
		return nil
	}
	a.tagSelect.Options = append([]string{allTags}, tags...)
	a.tagSelect.Refresh()
	return tags
}

func (a *Application) onAddWord() {
	a.showWordForm(&vocab.Word{Tag: a.session.Tag()}, "Add word")
}

func (a *Application) onEditWord() {
	if a.state.Word == nil {
		return
	}
	w := *a.state.Word
	a.showWordForm(&w, "Edit word")
}

// showWordForm opens the add/edit dialog. Dismissing it cancels a running
// generation.
func (a *Application) showWordForm(w *vocab.Word, title string) {
	form := NewWordForm(a.refreshTags())
	form.SetWord(w)
	form.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	var task *GenerationTask
	form.OnGenerate = func(kanji string) {
		if a.tasks == nil {
			form.SetStatus("AI generation is not configured")
			return
		}
		if kanji == "" {
			form.SetStatus("Enter the kanji first")
			return
		}
		form.SetBusy(true)
		form.SetStatus(fmt.Sprintf("Generating %s with %s...", kanji, a.config.Generator.Name()))
		task = a.tasks.Start(kanji)
		a.pending[task.ID] = func(t *GenerationTask) {
			form.SetBusy(false)
			switch t.Status {
			case StatusCompleted:
				form.Fill(t.Word)
				form.SetStatus("Generated " + kanji)
			case StatusFailed:
				form.SetStatus("Generation failed: " + t.Err.Error())
			}
		}
	}
	form.OnSuggest = func(kanji string) {
		if a.config.Suggester == nil {
			form.SetStatus("Reading suggestions are not available")
			return
		}
		kana, err := a.config.Suggester.Suggest(kanji)
		if err != nil {
			form.SetStatus(err.Error())
			return
		}
		form.SetReading(kana)
		form.SetStatus("")
	}

	d := dialog.NewCustomConfirm(title, "Save", "Cancel", form.Content(), func(save bool) {
		if task != nil {
			task.Cancel()
			delete(a.pending, task.ID)
		}
		if !save {
			return
		}
		word := form.Word()
		if err := a.saveWord(word); err != nil {
			dialog.ShowError(err, a.window)
			a.showWordForm(word, title)
		}
	}, a.window)
	d.Resize(fyne.NewSize(560, 480))
	d.Show()
}

// onTaskComplete runs on the task goroutine.
func (a *Application) onTaskComplete(task *GenerationTask) {
	fyne.Do(func() {
		if fn, ok := a.pending[task.ID]; ok {
			delete(a.pending, task.ID)
			fn(task)
		}
	})
}

// saveWord validates and stores w, then brings the session up to date.
func (a *Application) saveWord(w *vocab.Word) error {
	if err := w.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()

	if w.ID == 0 {
		existing, err := a.config.Store.FindByKanji(ctx, w.KanjiWord)
		if err == nil {
			return fmt.Errorf("%s is already stored as %s", w.KanjiWord, existing.Summary())
		}
		if !errors.Is(err, vocab.ErrWordNotFound) {
			return err
		}
		if err := a.config.Store.AddWord(ctx, w); err != nil {
			return err
		}
		slog.Info("word added", "word_id", w.ID, "tag", w.Tag)
	} else {
		if err := a.config.Store.UpdateWord(ctx, w); err != nil {
			return err
		}
		slog.Info("word updated", "word_id", w.ID, "tag", w.Tag)
	}

	a.refreshTags()
	a.updateStatus("Saved " + w.Summary())

	switch {
	case a.state.Step == quiz.StepEmpty:
		a.advance()
	case a.state.Word != nil && a.state.Word.ID == w.ID:
		if err := a.session.Reload(ctx); err != nil && !errors.Is(err, quiz.ErrNoWordsAvailable) {
			return err
		}
	}
	return nil
}

// onCopy copies the current sentence. A configured Clipboard (WSL) goes
// through PowerShell; otherwise the window clipboard is used.
func (a *Application) onCopy() {
	if a.state.Word == nil {
		return
	}
	text := a.state.Word.JapaneseSentence

	if a.config.Clipboard == nil {
		a.window.Clipboard().SetContent(text)
		a.updateStatus("Copied sentence")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, 15*time.Second)
		defer cancel()
		err := a.config.Clipboard.Copy(ctx, text)
		fyne.Do(func() {
			if err != nil {
				a.showError(err)
				return
			}
			a.updateStatus("Copied sentence")
		})
	}()
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if a.window.Canvas().Focused() != nil {
			return
		}

		switch r {
		case 'a', 'A':
			a.onAddWord()
		case 'e', 'E':
			if !a.editButton.Disabled() {
				a.onEditWord()
			}
		case 'c', 'C':
			a.onCopy()
		case 'p', 'P':
			a.audioPlayer.Play()
		case 'i', 'I':
			if !a.answerEntry.Disabled() {
				a.window.Canvas().Focus(a.answerEntry)
			}
		case 'h', 'H', '?':
			a.onShowHotkeys()
		}
	})

	a.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if a.window.Canvas().Focused() != nil {
			return
		}
		if key.Name == fyne.KeyReturn || key.Name == fyne.KeyEnter {
			if a.state.Step == quiz.StepResult {
				a.advance()
			} else if !a.answerEntry.Disabled() {
				a.window.Canvas().Focus(a.answerEntry)
			}
		}
	})
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## Quiz
**i** Focus answer field
**Enter** Submit answer / next word
**Esc** Unfocus field

## Words
**a** Add word
**e** Edit current word

## Sentence
**p** Play sentence
**c** Copy sentence

## Help
**h** Show this help
`
	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(content)
	scroll.SetMinSize(fyne.NewSize(360, 320))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)
	d.Show()
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}
