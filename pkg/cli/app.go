package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"voicelines/pkg/browse"
	"voicelines/pkg/domain"
	"voicelines/pkg/playback"
	"voicelines/pkg/quiz"
)

const quizOwner = "quiz"

// Config wires the terminal app.
type Config struct {
	Dataset  *domain.Dataset
	Backend  playback.Backend
	Selector *quiz.Selector // nil when the dataset has no eligible question
	QuizErr  error          // reason the quiz is unavailable
	BaseHost string
	In       io.Reader
	Out      io.Writer
	Log      *zap.Logger
}

// App is the interactive browser and quiz. All state is owned by the Run loop.
type App struct {
	cfg Config
	ds  *domain.Dataset
	out io.Writer
	log *zap.Logger

	ended   chan playback.Ended
	modes   *playback.ModeController
	session *quiz.Session
	names   *browse.Autocomplete

	hero    *domain.Character
	visible []domain.Line
}

// New creates an app. Playback controllers are bound to ctx.
func New(ctx context.Context, cfg Config) *App {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		cfg:   cfg,
		ds:    cfg.Dataset,
		out:   cfg.Out,
		log:   log.Named("cli"),
		ended: make(chan playback.Ended, 8),
	}

	browseCtl := playback.NewController(ctx, string(playback.ModeBrowse), cfg.Backend, a.ended, log)
	quizCtl := playback.NewController(ctx, string(playback.ModeQuiz), cfg.Backend, a.ended, log)
	for _, c := range []*playback.Controller{browseCtl, quizCtl} {
		c.OnReset = func(owner string) { a.printf("■ %s\n", owner) }
		c.OnEnded = func(owner string) { a.printf("✓ %s finished\n", owner) }
	}
	a.modes = playback.NewModeController(browseCtl, quizCtl)

	if cfg.Selector != nil {
		a.session = quiz.NewSession(cfg.Selector)
	}

	names := make([]string, 0, a.ds.Len())
	for _, c := range a.ds.Characters() {
		names = append(names, c.Hero)
	}
	a.names = browse.NewAutocomplete(names)
	return a
}

// Run processes commands from the input until EOF, "quit" or ctx is done.
func (a *App) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.cfg.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	defer a.modes.StopAll()

	a.printf("%d characters loaded. Type 'help' for commands.\n", a.ds.Len())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.ended:
			if ev.Err != nil {
				a.log.Debug("clip exited with error", zap.String("slot", ev.Slot), zap.Error(ev.Err))
			}
			a.modes.Route(ev)
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if quit := a.handle(line); quit {
				return nil
			}
		}
	}
}

func (a *App) handle(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "heroes":
		a.listHeroes(arg)
	case "hero":
		a.selectHero(arg)
	case "lines":
		a.listLines(arg)
	case "play":
		a.play(arg)
	case "stop":
		a.modes.Current().Stop()
	case "quiz":
		a.startQuiz()
	case "skip":
		a.nextQuestion(true)
	case "next":
		a.nextQuestion(false)
	case "guess":
		a.guess(arg)
	case "audio":
		a.quizAudio()
	case "explore":
		a.explore()
	case "help":
		a.help()
	case "quit", "exit":
		return true
	default:
		a.printf("unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (a *App) listHeroes(query string) {
	a.toBrowse()
	chars := browse.FilterCharacters(a.ds, query)
	if len(chars) == 0 {
		a.printf("no characters match %q\n", query)
		return
	}
	for _, c := range chars {
		a.printf("  %s (%d)\n", c.Hero, len(c.Lines))
	}
}

func (a *App) selectHero(query string) {
	a.toBrowse()
	name, ok := a.names.Resolve(query)
	if !ok {
		a.printf("no character matches %q\n", query)
		return
	}
	char, _ := a.ds.Lookup(name)
	a.hero = &char
	a.showLines(browse.FilterLines(char, ""))
}

func (a *App) listLines(query string) {
	a.toBrowse()
	if a.hero == nil {
		a.printf("select a character first: hero <name>\n")
		return
	}
	a.showLines(browse.FilterLines(*a.hero, query))
}

func (a *App) showLines(lines []domain.Line) {
	a.visible = lines
	a.printf("%s: %d lines\n", a.hero.Hero, len(lines))
	for i, l := range lines {
		a.printf("  %3d. %s\n", i+1, l.Text)
	}
}

func (a *App) play(arg string) {
	a.toBrowse()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.visible) {
		a.printf("play <n> with n between 1 and %d\n", len(a.visible))
		return
	}
	line := a.visible[n-1]
	owner := fmt.Sprintf("%s #%d", a.hero.Hero, n)
	url := domain.ResolveAudio(a.cfg.BaseHost, line.Audio)
	if err := a.modes.Current().Play(url, owner); err != nil {
		a.printf("could not play %s\n", owner)
		return
	}
	a.printf("▶ %s\n", owner)
}

func (a *App) startQuiz() {
	if a.session == nil {
		a.printf("quiz unavailable: %v\n", a.cfg.QuizErr)
		return
	}
	a.modes.Switch(playback.ModeQuiz)
	a.resetQuizAudio()
	q, err := a.session.Start()
	if err != nil {
		a.printf("quiz unavailable: %v\n", err)
		return
	}
	a.log.Info("quiz started", zap.Stringer("session", a.session.ID))
	a.showQuestion(q)
}

func (a *App) nextQuestion(skip bool) {
	if !a.inQuiz() {
		return
	}
	if !skip && !a.session.Locked() {
		a.printf("answer first, or use 'skip'\n")
		return
	}

	a.resetQuizAudio()
	next := a.session.Next
	if skip {
		next = a.session.Skip
	}
	q, err := next()
	if err != nil {
		a.printf("quiz unavailable: %v\n", err)
		return
	}
	a.showQuestion(q)
}

func (a *App) guess(query string) {
	if !a.inQuiz() {
		return
	}
	name, ok := a.names.Resolve(query)
	if !ok {
		name = query
	}
	res, err := a.session.Evaluate(name)
	switch {
	case errors.Is(err, quiz.ErrAnswerLocked):
		a.printf("already answered, type 'next'\n")
		return
	case err != nil:
		a.printf("%v\n", err)
		return
	}

	a.log.Debug("answer evaluated",
		zap.Stringer("session", a.session.ID),
		zap.Bool("correct", res.Correct),
		zap.Int("score", res.Score))

	if res.Correct {
		a.printf("Correct! It was %s. Score: %d\n", res.Expected, res.Score)
	} else {
		a.printf("Wrong! The answer was %s. Score reset.\n", res.Expected)
	}
	a.printf("'audio' to hear the line, 'next' for another question\n")
}

func (a *App) quizAudio() {
	if !a.inQuiz() {
		return
	}
	q, ok := a.session.Question()
	if !ok || !a.session.Locked() {
		a.printf("audio is revealed after answering\n")
		return
	}

	ctl := a.modes.For(playback.ModeQuiz)
	err := ctl.Toggle()
	if errors.Is(err, playback.ErrNothingToToggle) {
		err = ctl.Play(q.AudioURL, quizOwner)
	}
	if err != nil {
		a.printf("could not play the quiz clip\n")
	}
}

func (a *App) explore() {
	if a.session != nil {
		a.session.End()
	}
	a.resetQuizAudio()
	a.toBrowse()
	a.printf("browse mode\n")
}

func (a *App) showQuestion(q quiz.Question) {
	a.printf("Score: %d\n\n  \"%s\"\n\nWho said it? guess <name>\n", a.session.Score(), q.Display)
}

func (a *App) inQuiz() bool {
	if a.modes.Active() != playback.ModeQuiz || a.session == nil {
		a.printf("start the quiz first: quiz\n")
		return false
	}
	return true
}

func (a *App) resetQuizAudio() {
	ctl := a.modes.For(playback.ModeQuiz)
	ctl.Stop()
	ctl.Forget()
}

func (a *App) toBrowse() {
	if a.modes.Active() == playback.ModeQuiz && a.session != nil {
		a.session.End()
		a.resetQuizAudio()
	}
	a.modes.Switch(playback.ModeBrowse)
}

func (a *App) help() {
	a.printf(`Commands:
  heroes [query]   list characters
  hero <name>      show a character's lines
  lines [query]    filter the current character's lines
  play <n>         play line n
  stop             stop playback
  quiz             start the quiz
  guess <name>     answer the current question
  audio            play or stop the quiz clip after answering
  next             next question after answering
  skip             new question without changing the score
  explore          back to browsing
  quit
`)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
