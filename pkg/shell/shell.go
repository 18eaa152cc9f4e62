// Package shell is the interactive terminal front end: a login screen, a
// dashboard that scores articles, and per-user history and analytics views.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/veritas/news-classifier/pkg/history"
	"github.com/veritas/news-classifier/pkg/metrics"
	"github.com/veritas/news-classifier/pkg/scoring"
)

// Screen identifies a view of the shell
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenHistory
	ScreenAnalytics
	// ScreenQuit ends Run
	ScreenQuit
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenDashboard:
		return "dashboard"
	case ScreenHistory:
		return "history"
	case ScreenAnalytics:
		return "analytics"
	case ScreenQuit:
		return "quit"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Params carries state into a screen
type Params struct {
	Username string
}

// Classifier scores an article
type Classifier interface {
	Classify(title, author, text string) (scoring.Prediction, error)
}

// Dashboard menu entries
const (
	actionPredict   = "Predict news"
	actionHistory   = "View history"
	actionAnalytics = "User analytics"
	actionLogout    = "Logout"
	actionQuit      = "Quit"
	actionBack      = "Back to dashboard"
)

// Options configures a Shell
type Options struct {
	Prompter   Prompter
	Classifier Classifier
	History    history.Store
	Out        io.Writer
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Shell is a state machine over screens. One value lives for the whole
// session; Goto replaces the current screen and its parameters.
type Shell struct {
	prompter   Prompter
	classifier Classifier
	store      history.Store
	out        io.Writer
	metrics    *metrics.Metrics
	logger     *slog.Logger

	screen Screen
	params Params
}

// New creates a shell positioned on the login screen
func New(opts Options) *Shell {
	if opts.Prompter == nil {
		opts.Prompter = SurveyPrompter{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Shell{
		prompter:   opts.Prompter,
		classifier: opts.Classifier,
		store:      opts.History,
		out:        opts.Out,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		screen:     ScreenLogin,
	}
}

// Screen returns the current screen
func (s *Shell) Screen() Screen {
	return s.screen
}

// Username returns the logged-in user, or "" on the login screen
func (s *Shell) Username() string {
	return s.params.Username
}

// Goto switches to screen. Every screen other than Login and Quit needs a
// username.
func (s *Shell) Goto(screen Screen, params Params) error {
	switch screen {
	case ScreenLogin, ScreenQuit:
		params = Params{}
	case ScreenDashboard, ScreenHistory, ScreenAnalytics:
		if strings.TrimSpace(params.Username) == "" {
			return fmt.Errorf("screen %s requires a logged-in user", screen)
		}
	default:
		return fmt.Errorf("unknown screen %d", int(screen))
	}

	s.logger.Debug("screen change", "from", s.screen, "to", screen, "username", params.Username)
	s.screen = screen
	s.params = params
	return nil
}

// Run drives the shell until the user quits or ctx is cancelled
func (s *Shell) Run(ctx context.Context) error {
	for s.screen != ScreenQuit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch s.screen {
		case ScreenLogin:
			err = s.login()
		case ScreenDashboard:
			err = s.dashboard(ctx)
		case ScreenHistory:
			err = s.showHistory(ctx)
		case ScreenAnalytics:
			err = s.showAnalytics(ctx)
		}

		if errors.Is(err, ErrInterrupted) {
			fmt.Fprintln(s.out, "\n👋 Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out, "👋 Goodbye!")
	return nil
}

func (s *Shell) login() error {
	fmt.Fprintln(s.out, "\n🔐 Veritas Login")

	username, err := s.prompter.Input("Username:")
	if err != nil {
		return err
	}
	password, err := s.prompter.Password("Password:")
	if err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		fmt.Fprintln(s.out, "⚠️  Please enter both username and password")
		return nil
	}

	fmt.Fprintf(s.out, "✅ Welcome, %s!\n", username)
	return s.Goto(ScreenDashboard, Params{Username: username})
}

func (s *Shell) dashboard(ctx context.Context) error {
	fmt.Fprintf(s.out, "\n📰 Dashboard (%s)\n", s.params.Username)

	choice, err := s.prompter.Select("What would you like to do?", []string{
		actionPredict, actionHistory, actionAnalytics, actionLogout, actionQuit,
	})
	if err != nil {
		return err
	}

	switch choice {
	case actionPredict:
		return s.predict(ctx)
	case actionHistory:
		return s.Goto(ScreenHistory, s.params)
	case actionAnalytics:
		return s.Goto(ScreenAnalytics, s.params)
	case actionLogout:
		return s.Goto(ScreenLogin, Params{})
	case actionQuit:
		return s.Goto(ScreenQuit, Params{})
	default:
		return fmt.Errorf("unknown dashboard action %q", choice)
	}
}

func (s *Shell) predict(ctx context.Context) error {
	title, err := s.prompter.Input("Title:")
	if err != nil {
		return err
	}
	author, err := s.prompter.Input("Author:")
	if err != nil {
		return err
	}
	text, err := s.prompter.Multiline("Article text:")
	if err != nil {
		return err
	}

	title, author, text = strings.TrimSpace(title), strings.TrimSpace(author), strings.TrimSpace(text)
	if title == "" || author == "" || text == "" {
		fmt.Fprintln(s.out, "⚠️  Please fill in all fields!")
		return nil
	}

	p, err := s.classifier.Classify(title, author, text)
	if err != nil {
		return fmt.Errorf("failed to score article: %w", err)
	}
	fmt.Fprintf(s.out, "%s Prediction: %s (%.1f%% confidence)\n", resultIcon(p.Label), p.Label, p.Confidence*100)

	// The verdict stands even if it cannot be recorded
	rec := history.Record{
		Username: s.params.Username,
		Title:    title,
		Author:   author,
		Text:     text,
		Result:   p.Label,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.metrics.HistoryError("append")
		s.logger.Warn("failed to record prediction", "username", rec.Username, "error", err)
		fmt.Fprintf(s.out, "⚠️  Could not save to history: %v\n", err)
	}
	return nil
}

func (s *Shell) showHistory(ctx context.Context) error {
	fmt.Fprintf(s.out, "\n📜 History for %s\n", s.params.Username)

	entries, err := s.store.Query(ctx, s.params.Username)
	if err != nil {
		s.metrics.HistoryError("query")
		fmt.Fprintf(s.out, "⚠️  Could not load history: %v\n", err)
	} else {
		WriteHistory(s.out, entries)
	}

	return s.back()
}

func (s *Shell) showAnalytics(ctx context.Context) error {
	fmt.Fprintf(s.out, "\n📊 Analytics for %s\n", s.params.Username)

	sum, err := s.store.Aggregate(ctx, s.params.Username)
	if err != nil {
		s.metrics.HistoryError("aggregate")
		fmt.Fprintf(s.out, "⚠️  Could not load analytics: %v\n", err)
	} else {
		WriteSummary(s.out, sum)
	}

	return s.back()
}

func (s *Shell) back() error {
	choice, err := s.prompter.Select("", []string{actionBack, actionLogout})
	if err != nil {
		return err
	}
	if choice == actionLogout {
		return s.Goto(ScreenLogin, Params{})
	}
	return s.Goto(ScreenDashboard, s.params)
}

func resultIcon(label string) string {
	if label == "FAKE" {
		return "🚫"
	}
	return "✅"
}
