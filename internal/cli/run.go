package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/internal/presentation/tui"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/session"
)

// ErrQuit is returned by the prompt when the user asks to leave.
var ErrQuit = errors.New("quit")

// driver applies navigator actions to one session.
type driver interface {
	Session() *domain.Session
	Start(ctx context.Context) (domain.Step, error)
	Answer(ctx context.Context, questionID string, optionIndex int) (domain.Step, error)
	Restart(ctx context.Context) (domain.Step, error)
	Timeline(ctx context.Context) ([]domain.Step, error)
}

// storedDriver persists every transition through the session manager.
type storedDriver struct {
	nav      *navi.Navigator
	sessions *session.Manager
	current  *domain.Session
}

func (d *storedDriver) Session() *domain.Session { return d.current.Snapshot() }

func (d *storedDriver) apply(ctx context.Context, fn func(*domain.Session) (*domain.Session, domain.Step, error)) (domain.Step, error) {
	var step domain.Step
	s, err := d.sessions.Update(ctx, d.current.ID, func(cur *domain.Session) (*domain.Session, error) {
		next, st, err := fn(cur)
		step = st
		return next, err
	})
	if s != nil {
		d.current = s
	}
	return step, err
}

func (d *storedDriver) Start(ctx context.Context) (domain.Step, error) {
	return d.apply(ctx, func(s *domain.Session) (*domain.Session, domain.Step, error) {
		return d.nav.Start(ctx, s)
	})
}

func (d *storedDriver) Answer(ctx context.Context, questionID string, optionIndex int) (domain.Step, error) {
	return d.apply(ctx, func(s *domain.Session) (*domain.Session, domain.Step, error) {
		return d.nav.Answer(ctx, s, questionID, optionIndex)
	})
}

func (d *storedDriver) Restart(ctx context.Context) (domain.Step, error) {
	return d.apply(ctx, func(s *domain.Session) (*domain.Session, domain.Step, error) {
		return d.nav.Restart(ctx, s)
	})
}

func (d *storedDriver) Timeline(ctx context.Context) ([]domain.Step, error) {
	return d.nav.Timeline(ctx, d.current)
}

// RunOptions configures an interactive navigator run.
type RunOptions struct {
	// SessionID persists progress when set. Otherwise the run is ephemeral.
	SessionID string
	// Fresh discards any stored progress for SessionID first.
	Fresh   bool
	Printer *tui.StepPrinter
}

// Run drives the navigator over a line-oriented terminal.
// Commands: an option number answers, "r" restarts, "q" quits.
func Run(ctx context.Context, nav *navi.Navigator, sessions *session.Manager, in io.Reader, opts RunOptions) error {
	d, resumed, err := newDriver(ctx, nav, sessions, opts)
	if err != nil {
		return err
	}
	p := opts.Printer
	prompt := newPrompter(in, p.W)
	defer prompt.close()

	if resumed {
		PrintSystemMessage(p.W, "Resuming session '%s'.", opts.SessionID)
		steps, err := d.Timeline(ctx)
		if err != nil {
			return err
		}
		for _, st := range steps {
			if err := p.Print(st); err != nil {
				return err
			}
		}
	} else if err := start(ctx, d, p, prompt); err != nil {
		return quitOK(err)
	}

	for {
		s := d.Session()
		var line string
		if s.Terminated() {
			line, err = prompt.ask(ctx, "[r] もう一度診断する  [q] 終了")
		} else {
			q, qerr := currentQuestion(ctx, nav, s)
			if qerr != nil {
				return qerr
			}
			line, err = prompt.ask(ctx, fmt.Sprintf("番号を選んでください (1-%d, r, q)", len(q.Options)))
		}
		if err != nil {
			return quitOK(err)
		}

		switch line {
		case "q", "quit", "exit":
			return nil
		case "r", "restart":
			step, err := d.Restart(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(p.W)
			if err := p.Print(step); err != nil {
				return err
			}
			continue
		}

		if s.Terminated() {
			continue
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintf(p.W, "%q は選択肢ではありません。\n", line)
			continue
		}
		step, err := d.Answer(ctx, s.CurrentID, n-1)
		if errors.Is(err, domain.ErrInvalidOption) {
			fmt.Fprintf(p.W, "%d は選択肢ではありません。\n", n)
			continue
		}
		if err != nil {
			return err
		}
		if err := p.Print(step); err != nil {
			return err
		}
	}
}

func newDriver(ctx context.Context, nav *navi.Navigator, sessions *session.Manager, opts RunOptions) (driver, bool, error) {
	if opts.SessionID == "" {
		return nav.NewController("cli"), false, nil
	}
	if opts.Fresh {
		if err := sessions.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, err
		}
	}
	s, err := sessions.LoadOrCreate(ctx, opts.SessionID)
	if err != nil {
		return nil, false, err
	}
	resumed := s.Phase == domain.PhaseAtQuestion || s.Phase == domain.PhaseAtResult
	return &storedDriver{nav: nav, sessions: sessions, current: s}, resumed, nil
}

// start loads the graph and shows the first question, offering retries on failure.
func start(ctx context.Context, d driver, p *tui.StepPrinter, prompt *prompter) error {
	for {
		step, err := d.Start(ctx)
		if err == nil {
			return p.Print(step)
		}
		if !errors.Is(err, domain.ErrGraphUnavailable) || ctx.Err() != nil {
			return err
		}
		p.PrintLoadFailure(d.Session())
		line, err := prompt.ask(ctx, "[Enter] 再試行  [q] 終了")
		if err != nil {
			return err
		}
		if line == "q" {
			return ErrQuit
		}
	}
}

func currentQuestion(ctx context.Context, nav *navi.Navigator, s *domain.Session) (domain.Question, error) {
	g, err := nav.Graph(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	return g.Question(s.CurrentID)
}

func quitOK(err error) error {
	if errors.Is(err, ErrQuit) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// prompter reads lines on a background goroutine so that a cancelled context
// interrupts a pending read.
type prompter struct {
	w     io.Writer
	lines chan lineResult
	done  chan struct{}
}

type lineResult struct {
	text string
	err  error
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	p := &prompter{w: w, lines: make(chan lineResult), done: make(chan struct{})}
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if !p.send(lineResult{text: scanner.Text()}) {
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		p.send(lineResult{err: err})
	}()
	return p
}

func (p *prompter) send(res lineResult) bool {
	select {
	case p.lines <- res:
		return true
	case <-p.done:
		return false
	}
}

func (p *prompter) close() {
	close(p.done)
}

func (p *prompter) ask(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.w, "%s > ", label)
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.w)
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			fmt.Fprintln(p.w)
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

// PrintSystemMessageTo prints a standardized system message to w.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
