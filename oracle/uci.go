package oracle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/reconmg"
)

// UCIConfig configures an external UCI engine such as Stockfish. StartTimeout bounds
// the uci/isready handshake; StopGrace is how long to wait for bestmove after stop.
type UCIConfig struct {
	Path         string
	HashMB       int
	Threads      int
	StartTimeout time.Duration
	StopGrace    time.Duration
	Logger       zerolog.Logger
}

// UCI asks an external engine process for the best move.
type UCI struct {
	cfg UCIConfig
	log zerolog.Logger

	mu   sync.Mutex
	proc *engineProc
}

// engineProc is one running engine process. Stdout is read line by line on its own
// goroutine until the process exits or done is closed.
type engineProc struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string
	done  chan struct{}
	once  sync.Once
}

// NewUCI launches the engine at cfg.Path.
func NewUCI(cfg UCIConfig) (*UCI, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("engine path required")
	}
	if cfg.HashMB == 0 {
		cfg.HashMB = 64
	}
	if cfg.Threads == 0 {
		cfg.Threads = 1
	}
	if cfg.StartTimeout == 0 {
		cfg.StartTimeout = 5 * time.Second
	}
	if cfg.StopGrace == 0 {
		cfg.StopGrace = 100 * time.Millisecond
	}
	o := &UCI{cfg: cfg, log: cfg.Logger.With().Str("oracle", "uci").Logger()}
	if err := o.launch(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *UCI) launch() error {
	cmd := exec.Command(o.cfg.Path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start engine %s: %w", o.cfg.Path, err)
	}
	p := &engineProc{
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}
	go p.read(stdout)

	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.StartTimeout)
	defer cancel()
	if err := p.handshake(ctx, o.cfg); err != nil {
		p.kill()
		return fmt.Errorf("engine %s: %w", o.cfg.Path, err)
	}

	o.mu.Lock()
	o.proc = p
	o.mu.Unlock()
	o.log.Debug().Str("path", o.cfg.Path).Msg("engine started")
	return nil
}

func (p *engineProc) read(r io.Reader) {
	defer close(p.lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case p.lines <- scanner.Text():
		case <-p.done:
			return
		}
	}
}

func (p *engineProc) send(format string, args ...any) error {
	_, err := fmt.Fprintf(p.stdin, format+"\n", args...)
	return err
}

// await reads lines until one starts with prefix.
func (p *engineProc) await(ctx context.Context, prefix string) (string, error) {
	for {
		select {
		case line, ok := <-p.lines:
			if !ok {
				return "", ErrTerminated
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// drain discards output left over from an earlier query.
func (p *engineProc) drain() {
	for {
		select {
		case _, ok := <-p.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (p *engineProc) handshake(ctx context.Context, cfg UCIConfig) error {
	if err := p.send("uci"); err != nil {
		return err
	}
	if _, err := p.await(ctx, "uciok"); err != nil {
		return fmt.Errorf("uci handshake: %w", err)
	}
	for _, opt := range []string{
		fmt.Sprintf("setoption name Hash value %d", cfg.HashMB),
		fmt.Sprintf("setoption name Threads value %d", cfg.Threads),
		"setoption name MultiPV value 1",
		"setoption name Ponder value false",
	} {
		if err := p.send(opt); err != nil {
			return err
		}
	}
	if err := p.send("isready"); err != nil {
		return err
	}
	if _, err := p.await(ctx, "readyok"); err != nil {
		return fmt.Errorf("isready: %w", err)
	}
	return nil
}

func (p *engineProc) kill() {
	p.once.Do(func() {
		close(p.done)
		_ = p.send("quit")
		_ = p.stdin.Close()
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		go func() { _ = p.cmd.Wait() }()
	})
}

// movetime leaves a margin under limit for the engine's own reply latency.
func movetime(limit time.Duration) time.Duration {
	margin := limit / 10
	if margin > 20*time.Millisecond {
		margin = 20 * time.Millisecond
	}
	if t := limit - margin; t >= time.Millisecond {
		return t
	}
	return time.Millisecond
}

// Evaluate asks the engine to search board for slightly less than limit. If ctx ends
// first the engine is told to stop and given StopGrace to answer; only an engine that
// stays silent is shut down, with ErrTerminated.
func (o *UCI) Evaluate(ctx context.Context, board reconmg.Board, limit time.Duration) (reconmg.Move, error) {
	o.mu.Lock()
	p := o.proc
	o.mu.Unlock()
	if p == nil {
		return 0, ErrTerminated
	}

	fen := board.ToFEN()
	p.drain()
	if err := p.send("position fen %s", fen); err != nil {
		o.shutdown()
		return 0, fmt.Errorf("%w: %v", ErrTerminated, err)
	}
	if err := p.send("go movetime %d", movetime(limit).Milliseconds()); err != nil {
		o.shutdown()
		return 0, fmt.Errorf("%w: %v", ErrTerminated, err)
	}

	line, err := p.await(ctx, "bestmove")
	if err != nil && ctx.Err() != nil {
		_ = p.send("stop")
		grace, cancel := context.WithTimeout(context.Background(), o.cfg.StopGrace)
		line, err = p.await(grace, "bestmove")
		cancel()
		if err == nil {
			o.log.Debug().Str("fen", fen).Msg("answer after stop")
		}
	}
	if err != nil {
		o.shutdown()
		if errors.Is(err, ErrTerminated) {
			return 0, fmt.Errorf("%w: engine exited on %s", ErrTerminated, fen)
		}
		return 0, fmt.Errorf("%w: no answer after stop: %v", ErrTerminated, err)
	}

	fields := strings.Fields(line)
	if len(fields) < 2 || fields[1] == "(none)" || fields[1] == "0000" {
		return 0, fmt.Errorf("%w: no move for %s", ErrBadState, fen)
	}
	m, err := reconmg.ParseMove(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadState, err)
	}
	return m, nil
}

func (o *UCI) shutdown() {
	o.mu.Lock()
	p := o.proc
	o.proc = nil
	o.mu.Unlock()
	if p != nil {
		p.kill()
	}
}

// Restart stops the current process, if any, and launches a fresh one.
func (o *UCI) Restart() error {
	o.shutdown()
	o.log.Info().Msg("restarting engine")
	return o.launch()
}

// Close stops the engine process.
func (o *UCI) Close() error {
	o.shutdown()
	return nil
}
