package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/orwellian225/ai-assignment/agent"
	"github.com/orwellian225/ai-assignment/policy"
	"github.com/orwellian225/ai-assignment/reconmg"
)

// Line protocol spoken with the referee bridge. One command per line, one reply per
// command:
//
//	start <white|black> [opponent]          -> ok
//	opponent <square|->                     -> ok
//	sense <remaining-ms> [square ...]       -> sense <square>
//	senseresult [square=<piece|-> ...]      -> ok
//	move <remaining-ms> [uci ...]           -> move <uci|pass>
//	result <requested|-> <taken|-> <square|-> -> ok
//	end <white|black|-> [reason ...]        -> ok
//	isready                                 -> readyok
//	quit
//
// Malformed commands are answered with "error <message>".
type session struct {
	newPlayer func() (agent.Player, error)
	player    agent.Player
	out       io.Writer
}

func (s *session) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		cmd, args := strings.ToLower(tokens[0]), tokens[1:]
		if cmd == "quit" {
			return nil
		}
		reply, err := s.handle(cmd, args)
		if err != nil {
			fmt.Fprintln(s.out, "error", err)
			continue
		}
		fmt.Fprintln(s.out, reply)
	}
	return scanner.Err()
}

func (s *session) handle(cmd string, args []string) (string, error) {
	if cmd == "isready" {
		return "readyok", nil
	}
	if cmd == "start" {
		return s.start(args)
	}
	if s.player == nil {
		return "", fmt.Errorf("%s before start", cmd)
	}

	switch cmd {
	case "opponent":
		if len(args) != 1 {
			return "", fmt.Errorf("opponent: expected 1 argument")
		}
		sq, captured, err := optionalSquare(args[0])
		if err != nil {
			return "", err
		}
		s.player.HandleOpponentMoveResult(captured, sq)
		return "ok", nil

	case "sense":
		remaining, rest, err := clock(args)
		if err != nil {
			return "", err
		}
		candidates := policy.AllSquares()
		if len(rest) > 0 {
			if candidates, err = squares(rest); err != nil {
				return "", err
			}
		}
		return "sense " + s.player.ChooseSense(candidates, nil, remaining).String(), nil

	case "senseresult":
		results := make([]agent.SenseResult, 0, len(args))
		for _, a := range args {
			r, err := senseResult(a)
			if err != nil {
				return "", err
			}
			results = append(results, r)
		}
		s.player.HandleSenseResult(results)
		return "ok", nil

	case "move":
		remaining, rest, err := clock(args)
		if err != nil {
			return "", err
		}
		legal := make([]reconmg.Move, 0, len(rest))
		for _, a := range rest {
			m, err := reconmg.ParseMove(a)
			if err != nil {
				return "", err
			}
			legal = append(legal, m)
		}
		m := s.player.ChooseMove(legal, remaining)
		if m == nil {
			return "move pass", nil
		}
		return "move " + m.String(), nil

	case "result":
		if len(args) != 3 {
			return "", fmt.Errorf("result: expected 3 arguments")
		}
		requested, err := optionalMove(args[0])
		if err != nil {
			return "", err
		}
		taken, err := optionalMove(args[1])
		if err != nil {
			return "", err
		}
		sq, captured, err := optionalSquare(args[2])
		if err != nil {
			return "", err
		}
		s.player.HandleMoveResult(requested, taken, captured, sq)
		return "ok", nil

	case "end":
		var winner *reconmg.Color
		if len(args) > 0 && args[0] != "-" {
			c, err := color(args[0])
			if err != nil {
				return "", err
			}
			winner = &c
			args = args[1:]
		} else if len(args) > 0 {
			args = args[1:]
		}
		s.player.HandleGameEnd(winner, strings.Join(args, " "))
		s.player = nil
		return "ok", nil
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}

func (s *session) start(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("start: missing side")
	}
	side, err := color(args[0])
	if err != nil {
		return "", err
	}
	p, err := s.newPlayer()
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	s.player = p
	p.HandleGameStart(side, strings.Join(args[1:], " "))
	return "ok", nil
}

func color(s string) (reconmg.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return reconmg.White, nil
	case "black", "b":
		return reconmg.Black, nil
	}
	return reconmg.White, fmt.Errorf("invalid color %q", s)
}

func clock(args []string) (time.Duration, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing remaining time")
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid remaining time %q", args[0])
	}
	return time.Duration(ms) * time.Millisecond, args[1:], nil
}

func squares(args []string) ([]reconmg.Square, error) {
	out := make([]reconmg.Square, len(args))
	for i, a := range args {
		sq, err := reconmg.ParseSquare(a)
		if err != nil {
			return nil, err
		}
		out[i] = sq
	}
	return out, nil
}

func optionalSquare(a string) (reconmg.Square, bool, error) {
	if a == "-" {
		return reconmg.NoSquare, false, nil
	}
	sq, err := reconmg.ParseSquare(a)
	if err != nil {
		return reconmg.NoSquare, false, err
	}
	return sq, true, nil
}

func optionalMove(a string) (*reconmg.Move, error) {
	if a == "-" {
		return nil, nil
	}
	m, err := reconmg.ParseMove(a)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// senseResult parses "e4=P" or "e4=-".
func senseResult(a string) (agent.SenseResult, error) {
	name, piece, ok := strings.Cut(a, "=")
	if !ok || len(piece) != 1 {
		return agent.SenseResult{}, fmt.Errorf("invalid sense result %q", a)
	}
	sq, err := reconmg.ParseSquare(name)
	if err != nil {
		return agent.SenseResult{}, err
	}
	r := agent.SenseResult{Square: sq}
	if piece != "-" {
		p, err := reconmg.ParsePiece(piece[0])
		if err != nil {
			return agent.SenseResult{}, fmt.Errorf("invalid sense result %q: %w", a, err)
		}
		r.Piece = p
	}
	return r, nil
}
