package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

var (
	errUnknownCommand = errors.New("command not found")
	errSearchRunning  = errors.New("search still run")
)

type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	logger       zerolog.Logger
	out          io.Writer
	positions    []common.Position
	debug        bool
	thinking     bool
	infinite     bool
	engineOutput chan common.SearchInfo
	cancel       context.CancelFunc
}

func New(name, author, version string, engine Engine, options []Option, logger zerolog.Logger) *Protocol {
	var initPosition, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		options:   options,
		logger:    logger,
		positions: []common.Position{initPosition},
	}
}

// Run serves UCI commands from in until quit or end of input. All output
// goes to out from this goroutine. A search still running at end of input
// is allowed to finish and report its best move, an infinite one is stopped.
func (uci *Protocol) Run(in io.Reader, out io.Writer) error {
	uci.out = out
	var commands = make(chan string)
	var readErr = make(chan error, 1)

	go func() {
		defer close(commands)
		readErr <- readCommands(in, commands)
	}()

	var searchResult common.SearchInfo
	for {
		select {
		case si, ok := <-uci.engineOutput:
			if ok {
				fmt.Fprintln(out, searchInfoToUci(si))
				searchResult = si
			} else {
				fmt.Fprintln(out, bestMoveToUci(searchResult))
				uci.thinking = false
				uci.cancel = nil
				uci.engineOutput = nil
				searchResult = common.SearchInfo{}
				if commands == nil {
					return <-readErr
				}
			}
		case commandLine, ok := <-commands:
			if !ok {
				commands = nil
				if !uci.thinking {
					return <-readErr
				}
				if uci.infinite {
					uci.cancel()
				}
				continue
			}
			var err = uci.handle(commandLine)
			if err != nil {
				uci.logger.Error().Err(err).Str("command", commandLine).Msg("uci command failed")
				if uci.debug {
					fmt.Fprintf(out, "info string %v\n", err)
				}
			}
		}
	}
}

func readCommands(in io.Reader, commands chan<- string) error {
	var scanner = bufio.NewScanner(in)
	for scanner.Scan() {
		var commandLine = strings.TrimSpace(scanner.Text())
		if commandLine == "" {
			continue
		}
		commands <- commandLine
		if commandLine == "quit" {
			return nil
		}
	}
	return scanner.Err()
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		switch commandName {
		case "stop", "quit":
			uci.cancel()
			return nil
		case "isready":
			return uci.isReadyCommand(fields)
		case "debug":
			return uci.debugCommand(fields)
		}
		return errSearchRunning
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "debug":
		h = uci.debugCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "ponderhit":
		h = uci.ponderhitCommand
	case "stop", "quit":
		return nil
	}

	if h == nil {
		return errUnknownCommand
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Fprintf(uci.out, "id name %s %s\n", uci.name, uci.version)
	fmt.Fprintf(uci.out, "id author %s\n", uci.author)
	for _, option := range uci.options {
		fmt.Fprintln(uci.out, option.UciString())
	}
	fmt.Fprintln(uci.out, "uciok")
	return nil
}

func (uci *Protocol) debugCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("debug: on or off expected")
	}
	switch fields[0] {
	case "on":
		uci.debug = true
	case "off":
		uci.debug = false
	default:
		return fmt.Errorf("debug: bad argument %v", fields[0])
	}
	return nil
}

// setoption name <id> [value <x>], where both id and x may contain spaces.
func (uci *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 2 || fields[0] != "name" {
		return errors.New("invalid setoption arguments")
	}
	var valueIndex = findIndexString(fields, "value")
	var name, value string
	if valueIndex == -1 {
		name = strings.Join(fields[1:], " ")
	} else {
		name = strings.Join(fields[1:valueIndex], " ")
		value = strings.Join(fields[valueIndex+1:], " ")
	}
	for _, option := range uci.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return fmt.Errorf("unhandled option %q", name)
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	if !uci.thinking {
		uci.engine.Prepare()
	}
	fmt.Fprintln(uci.out, "readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("position: arguments expected")
	}
	var args = fields
	var token = args[0]
	var fen string
	var movesIndex = findIndexString(args, "moves")
	if token == "startpos" {
		fen = common.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var moves []string
	if movesIndex >= 0 {
		moves = args[movesIndex+1:]
	}
	var positions, err = common.SetPosition(fen, moves)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(fields []string) error {
	var limits, searchMoves, err = parseLimits(fields)
	if err != nil {
		return fmt.Errorf("go: %w", err)
	}
	var p = &uci.positions[len(uci.positions)-1]
	var moves []common.Move
	for _, lan := range searchMoves {
		var move = p.ParseMoveLAN(lan)
		if move == common.MoveEmpty {
			return fmt.Errorf("searchmoves %v: %w", lan, common.ErrIllegalMove)
		}
		moves = append(moves, move)
	}
	if limits.Ponder {
		// without ponderhit the ponder search only ends with stop
		limits.Infinite = true
	}

	var ctx, cancel = context.WithCancel(context.Background())
	uci.cancel = cancel
	uci.thinking = true
	uci.infinite = limits.Infinite
	var output = make(chan common.SearchInfo, 3)
	uci.engineOutput = output
	var positions = uci.positions
	go func() {
		defer cancel()
		var searchResult = uci.engine.Search(ctx, common.SearchParams{
			Positions:   positions,
			Limits:      limits,
			SearchMoves: moves,
			Progress: func(si common.SearchInfo) {
				select {
				case output <- si:
				default:
				}
			},
		})
		if limits.Infinite {
			// bestmove is not sent before stop
			<-ctx.Done()
		}
		output <- searchResult
		close(output)
	}()
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

func (uci *Protocol) ponderhitCommand(fields []string) error {
	return errors.New("ponderhit not supported")
}

func searchInfoToUci(si common.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v seldepth %v", si.Depth, si.SelDepth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v hashfull %v", si.Nodes, timeMs, nps, si.HashFull)
	if len(si.MainLine) != 0 {
		sb.WriteString(" pv ")
		sb.WriteString(strings.Join(lo.Map(si.MainLine, func(m common.Move, _ int) string {
			return m.String()
		}), " "))
	}
	return sb.String()
}

func bestMoveToUci(si common.SearchInfo) string {
	switch len(si.MainLine) {
	case 0:
		return "bestmove 0000"
	case 1:
		return fmt.Sprintf("bestmove %v", si.MainLine[0])
	default:
		return fmt.Sprintf("bestmove %v ponder %v", si.MainLine[0], si.MainLine[1])
	}
}

func parseLimits(args []string) (result common.LimitsType, searchMoves []string, err error) {
	var intFields = map[string]*int{
		"wtime":     &result.WhiteTime,
		"btime":     &result.BlackTime,
		"winc":      &result.WhiteIncrement,
		"binc":      &result.BlackIncrement,
		"movestogo": &result.MovesToGo,
		"depth":     &result.Depth,
		"nodes":     &result.Nodes,
		"mate":      &result.Mate,
		"movetime":  &result.MoveTime,
	}
	for i := 0; i < len(args); i++ {
		if field, ok := intFields[args[i]]; ok {
			if *field, err = intArg(args, i); err != nil {
				return common.LimitsType{}, nil, err
			}
			i++
			continue
		}
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "infinite":
			result.Infinite = true
		case "searchmoves":
			for i+1 < len(args) && !goKeywords[args[i+1]] {
				searchMoves = append(searchMoves, args[i+1])
				i++
			}
		}
	}
	return
}

var goKeywords = map[string]bool{
	"ponder": true, "wtime": true, "btime": true, "winc": true, "binc": true,
	"movestogo": true, "depth": true, "nodes": true, "mate": true,
	"movetime": true, "infinite": true, "searchmoves": true,
}

var errMissingValue = errors.New("missing value")

func intArg(args []string, i int) (int, error) {
	if i+1 >= len(args) {
		return 0, fmt.Errorf("%v: %w", args[i], errMissingValue)
	}
	var v, err = strconv.Atoi(args[i+1])
	if err != nil {
		return 0, fmt.Errorf("%v: %w", args[i], err)
	}
	return v, nil
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
