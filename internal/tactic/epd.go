package tactic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

// EpdItem is one test position with the moves considered correct.
type EpdItem struct {
	Content   string
	ID        string
	Position  common.Position
	BestMoves []common.Move
}

// LoadEpd reads an EPD file, transparently decompressing *.zst.
// Lines that fail to parse are logged and skipped.
func LoadEpd(filePath string, logger zerolog.Logger) ([]EpdItem, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(filePath, ".zst") {
		var decoder, err = zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("zstd %v: %w", filePath, err)
		}
		defer decoder.Close()
		r = decoder
	}
	return ReadEpd(r, logger)
}

func ReadEpd(r io.Reader, logger zerolog.Logger) ([]EpdItem, error) {
	var result []EpdItem
	var scanner = bufio.NewScanner(r)
	var lineNumber = 0
	for scanner.Scan() {
		lineNumber++
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var test, err = parseEpdTest(line)
		if err != nil {
			logger.Warn().Err(err).Int("line", lineNumber).Msg("skip epd")
			continue
		}
		result = append(result, test)
	}
	return result, scanner.Err()
}

func parseEpdTest(s string) (EpdItem, error) {
	var bmBegin = strings.Index(s, " bm ")
	if bmBegin == -1 {
		return EpdItem{}, fmt.Errorf("no best move in %v", s)
	}
	var bmEnd = strings.Index(s[bmBegin:], ";")
	if bmEnd == -1 {
		return EpdItem{}, fmt.Errorf("unterminated best move in %v", s)
	}
	var fen = strings.TrimSpace(s[:bmBegin])
	var sBestMoves = strings.Fields(s[bmBegin : bmBegin+bmEnd])[1:]

	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return EpdItem{}, err
	}

	var bestMoves []common.Move
	for _, sBestMove := range sBestMoves {
		var move = common.ParseMoveSAN(&p, sBestMove)
		if move == common.MoveEmpty {
			return EpdItem{}, fmt.Errorf("parse move %v failed: %w", sBestMove, common.ErrIllegalMove)
		}
		bestMoves = append(bestMoves, move)
	}
	if len(bestMoves) == 0 {
		return EpdItem{}, fmt.Errorf("empty best moves %v", s)
	}

	return EpdItem{
		Content:   s,
		ID:        parseID(s[bmBegin+bmEnd:]),
		Position:  p,
		BestMoves: bestMoves,
	}, nil
}

// parseID extracts the quoted value of an id opcode.
func parseID(ops string) string {
	var i = strings.Index(ops, "id \"")
	if i == -1 {
		return ""
	}
	var rest = ops[i+len("id \""):]
	var j = strings.IndexByte(rest, '"')
	if j == -1 {
		return ""
	}
	return rest[:j]
}
