package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/freeeve/pgn/v3"
	"github.com/rs/zerolog"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

type Stats struct {
	Games      int
	Skipped    int
	Positions  int
	Mismatches int
}

// Visitor receives the positions of every replayed game, starting position
// first.
type Visitor func(tags map[string]string, positions []common.Position) error

// ReplayFile parses a PGN file (plain or .pgn.zst) and replays each game
// through our move generator. The reference parser applies the same move
// in parallel; a move it accepts that we reject, or a board that differs
// afterwards, counts as a mismatch and the game is abandoned.
func ReplayFile(ctx context.Context, path string, logger zerolog.Logger, visit Visitor) (Stats, error) {
	var stats Stats
	var parser = pgn.Games(path)

	for game := range parser.Games {
		if ctx.Err() != nil {
			parser.Stop()
			break
		}
		var positions, err = replayGame(game)
		if err != nil {
			stats.Mismatches++
			logger.Warn().Err(err).
				Str("white", game.Tags["White"]).
				Str("black", game.Tags["Black"]).
				Msg("replay mismatch")
			continue
		}
		if positions == nil {
			stats.Skipped++
			continue
		}
		stats.Games++
		stats.Positions += len(positions)
		if visit != nil {
			if err := visit(game.Tags, positions); err != nil {
				parser.Stop()
				return stats, err
			}
		}
	}

	if err := parser.Err(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// replayGame returns nil positions for games it cannot start.
func replayGame(game *pgn.Game) ([]common.Position, error) {
	var fen = game.Tags["FEN"]
	var ref *pgn.GameState
	if fen == "" {
		fen = common.InitialPositionFen
		ref = pgn.NewStartingPosition()
	} else {
		var err error
		ref, err = pgn.NewGame(fen)
		if err != nil {
			return nil, nil
		}
	}
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return nil, nil
	}

	var positions = []common.Position{p}
	for i, mv := range game.Moves {
		var lan = moveToLAN(mv)
		var child, ok = positions[len(positions)-1].MakeMoveLAN(lan)
		if !ok {
			return nil, fmt.Errorf("ply %v %v: %w", i+1, lan, common.ErrIllegalMove)
		}
		if err := pgn.ApplyMove(ref, mv); err != nil {
			return nil, fmt.Errorf("reference rejects ply %v %v: %w", i+1, lan, err)
		}
		if !sameBoard(ref.ToFEN(), child.String()) {
			return nil, fmt.Errorf("ply %v %v: board %v, reference %v", i+1, lan, child.String(), ref.ToFEN())
		}
		positions = append(positions, child)
	}
	return positions, nil
}

// sameBoard compares piece placement, side to move and castling rights.
// En passant fields are written differently by the two libraries.
func sameBoard(fen1, fen2 string) bool {
	var f1, f2 = strings.Fields(fen1), strings.Fields(fen2)
	if len(f1) < 3 || len(f2) < 3 {
		return false
	}
	return f1[0] == f2[0] && f1[1] == f2[1] && f1[2] == f2[2]
}

func moveToLAN(mv pgn.Mv) string {
	const files = "abcdefgh"
	const ranks = "12345678"

	var from, to = int(mv.From), int(mv.To)
	if mv.Flags == castleFlag {
		// normalise king-takes-rook encoding to the king's destination
		if to > from {
			to = from + 2
		} else {
			to = from - 2
		}
	}

	var lan = string([]byte{files[from%8], ranks[from/8], files[to%8], ranks[to/8]})
	switch mv.Promo {
	case pgn.PromoQueen:
		lan += "q"
	case pgn.PromoRook:
		lan += "r"
	case pgn.PromoBishop:
		lan += "b"
	case pgn.PromoKnight:
		lan += "n"
	}
	return lan
}

const castleFlag = 4
