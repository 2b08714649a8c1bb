package eval

import (
	"github.com/kestrel-chess/kestrel/pkg/common"
)

// EvaluationService counts material only. It is the reference evaluator for
// search tests, where a simple and obviously symmetric score is wanted.
type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

var pieceValues = [common.PIECE_NB]int{
	common.Pawn:   100,
	common.Knight: 320,
	common.Bishop: 330,
	common.Rook:   500,
	common.Queen:  950,
}

func (e *EvaluationService) Evaluate(p *common.Position) int {
	var eval int
	for piece := common.Pawn; piece <= common.Queen; piece++ {
		var bb = pieceBoard(p, piece)
		eval += pieceValues[piece] * (common.PopCount(bb&p.White) - common.PopCount(bb&p.Black))
	}
	if !p.WhiteMove {
		eval = -eval
	}
	return eval
}

func pieceBoard(p *common.Position, piece int) uint64 {
	switch piece {
	case common.Pawn:
		return p.Pawns
	case common.Knight:
		return p.Knights
	case common.Bishop:
		return p.Bishops
	case common.Rook:
		return p.Rooks
	default:
		return p.Queens
	}
}
