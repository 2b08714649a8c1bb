package arena

import (
	"strings"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

// defaultOpenings are short lines in long algebraic notation. Every line is
// played twice with colours reversed.
var defaultOpenings = []string{
	"e2e4 e7e5 g1f3 b8c6 f1b5 a7a6",
	"e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6",
	"e2e4 e7e6 d2d4 d7d5 b1c3 g8f6",
	"e2e4 c7c6 d2d4 d7d5 e4e5 c8f5",
	"d2d4 d7d5 c2c4 e7e6 b1c3 g8f6",
	"d2d4 g8f6 c2c4 g7g6 b1c3 f8g7 e2e4 d7d6",
	"d2d4 g8f6 c2c4 e7e6 b1c3 f8b4",
	"c2c4 e7e5 b1c3 g8f6 g2g3 d7d5",
	"g1f3 d7d5 g2g3 g8f6 f1g2 c7c6",
	"e2e4 e7e5 g1f3 g8f6 f3e5 d7d6 e5f3 f6e4",
}

// ParseOpenings turns lines of LAN moves into games from the initial
// position.
func ParseOpenings(lines []string) ([][]common.Position, error) {
	var result [][]common.Position
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var positions, err = common.SetPosition(common.InitialPositionFen, strings.Fields(line))
		if err != nil {
			return nil, err
		}
		result = append(result, positions)
	}
	return result, nil
}

func DefaultOpenings() [][]common.Position {
	var result, err = ParseOpenings(defaultOpenings)
	if err != nil {
		panic(err)
	}
	return result
}
