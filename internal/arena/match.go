package arena

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

type Statistics struct {
	Wins, Losses, Draws int
	WinningFraction     float64
	EloDifference       float64
	Los                 float64
}

// Run plays every opening twice between engines made by newEngineA and
// newEngineB, gameConcurrency games at a time. Each playing goroutine owns
// its pair of engines.
func Run(
	ctx context.Context,
	openings [][]common.Position,
	newEngineA, newEngineB func() Engine,
	tc TimeControl,
	gameConcurrency int,
	logger zerolog.Logger,
) (Statistics, error) {
	logger.Info().
		Int("openings", len(openings)).
		Int("concurrency", gameConcurrency).
		Interface("tc", tc).
		Msg("arena started")

	g, ctx := errgroup.WithContext(ctx)

	var gameInfos = make(chan GameInfo)
	var gameResults = make(chan GameResult)
	var stat Statistics

	g.Go(func() error {
		defer close(gameInfos)
		return loadOpenings(ctx, openings, gameInfos)
	})

	g.Go(func() error {
		stat = showResults(gameResults, logger)
		return nil
	})

	var wg = &sync.WaitGroup{}
	for i := 0; i < gameConcurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, newEngineA(), newEngineB(), tc, gameInfos, gameResults)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(gameResults)
		return nil
	})

	var err = g.Wait()
	logger.Info().Msg("arena finished")
	return stat, err
}

func loadOpenings(ctx context.Context, openings [][]common.Position, gameInfos chan<- GameInfo) error {
	for i, opening := range openings {
		for _, engineAIsWhite := range []bool{true, false} {
			var info = GameInfo{
				Opening:        opening,
				EngineAIsWhite: engineAIsWhite,
				GameNumber:     1 + 2*i,
			}
			if !engineAIsWhite {
				info.GameNumber++
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case gameInfos <- info:
			}
		}
	}
	return nil
}

func playGames(
	ctx context.Context,
	engineA, engineB Engine,
	tc TimeControl,
	gameInfos <-chan GameInfo,
	gameResults chan<- GameResult,
) error {
	for gameInfo := range gameInfos {
		var res, err = PlayGame(ctx, engineA, engineB, tc, gameInfo)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameResults <- res:
		}
	}
	return nil
}

func showResults(gameResults <-chan GameResult, logger zerolog.Logger) Statistics {
	var stat Statistics
	for gameResult := range gameResults {
		switch gameResult.EngineAScore() {
		case 1:
			stat.Wins++
		case 0:
			stat.Losses++
		default:
			stat.Draws++
		}
		stat = computeStat(stat.Wins, stat.Losses, stat.Draws)
		logger.Info().
			Int("game", gameResult.GameInfo.GameNumber).
			Str("result", ResultString(gameResult.Result)).
			Stringer("outcome", gameResult.Outcome).
			Int("wins", stat.Wins).
			Int("losses", stat.Losses).
			Int("draws", stat.Draws).
			Float64("elo", stat.EloDifference).
			Float64("los", stat.Los).
			Msg("game finished")
	}
	return stat
}

// https://www.chessprogramming.org/Match_Statistics
func computeStat(wins, losses, draws int) Statistics {
	var games = wins + losses + draws
	var winningFraction = (float64(wins) + 0.5*float64(draws)) / float64(games)
	var eloDifference = -math.Log(1/winningFraction-1) * 400 / math.Ln10
	var los = 0.5
	if wins+losses != 0 {
		los = 0.5 + 0.5*math.Erf(float64(wins-losses)/math.Sqrt(2*float64(wins+losses)))
	}
	return Statistics{
		Wins:            wins,
		Losses:          losses,
		Draws:           draws,
		WinningFraction: winningFraction,
		EloDifference:   eloDifference,
		Los:             los,
	}
}
