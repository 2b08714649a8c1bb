package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kestrel-chess/kestrel/internal/reference"
)

func referenceHandler(args []string) error {
	var (
		enginePath = mapPath("~/chess/engines/stockfish")
		fensPath   = mapPath("~/chess/tests/fens.txt")
		evalName   = ""
		depth      = 8
	)

	var flagset = flag.NewFlagSet("reference", flag.ExitOnError)
	flagset.StringVar(&enginePath, "engine", enginePath, "path to a UCI engine")
	flagset.StringVar(&fensPath, "fens", fensPath, "file with one fen per line")
	flagset.StringVar(&evalName, "eval", evalName, "evaluation function")
	flagset.IntVar(&depth, "depth", depth, "search depth for both engines")
	flagset.Parse(args)

	var fens, err = readLines(fensPath)
	if err != nil {
		return err
	}
	eng, err := newEngine(evalName, 64)
	if err != nil {
		return err
	}
	comparer, err := reference.NewComparer(enginePath, 64, eng, depth, logger)
	if err != nil {
		return err
	}
	defer comparer.Close()

	comparisons, err := comparer.CompareAll(context.Background(), fens)
	for _, c := range comparisons {
		fmt.Printf("%v ours %v %+v theirs %v %+v\n", c.FEN, c.OurMove, c.Ours, c.TheirMove, c.Theirs)
	}
	fmt.Printf("Agreement: %.1f%%\n", 100*reference.Agreement(comparisons))
	return err
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []string
	var scanner = bufio.NewScanner(file)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if line != "" {
			result = append(result, line)
		}
	}
	return result, scanner.Err()
}
