package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"termsnake/internal/persistence/indexdb"
)

func main() {
	var (
		dataDir = flag.String("data", "./data", "runtime data directory")
		limit   = flag.Int("n", 10, "number of games to list")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[scores] ", log.LstdFlags)

	path := filepath.Join(*dataDir, "index.db")
	if _, err := os.Stat(path); err != nil {
		logger.Fatalf("index: %v", err)
	}
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	defer idx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	games, err := idx.TopGames(ctx, *limit)
	if err != nil {
		logger.Fatalf("query: %v", err)
	}
	if err := printGames(os.Stdout, games); err != nil {
		logger.Fatalf("write: %v", err)
	}
}

func printGames(w io.Writer, games []indexdb.GameRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tLEN\tTICKS\tBOARD\tOUTCOME\tENDED\tGAME")
	for i, g := range games {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%dx%d\t%s\t%s\t%s\n",
			i+1, g.Len, g.Ticks, g.Height, g.Width, g.Outcome, g.EndedAt.Local().Format("2006-01-02 15:04"), g.GameID)
	}
	return tw.Flush()
}
