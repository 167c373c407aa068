package main

import (
	"flag"
	"log"
	"os"

	"github.com/VoteCompass/VC-Backend/internal/votesimport"
)

func main() {
	var (
		csvPath   = flag.String("csv", "", "path to vote export CSV")
		dbURL     = flag.String("db", "", "DATABASE_URL")
		namespace = flag.String("namespace", "", "UUID Namespace (required, stable forever)")
		wipe      = flag.Bool("wipe", false, "DANGER: truncates motion and vote tables before importing")
	)
	flag.Parse()

	if *csvPath == "" || *dbURL == "" || *namespace == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := votesimport.Config{
		CSVPath:     *csvPath,
		DatabaseURL: *dbURL,
		Namespace:   *namespace,
		Wipe:        *wipe,
	}

	if err := votesimport.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
