package main

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/ev-batch/runner"
	"github.com/radieske/ev-lab-poc/internal/model/matchev"
	"github.com/radieske/ev-lab-poc/internal/shared/config"
	"github.com/radieske/ev-lab-poc/internal/shared/logger"
)

// ev-batch pontua eventos de partida em NDJSON, uma linha por evento.
// Sem servidores: lê, pontua, escreve e sai.
func main() {
	inPath := flag.String("in", "-", "arquivo NDJSON de entrada ('-' = stdin)")
	outPath := flag.String("out", "-", "arquivo NDJSON de saída ('-' = stdout)")
	flag.Parse()

	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ev-batch" // CLI roda sem SERVICE_NAME no ambiente
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	in := os.Stdin
	if *inPath != "-" && *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatal("open input", zap.Error(err))
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	if *outPath != "-" && *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal("create output", zap.Error(err))
		}
		out = f
	}

	r := &runner.Runner{
		Log:    log,
		Scorer: matchev.NewScorer(nil, time.Now),
	}
	if err := r.Run(in, out); err != nil {
		log.Fatal("batch failed", zap.Error(err))
	}

	if out != os.Stdout {
		if err := out.Close(); err != nil {
			log.Fatal("close output", zap.Error(err))
		}
	}
}
