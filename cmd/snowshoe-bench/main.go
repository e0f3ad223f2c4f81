// Command snowshoe-bench times the three scalar-multiplication engines
// (MulGen, Mul, Simul) exposed by the root snowshoe package and reports
// operations/sec and time/op to stderr as structured log lines.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/dendisuhubdy/snowshoe"
)

// config holds the knobs a run can take either from flags or from a TOML
// profile file, mirroring the teacher's flag-first, config-file-optional
// convention.
type config struct {
	Iterations int    `toml:"iterations"`
	Seed       string `toml:"seed"`
	Ops        string `toml:"ops"`
	Verbose    bool   `toml:"verbose"`
}

func defaultConfig() config {
	return config{
		Iterations: 2000,
		Seed:       "snowshoe-bench",
		Ops:        "mulgen,mul,simul",
		Verbose:    false,
	}
}

func loadConfig() config {
	cfg := defaultConfig()

	profile := flag.String("profile", "", "path to a TOML config file; flags below override its values")
	iterations := flag.Int("n", cfg.Iterations, "iterations per operation")
	seed := flag.String("seed", cfg.Seed, "seed string for the deterministic scalar stream")
	ops := flag.String("ops", cfg.Ops, "comma-separated subset of mulgen,mul,simul to run")
	verbose := flag.Bool("v", cfg.Verbose, "enable debug-level logging")
	flag.Parse()

	if *profile != "" {
		if _, err := toml.DecodeFile(*profile, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "snowshoe-bench: reading profile %s: %v\n", *profile, err)
			os.Exit(1)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Iterations = *iterations
		case "seed":
			cfg.Seed = *seed
		case "ops":
			cfg.Ops = *ops
		case "v":
			cfg.Verbose = *verbose
		}
	})

	return cfg
}

// scalarStream deterministically derives an endless sequence of scalars
// from a seed by hashing seed||counter with blake2b and reducing the
// digest modulo the subgroup order, so repeated runs with the same seed
// are reproducible for comparison across builds.
type scalarStream struct {
	seed    string
	counter uint64
}

func newScalarStream(seed string) *scalarStream {
	return &scalarStream{seed: seed}
}

func (s *scalarStream) next() *snowshoe.Scalar {
	var counterBytes [8]byte
	for i := 0; i < 8; i++ {
		counterBytes[i] = byte(s.counter >> (8 * i))
	}
	input := append([]byte(s.seed), counterBytes[:]...)
	digest := blake2b.Sum512(input)
	s.counter++

	var sc snowshoe.Scalar
	sc.DecodeReduce(digest[:])
	return &sc
}

func timeOp(iterations int, fn func()) time.Duration {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	return time.Since(start)
}

func report(log zerolog.Logger, name string, iterations int, elapsed time.Duration) {
	perOp := elapsed / time.Duration(iterations)
	opsPerSec := float64(iterations) / elapsed.Seconds()
	log.Info().
		Str("op", name).
		Int("iterations", iterations).
		Dur("total", elapsed).
		Dur("per_op", perOp).
		Float64("ops_per_sec", opsPerSec).
		Msg("benchmark complete")
}

func runMulGen(log zerolog.Logger, cfg config, scalars *scalarStream) {
	ks := make([]*snowshoe.Scalar, cfg.Iterations)
	for i := range ks {
		ks[i] = scalars.next()
	}
	i := 0
	elapsed := timeOp(cfg.Iterations, func() {
		snowshoe.MulGen(ks[i])
		i++
	})
	report(log, "mulgen", cfg.Iterations, elapsed)
}

func runMul(log zerolog.Logger, cfg config, scalars *scalarStream) {
	base := snowshoe.Generator()
	ks := make([]*snowshoe.Scalar, cfg.Iterations)
	for i := range ks {
		ks[i] = scalars.next()
	}
	i := 0
	elapsed := timeOp(cfg.Iterations, func() {
		base.Mul(ks[i])
		i++
	})
	report(log, "mul", cfg.Iterations, elapsed)
}

func runSimul(log zerolog.Logger, cfg config, scalars *scalarStream) {
	p1 := snowshoe.Generator()
	p2 := snowshoe.MulGen(scalars.next())
	k1s := make([]*snowshoe.Scalar, cfg.Iterations)
	k2s := make([]*snowshoe.Scalar, cfg.Iterations)
	for i := range k1s {
		k1s[i] = scalars.next()
		k2s[i] = scalars.next()
	}
	i := 0
	elapsed := timeOp(cfg.Iterations, func() {
		snowshoe.Simul(k1s[i], p1, k2s[i], p2)
		i++
	})
	report(log, "simul", cfg.Iterations, elapsed)
}

func main() {
	cfg := loadConfig()

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	requested := selectedOps(cfg.Ops)
	if len(requested) == 0 {
		log.Fatal().Str("ops", cfg.Ops).Msg("no recognized operations requested")
	}

	log.Debug().Str("seed", cfg.Seed).Int("iterations", cfg.Iterations).Msg("starting run")
	scalars := newScalarStream(cfg.Seed)

	for _, op := range requested {
		switch op {
		case "mulgen":
			runMulGen(log, cfg, scalars)
		case "mul":
			runMul(log, cfg, scalars)
		case "simul":
			runSimul(log, cfg, scalars)
		}
	}
}

func selectedOps(spec string) []string {
	valid := map[string]bool{"mulgen": true, "mul": true, "simul": true}
	var out []string
	start := 0
	for i := 0; i <= len(spec); i++ {
		if i == len(spec) || spec[i] == ',' {
			name := spec[start:i]
			start = i + 1
			if valid[name] {
				out = append(out, name)
			}
		}
	}
	return out
}
