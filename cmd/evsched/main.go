package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"evsched/internal/job"
	"evsched/internal/sched"
	"evsched/internal/ticks"
)

func main() {
	cfg := sched.Load("config.yml")

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	clock := ticks.NewClock()
	s, err := sched.New(clock.Now)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}

	var rec *sched.Recorder
	if cfg.CSVLog != "" {
		rec, err = sched.NewRecorder(cfg.CSVLog)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CSVLog).Msg("cannot open csv log")
		}
		defer rec.Close()
	}

	// A small demo fleet: two heartbeats at different rates and nice
	// values, plus a self-rewaking burst to exercise the run queue.
	fast := s.NewTask(job.Heartbeat(clock.Now, 100, func() {
		log.Info().Msg("fast heartbeat")
	}), nil)
	fast.Expire = ticks.Add(clock.Now(), 100)
	s.Queue(fast)

	slow := s.NewTask(job.Heartbeat(clock.Now, 1000, func() {
		log.Info().Msg("slow heartbeat")
	}), nil)
	slow.SetNice(512)
	slow.Expire = ticks.Add(clock.Now(), 1000)
	s.Queue(slow)

	burst := s.NewTask(job.Burst(s, 5, func(remaining int) {
		log.Info().Int("remaining", remaining).Msg("burst")
	}), nil)
	s.Wakeup(burst, sched.WokenMsg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sched.NewRunner(s, clock.Now, cfg, log, rec)
	if err := runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("runner failed")
	}
}
