package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yeogirlyun/pokertrainer/internal/eventstream"
	"github.com/yeogirlyun/pokertrainer/internal/replay"
	"github.com/yeogirlyun/pokertrainer/internal/session"
)

type ReplayCmd struct {
	Paths []string `arg:"" help:"Hand record files (TOML)"`

	Mode   string `default:"auto" enum:"auto,delta,total" help:"Recorded amount convention"`
	Skip   string `default:"fold" enum:"fold,infer" help:"Policy for turns the record skips"`
	Listen string `help:"Serve the event stream over websocket at this address (e.g. :8080)"`
}

func (c *ReplayCmd) Run(logger *log.Logger) error {
	var opts []replay.AdapterOption
	switch c.Mode {
	case "delta":
		opts = append(opts, replay.WithAmountMode(replay.AmountDelta))
	case "total":
		opts = append(opts, replay.WithAmountMode(replay.AmountTotal))
	}
	if c.Skip == "infer" {
		opts = append(opts, replay.WithSkipPolicy(replay.SkipInfer))
	}

	review := session.NewReview(logger, opts...)

	if c.Listen == "" {
		for _, path := range c.Paths {
			_, rendered, err := review.ReplayFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Print(rendered)
		}
		return nil
	}

	broadcaster := eventstream.NewBroadcaster(logger)
	defer broadcaster.Close()

	done := make(chan error, 1)
	srv := &http.Server{Addr: c.Listen, Handler: broadcaster}
	go func() {
		logger.Info("serving event stream", "addr", c.Listen)
		done <- srv.ListenAndServe()
	}()

	logger.Info("waiting for a client before replaying")
	for broadcaster.ClientCount() == 0 {
		select {
		case err := <-done:
			return err
		case <-time.After(100 * time.Millisecond):
		}
	}

	for _, path := range c.Paths {
		_, rendered, err := review.ReplayFile(path, broadcaster)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Print(rendered)
	}
	return srv.Close()
}
