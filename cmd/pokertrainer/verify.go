package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/yeogirlyun/pokertrainer/internal/replay"
	"github.com/yeogirlyun/pokertrainer/internal/session"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

type VerifyCmd struct {
	Dir     string `arg:"" help:"Directory of hand record files (TOML)"`
	Workers int    `default:"0" help:"Concurrent replays (0 = number of CPUs)"`
	Infer   bool   `help:"Infer calls for skipped turns instead of folding"`
}

func (c *VerifyCmd) Run(logger *log.Logger) error {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var opts []replay.AdapterOption
	if c.Infer {
		opts = append(opts, replay.WithSkipPolicy(replay.SkipInfer))
	}

	review := session.NewReview(logger, opts...)
	results, err := review.VerifyDir(context.Background(), c.Dir, workers)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		name := filepath.Base(res.Path)
		if res.Err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", failStyle.Render("FAIL"), name, res.Err)
			continue
		}
		fmt.Printf("%s %s: final stacks %v\n", okStyle.Render("ok  "), name, res.FinalStacks)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed verification", failed, len(results))
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("all %d records verified", len(results))))
	return nil
}
