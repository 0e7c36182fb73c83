package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lucasew/decimate/internal/errutil"
	"github.com/lucasew/decimate/internal/eviction"
	"github.com/schollz/progressbar/v3"
)

func progressBar(ctx context.Context) func(total int) eviction.Progress {
	return func(total int) eviction.Progress {
		return progressbar.NewOptions(
			total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("removing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(10),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprint(os.Stderr, "\n"); err != nil {
					errutil.LogMsg(ctx, err, "Failed to print newline to stderr")
				}
			}),
		)
	}
}
