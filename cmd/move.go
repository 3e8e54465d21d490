// File: cmd/move.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/glide/internal/browser"
	"github.com/xkilldash9x/glide/internal/browser/humanoid"
	"github.com/xkilldash9x/glide/internal/observability"
)

// pageOpeners overrides the browser drivers. Nil selects the real ones.
var pageOpeners map[string]browser.Opener

// shutdownGracePeriod bounds browser teardown after the command finishes or is interrupted.
const shutdownGracePeriod = 15 * time.Second

// moveFlagKeys binds move flags to their configuration keys so flags override
// file and environment values.
var moveFlagKeys = map[string]string{
	"driver":      "browser.driver",
	"headless":    "browser.headless",
	"exec-path":   "browser.exec_path",
	"pattern":     "browser.humanoid.pattern",
	"show-cursor": "browser.humanoid.show_visual_cursor",
	"min-time":    "browser.humanoid.min_movement_time",
	"max-time":    "browser.humanoid.max_movement_time",
	"steps":       "browser.humanoid.steps",
}

// newMoveCmd creates the `move` command.
func newMoveCmd(v *viper.Viper) *cobra.Command {
	var (
		click      bool
		clickDelay time.Duration
		disable    bool
	)

	moveCmd := &cobra.Command{
		Use:   "move <url> <selector> [selector...]",
		Short: "Opens a page and moves the pointer to each selector in turn",
		Example: `  glide move https://example.com "#login" --pattern human --show-cursor --headless=false
  glide move https://example.com "a.more" --click --click-delay 150ms`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfig(ctx)
			if err != nil {
				return err
			}
			if disable {
				cfg.SetBrowserHumanoidEnabled(false)
			}
			logger := observability.GetLogger()

			mgr := browser.NewManager(logger, pageOpeners)
			defer func() {
				// Teardown must run even when ctx was canceled by a signal.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
				defer cancel()
				if err := mgr.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Browser shutdown incomplete.", zap.Error(err))
				}
			}()

			page, err := mgr.Open(ctx, cfg)
			if err != nil {
				return err
			}
			logger = observability.WithSession(logger, page.ID(), page.Driver())

			url, selectors := args[0], args[1:]
			if err := page.Navigate(ctx, url); err != nil {
				return err
			}
			logger.Info("Page loaded.", zap.String("url", url))

			h := page.Humanoid()
			for _, sel := range selectors {
				start := time.Now()
				if click {
					err = h.ClickWithMovement(ctx, sel, &humanoid.ClickOptions{Delay: clickDelay})
				} else {
					err = h.MoveTo(ctx, sel)
				}
				if err != nil {
					return fmt.Errorf("pointer action on %q failed: %w", sel, err)
				}

				action := "moved to"
				if click {
					action = "clicked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%v)\n", action, sel, time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}

	flags := moveCmd.Flags()
	flags.BoolVar(&click, "click", false, "click each element after reaching it")
	flags.DurationVar(&clickDelay, "click-delay", 0, "pause between arrival and click (0 draws 100ms-300ms)")
	flags.BoolVar(&disable, "disable", false, "skip trajectory simulation and use the driver's native hover")
	flags.String("driver", "", "browser driver: chromedp or rod")
	flags.Bool("headless", true, "run the browser without a window")
	flags.String("exec-path", "", "path to the Chrome or Chromium binary")
	flags.String("pattern", "", "trajectory pattern: linear, bezier or human")
	flags.Bool("show-cursor", false, "draw a visual cursor overlay that follows the pointer")
	flags.Duration("min-time", 0, "lower bound of one movement's duration")
	flags.Duration("max-time", 0, "upper bound of one movement's duration")
	flags.Int("steps", 0, "segments per trajectory")

	for name, key := range moveFlagKeys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
	return moveCmd
}
