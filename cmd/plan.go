// File: cmd/plan.go
package cmd

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
)

// planOutput is the JSON document printed by `glide plan`.
type planOutput struct {
	Pattern    string           `json:"pattern"`
	Seed       int64            `json:"seed"`
	From       humanoid.Point   `json:"from"`
	To         humanoid.Point   `json:"to"`
	DurationMs float64          `json:"durationMs"`
	TotalMs    float64          `json:"totalMs"`
	Points     []humanoid.Point `json:"points"`
	DelaysMs   []float64        `json:"delaysMs"`
}

// newPlanCmd creates the `plan` command, which prints a movement without opening a browser.
func newPlanCmd() *cobra.Command {
	var (
		from, to string
		seed     int64
		duration time.Duration
		pretty   bool
	)

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Prints the trajectory and step delays for a movement as JSON",
		Example: `  glide plan --from 0,0 --to 640,360 --pattern human --seed 42
  glide plan --to 300,120 --steps 10 --duration 500ms --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}
			hcfg, err := cfg.Browser().Humanoid.ToHumanoid()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("pattern") {
				name, _ := flags.GetString("pattern")
				if hcfg.Pattern, err = humanoid.ParsePattern(name); err != nil {
					return err
				}
			}
			if flags.Changed("steps") {
				hcfg.Steps, _ = flags.GetInt("steps")
			}
			if flags.Changed("speed-variation") {
				hcfg.SpeedVariation, _ = flags.GetFloat64("speed-variation")
			}
			if duration > 0 {
				hcfg.MinMovementTime, hcfg.MaxMovementTime = duration, duration
			}
			if err := hcfg.Validate(); err != nil {
				return err
			}

			start, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			if !flags.Changed("seed") {
				seed = time.Now().UnixNano()
			}

			m, err := humanoid.PlanMovement(hcfg, start, end, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}

			out := planOutput{
				Pattern:    string(hcfg.Pattern),
				Seed:       seed,
				From:       start,
				To:         end,
				DurationMs: millis(m.Duration),
				TotalMs:    millis(m.Delays.Total()),
				Points:     m.Trajectory,
				DelaysMs:   make([]float64, len(m.Delays)),
			}
			for i, d := range m.Delays {
				out.DelaysMs[i] = millis(d)
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(out, "", "  ")
			} else {
				data, err = json.Marshal(out)
			}
			if err != nil {
				return fmt.Errorf("failed to encode plan: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	flags := planCmd.Flags()
	flags.StringVar(&from, "from", "0,0", "start point as x,y")
	flags.StringVar(&to, "to", "", "end point as x,y")
	flags.Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	flags.DurationVar(&duration, "duration", 0, "fixed movement duration (default: drawn from the configured bounds)")
	flags.BoolVar(&pretty, "pretty", false, "indent the JSON output")
	flags.String("pattern", "", "trajectory pattern: linear, bezier or human")
	flags.Int("steps", 0, "segments per trajectory")
	flags.Float64("speed-variation", 0, "jitter scale for the human pattern, 0 to 1")
	_ = planCmd.MarkFlagRequired("to")
	return planCmd
}

// parsePoint reads "x,y" integer viewport coordinates.
func parsePoint(s string) (humanoid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return humanoid.Point{}, fmt.Errorf("expected x,y but got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return humanoid.Point{}, fmt.Errorf("bad x coordinate %q: %w", xs, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return humanoid.Point{}, fmt.Errorf("bad y coordinate %q: %w", ys, err)
	}
	return humanoid.Point{X: x, Y: y}, nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
