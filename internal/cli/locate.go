package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/locator"
	"github.com/exes/food-network/internal/geolocation"
)

func (a *app) locateCommand() *cobra.Command {
	var (
		intent   string
		lat, lng float64
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "List machines that can take a donation or have food to collect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			in := domain.ParseIntent(intent)

			machines, err := a.api.Machines(ctx)
			if err != nil {
				return a.upstreamNotice(err)
			}

			var provider geolocation.Provider = geolocation.Unavailable{}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				provider = geolocation.Static{Position: domain.Position{Lat: lat, Lng: lng}}
			}
			pos := geolocation.Acquire(ctx, provider, timeout)
			if pos == nil {
				fmt.Fprintln(a.opts.Err, "notice: your location is unavailable, machines are shown unsorted")
			}

			ranked := locator.RankWithDistance(machines, pos, in)
			a.log.Debug().
				Str("intent", string(in)).
				Int("snapshot", len(machines)).
				Int("matches", len(ranked)).
				Bool("sorted", pos != nil).
				Msg("ranked machines")

			if len(ranked) == 0 {
				printEmpty(a.opts.Out, in)
				return nil
			}
			printRanked(a.opts.Out, ranked)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&intent, "intent", string(domain.IntentDonor), "donor or receiver")
	f.Float64Var(&lat, "lat", 0, "your latitude")
	f.Float64Var(&lng, "lng", 0, "your longitude")
	f.DurationVar(&timeout, "timeout", geolocation.DefaultTimeout, "how long to wait for a position")
	return cmd
}

func printEmpty(w io.Writer, in domain.Intent) {
	if in == domain.IntentReceiver {
		fmt.Fprintln(w, "Sorry, there are no machines with available food at the moment.")
	} else {
		fmt.Fprintln(w, "Sorry, there are no machines with available space at the moment.")
	}
	fmt.Fprintf(w, "Try `exesctl locate --intent %s` instead.\n", in.Opposite())
}

func printRanked(w io.Writer, ranked []locator.Ranked) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tDISTANCE\tSPACE\tFOOD\tUPDATED")
	for _, r := range ranked {
		m := r.Machine
		dist := "-"
		if r.DistanceKm != nil {
			dist = fmt.Sprintf("%.2f km", *r.DistanceKm)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%d\t%s\n",
			m.Name, m.Address, dist, m.AvailableCapacity, m.AvailableFood, m.LastUpdated.UTC().Format(time.RFC3339))
	}
	_ = tw.Flush()
}
