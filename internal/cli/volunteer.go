package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/exes/food-network/internal/core/domain"
)

func (a *app) volunteerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volunteer",
		Short: "Volunteer views",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "expired",
			Short: "List machines holding expired food",
			RunE:  a.guarded(domain.RoleVolunteer, a.volunteerExpired),
		},
		&cobra.Command{
			Use:   "items <machine-id>",
			Short: "List the expired items inside a machine",
			Args:  cobra.ExactArgs(1),
			RunE:  a.guarded(domain.RoleVolunteer, a.volunteerItems),
		},
		&cobra.Command{
			Use:   "remove <item-id>",
			Short: "Record that an expired item was taken out",
			Args:  cobra.ExactArgs(1),
			RunE:  a.guarded(domain.RoleVolunteer, a.volunteerRemove),
		},
	)
	return cmd
}

func (a *app) volunteerExpired(ctx context.Context, token string, _ []string) error {
	stock, err := a.api.Expired(ctx, token)
	if err != nil {
		return a.upstreamNotice(err)
	}
	if len(stock) == 0 {
		fmt.Fprintln(a.opts.Out, "No machines currently have expired food items requiring attention.")
		return nil
	}
	tw := tabwriter.NewWriter(a.opts.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MACHINE\tADDRESS\tEXPIRED ITEMS")
	for _, s := range stock {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.MachineID, s.Address, s.Count)
	}
	return tw.Flush()
}

func (a *app) volunteerItems(ctx context.Context, token string, args []string) error {
	items, err := a.api.ExpiredItems(ctx, token, args[0])
	if err != nil {
		return a.upstreamNotice(err)
	}
	if len(items) == 0 {
		fmt.Fprintf(a.opts.Out, "Machine %s has no expired items.\n", args[0])
		return nil
	}
	tw := tabwriter.NewWriter(a.opts.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tEXPIRED ON\tDONATED AT")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.ExpiryDate, it.DonatedAt)
	}
	return tw.Flush()
}

func (a *app) volunteerRemove(ctx context.Context, token string, args []string) error {
	if err := a.api.RemoveItem(ctx, token, args[0]); err != nil {
		return a.upstreamNotice(err)
	}
	fmt.Fprintf(a.opts.Out, "Item %s marked as removed.\n", args[0])
	return nil
}
