package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/api"
)

func (a *app) printJSON(cmd *cobra.Command, v any) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printRooms(cmd *cobra.Command, rooms []api.Room) error {
	if a.asJSON {
		return a.printJSON(cmd, rooms)
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	if len(rooms) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no rooms found")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tTOPIC\tMEMBERS\tVISIBILITY")
	for _, r := range rooms {
		vis := "public"
		if !r.IsPublic {
			vis = "private"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\n", r.RoomID, r.Name, r.Category, r.Topic, len(r.Participants), r.MaxParticipants, vis)
	}
	return tw.Flush()
}

func (a *app) printRoom(cmd *cobra.Command, r *api.Room) error {
	if a.asJSON {
		return a.printJSON(cmd, r)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Name, r.RoomID)
	fmt.Fprintf(&b, "  category:     %s\n", r.Category)
	fmt.Fprintf(&b, "  topic:        %s\n", r.Topic)
	if r.Description != "" {
		fmt.Fprintf(&b, "  description:  %s\n", r.Description)
	}
	fmt.Fprintf(&b, "  participants: %d/%d\n", len(r.Participants), r.MaxParticipants)
	if r.ImageURL != "" {
		fmt.Fprintf(&b, "  image:        %s\n", r.ImageURL)
	}
	a.printf(cmd, "%s", b.String())
	return nil
}
