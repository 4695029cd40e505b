package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/internal/search"
)

func newRoomsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Browse, create and join study rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newRoomsListCommand(a),
		newRoomsSearchCommand(a),
		newRoomsShowCommand(a),
		newRoomsCreateCommand(a),
		newRoomsJoinCommand(a),
		newRoomsBrowseCommand(a),
	)
	return cmd
}

func newRoomsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List public rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rooms, err := a.api.Rooms.ListPublic(ctx)
			if err != nil {
				return a.fail(ctx, api.OpListRooms, err)
			}
			return a.printRooms(cmd, rooms)
		},
	}
}

func newRoomsSearchCommand(a *app) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search rooms by term and categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := api.SearchQuery{Categories: categories}
			if len(args) == 1 {
				q.Term = args[0]
			}
			rooms, err := a.api.Rooms.Search(ctx, q)
			if err != nil {
				return a.fail(ctx, api.OpSearchRooms, err)
			}
			return a.printRooms(cmd, rooms)
		},
	}
	cmd.Flags().StringArrayVarP(&categories, "category", "c", nil, "Category filter, repeatable; order is kept")
	return cmd
}

func newRoomsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <roomId>",
		Short: "Show one room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			room, err := a.api.Rooms.Get(ctx, args[0])
			if err != nil {
				return a.fail(ctx, api.OpGetRoom, err)
			}
			return a.printRoom(cmd, room)
		},
	}
}

func newRoomsCreateCommand(a *app) *cobra.Command {
	var (
		req     api.CreateRoomRequest
		private bool
		image   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a study room, optionally with a cover image",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req.IsPublic = !private

			var img *api.Image
			if image != "" {
				f, err := os.Open(image)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer f.Close()
				img = &api.Image{Filename: filepath.Base(image), Body: f}
			}

			room, err := a.api.Rooms.Create(ctx, req, img)
			if err != nil {
				return a.fail(ctx, api.OpCreateRoom, err)
			}
			if a.asJSON {
				return a.printJSON(cmd, room)
			}
			a.printf(cmd, "created room %s (%s)\n", room.Name, room.RoomID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Room name")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "Topic")
	cmd.Flags().StringVar(&req.Category, "category", "", "One of: "+strings.Join(api.Categories, ", "))
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().IntVar(&req.MaxParticipants, "max-participants", api.DefaultMaxParticipants, "Maximum participants")
	cmd.Flags().BoolVar(&private, "private", false, "Make the room private")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password for private rooms")
	cmd.Flags().StringVar(&image, "image", "", "Path to a cover image")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newRoomsJoinCommand(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "join <roomId>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			room, err := a.api.Rooms.Join(ctx, args[0], password)
			if err != nil {
				return a.fail(ctx, api.OpJoinRoom, err)
			}
			if a.asJSON {
				return a.printJSON(cmd, room)
			}
			a.printf(cmd, "joined %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Room password for private rooms")
	return cmd
}

const browseHelp = `type to search, one line per change:
  <text>       set the search term
  #<category>  toggle a category
  :clear       reset term and categories
  :q           quit
`

func newRoomsBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive room search with live results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			o := search.New(ctx, a.api.Rooms, func(r search.Result) {
				switch r.Status {
				case search.Loading:
					a.printf(cmd, "searching %q %v...\n", r.Query.Term, r.Query.Categories)
				case search.Failed:
					a.printf(cmd, "%s\n", api.Message(api.OpSearchRooms, r.Err))
				case search.Success:
					_ = a.printRooms(cmd, r.Rooms)
				}
			}, search.WithDelay(a.cfg.SearchDebounce))
			defer o.Close()

			a.printf(cmd, "%s", browseHelp)
			for {
				line, err := a.readLine(cmd, "")
				if err != nil {
					return nil
				}
				switch {
				case line == ":q":
					return nil
				case line == ":clear":
					o.SetCategories(nil)
					o.SetTerm("")
				case strings.HasPrefix(line, "#"):
					o.Toggle(strings.TrimSpace(line[1:]))
				default:
					o.SetTerm(line)
				}
			}
		},
	}
}
