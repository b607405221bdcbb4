// Package cli wires the sync layer into a cobra command tree. It is the
// composition root: it owns the config, the store, the engine and the
// session, and hands references to the commands instead of relying on
// ambient singletons.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbruun/campus-events/internal/api"
	"github.com/cbruun/campus-events/internal/calendar"
	"github.com/cbruun/campus-events/internal/config"
	"github.com/cbruun/campus-events/internal/event"
	"github.com/cbruun/campus-events/internal/logger"
	"github.com/cbruun/campus-events/internal/query"
	"github.com/cbruun/campus-events/internal/session"
	"github.com/cbruun/campus-events/internal/store"
	"github.com/cbruun/campus-events/internal/syncer"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagFormat string
	flagUser   string

	// list filters
	flagCategory     string
	flagQuery        string
	flagFrom         string
	flagTo           string
	flagPriced       string
	flagRSVPRequired string
	flagSort         string

	// create/update fields
	flagTitle       string
	flagDescription string
	flagLocation    string
	flagStart       string
	flagEnd         string
	flagCategories  []string
	flagPrice       float64
	flagNeedsRSVP   bool
	flagPrivate     bool
	flagImage       string

	// calendar
	flagMonth string
)

// app bundles the constructed collaborators for command handlers.
type app struct {
	cfg     config.Config
	session *session.Session
	store   *store.Store
	engine  *syncer.Engine
}

// newApp builds the object graph from configuration.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))

	viewer := cfg.ViewerID
	if flagUser != "" {
		viewer = flagUser
	}

	client := api.NewClientWithTimeout(cfg.APIBaseURL, cfg.HTTPTimeout)
	sess := session.Resolved(viewer)
	st := store.New(client)
	engine := syncer.NewEngine(client, st, sess, logger.Default())

	return &app{cfg: cfg, session: sess, store: st, engine: engine}, nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campus-events",
		Short: "Browse, create and react to campus events",
		Long: `A client for the campus events API.
Keeps a local snapshot of events for the signed-in viewer and supports
creating events, editing them, and toggling likes and RSVPs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&flagUser, "user", "", "Viewer account id (overrides CAMPUS_USER_ID)")

	cmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newCreateCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newLikeCmd(),
		newRSVPCmd(),
		newCalendarCmd(),
		newMineCmd(),
	)

	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, filtered and sorted",
		RunE:  runList,
	}
	cmd.Flags().StringVar(&flagCategory, "category", "", "Exact primary category")
	cmd.Flags().StringVar(&flagQuery, "query", "", "Free-text search across title, description, location")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Earliest start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", "", "Latest start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagPriced, "priced", "", "Filter priced events: yes or no")
	cmd.Flags().StringVar(&flagRSVPRequired, "rsvp-required", "", "Filter RSVP requirement: yes or no")
	cmd.Flags().StringVar(&flagSort, "sort", "soon", "Sort order: soon, new or popular")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := a.engine.Refresh(ctx); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	f, err := buildFilter()
	if err != nil {
		return err
	}

	events := query.Apply(a.store.All(), *f)
	return WriteEvents(cmd.OutOrStdout(), events, OutputFormat(flagFormat))
}

// buildFilter converts the list flags into a query filter.
func buildFilter() (*query.Filter, error) {
	f := &query.Filter{
		Category: flagCategory,
		Query:    flagQuery,
		Sort:     query.Sort(flagSort),
	}

	switch query.Sort(flagSort) {
	case query.SortSoon, query.SortNew, query.SortPopular:
	default:
		return nil, fmt.Errorf("invalid sort: %s (must be soon, new or popular)", flagSort)
	}

	if flagFrom != "" {
		t := event.ParseWireTime(flagFrom)
		if t.IsZero() {
			return nil, fmt.Errorf("invalid --from date: %s", flagFrom)
		}
		f.StartDate = &t
	}
	if flagTo != "" {
		t := event.ParseWireTime(flagTo)
		if t.IsZero() {
			return nil, fmt.Errorf("invalid --to date: %s", flagTo)
		}
		// Inclusive upper bound: anything on that day qualifies.
		t = event.StartOfDay(t).Add(24*time.Hour - time.Second)
		f.EndDate = &t
	}

	var err error
	if f.Priced, err = parseTriState(flagPriced, "--priced"); err != nil {
		return nil, err
	}
	if f.RSVPRequired, err = parseTriState(flagRSVPRequired, "--rsvp-required"); err != nil {
		return nil, err
	}
	return f, nil
}

// parseTriState maps ""/yes/no to nil/true/false.
func parseTriState(s, flagName string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "yes", "true", "1":
		v := true
		return &v, nil
	case "no", "false", "0":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid %s value: %s (must be yes or no)", flagName, s)
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one event in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.engine.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("loading events: %w", err)
			}
			evt, ok := a.store.Get(args[0])
			if !ok {
				return fmt.Errorf("event not found: %s", args[0])
			}
			return WriteEventDetail(cmd.OutOrStdout(), evt, OutputFormat(flagFormat))
		},
	}
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new event",
		RunE:  runCreate,
	}
	cmd.Flags().StringVar(&flagTitle, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&flagDescription, "description", "", "Event description (required)")
	cmd.Flags().StringVar(&flagLocation, "location", "", "Event location (required)")
	cmd.Flags().StringVar(&flagStart, "start", "", "Start date-time, e.g. '2026-04-04 18:30:00' (required)")
	cmd.Flags().StringVar(&flagEnd, "end", "", "End date-time (defaults to start)")
	cmd.Flags().StringArrayVar(&flagCategories, "category", nil, "Category; first one is primary (repeatable, required)")
	cmd.Flags().Float64Var(&flagPrice, "price", 0, "Ticket price; 0 means free")
	cmd.Flags().BoolVar(&flagNeedsRSVP, "rsvp-required", false, "Require an RSVP to attend")
	cmd.Flags().BoolVar(&flagPrivate, "private", false, "Make the event private")
	cmd.Flags().StringVar(&flagImage, "image", "", "Path to an image file to attach")
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	draft := event.Draft{
		Title:        flagTitle,
		Description:  flagDescription,
		Location:     flagLocation,
		StartDate:    event.ParseWireTime(flagStart),
		EndDate:      event.ParseWireTime(flagEnd),
		Categories:   flagCategories,
		Price:        flagPrice,
		RSVPRequired: flagNeedsRSVP,
		Private:      flagPrivate,
	}
	if flagImage != "" {
		b64, err := encodeImageFile(flagImage)
		if err != nil {
			return err
		}
		draft.ImageBase64 = b64
	}

	id, err := a.engine.Create(cmd.Context(), draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created event %s\n", id)
	return nil
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Update an event",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdate,
	}
	cmd.Flags().StringVar(&flagTitle, "title", "", "New title")
	cmd.Flags().StringVar(&flagDescription, "description", "", "New description")
	cmd.Flags().StringVar(&flagLocation, "location", "", "New location")
	cmd.Flags().StringVar(&flagStart, "start", "", "New start date-time")
	cmd.Flags().StringVar(&flagEnd, "end", "", "New end date-time")
	cmd.Flags().StringArrayVar(&flagCategories, "category", nil, "Replacement category list")
	cmd.Flags().Float64Var(&flagPrice, "price", -1, "New price; 0 means free")
	cmd.Flags().BoolVar(&flagNeedsRSVP, "rsvp-required", false, "Require an RSVP to attend")
	cmd.Flags().BoolVar(&flagPrivate, "private", false, "Make the event private")
	cmd.Flags().StringVar(&flagImage, "image", "", "Path to a replacement image")
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := a.engine.Refresh(ctx); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	evt, ok := a.store.Get(args[0])
	if !ok {
		return fmt.Errorf("event not found: %s", args[0])
	}

	// Start from the stored record and apply the provided flags, so the
	// engine always sends a complete payload.
	if cmd.Flags().Changed("title") {
		evt.Title = flagTitle
	}
	if cmd.Flags().Changed("description") {
		evt.Description = flagDescription
	}
	if cmd.Flags().Changed("location") {
		evt.Location = flagLocation
	}
	if cmd.Flags().Changed("start") {
		evt.StartDate = event.ParseWireTime(flagStart)
	}
	if cmd.Flags().Changed("end") {
		evt.EndDate = event.ParseWireTime(flagEnd)
	}
	if cmd.Flags().Changed("category") {
		evt.Categories = flagCategories
	}
	if cmd.Flags().Changed("price") {
		evt.Price = flagPrice
	}
	if cmd.Flags().Changed("rsvp-required") {
		evt.RSVPRequired = flagNeedsRSVP
	}
	if cmd.Flags().Changed("private") {
		evt.Private = flagPrivate
	}

	if flagImage != "" {
		b64, err := encodeImageFile(flagImage)
		if err != nil {
			return err
		}
		if err := a.engine.UpdateWithImage(ctx, evt, b64); err != nil {
			return err
		}
	} else if err := a.engine.Update(ctx, evt); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated event %s\n", evt.ID)
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event (soft delete; the server keeps the row)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.engine.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("loading events: %w", err)
			}
			if err := a.engine.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
			return nil
		},
	}
}

func newLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <event-id>",
		Short: "Toggle your like on an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, args[0], true)
		},
	}
}

func newRSVPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rsvp <event-id>",
		Short: "Toggle your RSVP on an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, args[0], false)
		},
	}
}

func runToggle(cmd *cobra.Command, id string, like bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := a.engine.Refresh(ctx); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	if like {
		err = a.engine.ToggleLike(ctx, id)
	} else {
		err = a.engine.ToggleRSVP(ctx, id)
	}
	if err != nil {
		return err
	}

	evt, _ := a.store.Get(id)
	if like {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: liked=%t, %d likes\n", evt.Title, evt.UserLiked, evt.Likes)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: going=%t, %d RSVPs\n", evt.Title, evt.UserRSVPed, evt.RSVPs)
	}
	return nil
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show your RSVP'd events on a month calendar",
		RunE:  runCalendar,
	}
	cmd.Flags().StringVar(&flagMonth, "month", "", "Month to show, YYYY-MM (default: current)")
	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.engine.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if flagMonth != "" {
		t, err := time.ParseInLocation("2006-01", flagMonth, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --month value: %s (want YYYY-MM)", flagMonth)
		}
		year, month = t.Year(), t.Month()
	}

	proj := calendar.Project(a.store.All(), now)
	return WriteCalendar(cmd.OutOrStdout(), proj, year, month, OutputFormat(flagFormat))
}

func newMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mine [created|attending]",
		Short:     "Show events you created or are attending",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"created", "attending"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.engine.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("loading events: %w", err)
			}

			viewer, _ := a.session.Viewer()
			if viewer == "" {
				return fmt.Errorf("a viewer id is required (set CAMPUS_USER_ID or --user)")
			}

			var events []event.Event
			if args[0] == "created" {
				events = query.CreatedBy(a.store.All(), viewer)
			} else {
				events = query.Attending(a.store.All(), viewer)
			}
			return WriteEvents(cmd.OutOrStdout(), events, OutputFormat(flagFormat))
		},
	}
}

// Execute runs the root command with a background context.
func Execute() int {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		return ExitError
	}
	return ExitSuccess
}
