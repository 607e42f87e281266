package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"sylva/internal/command"
	"sylva/internal/logging"
	"sylva/internal/render"
	"sylva/internal/services"
	"sylva/internal/treehollow"
)

// Options configures a Dispatcher.
type Options struct {
	API      API
	Renderer *render.Renderer
	// History may be nil when the history store is disabled.
	History  HistoryReader
	ImageDir string
	Logger   *slog.Logger
	Debug    bool
}

// Dispatcher executes commands.
type Dispatcher struct {
	api      API
	render   *render.Renderer
	history  HistoryReader
	imageDir string
	logger   *slog.Logger
	debug    bool
}

// New constructs a Dispatcher.
func New(opts Options) *Dispatcher {
	imageDir := opts.ImageDir
	if imageDir == "" {
		imageDir = "images"
	}
	return &Dispatcher{
		api:      opts.API,
		render:   opts.Renderer,
		history:  opts.History,
		imageDir: imageDir,
		logger:   logging.NewComponentLogger(opts.Logger, "dispatch"),
		debug:    opts.Debug,
	}
}

// Debug reports whether diagnostic output is enabled.
func (d *Dispatcher) Debug() bool { return d.debug }

// SetDebug switches diagnostic output.
func (d *Dispatcher) SetDebug(on bool) { d.debug = on }

// Execute runs cmd.
func (d *Dispatcher) Execute(ctx context.Context, cmd command.Command) error {
	if cmd == nil {
		return nil
	}
	ctx = services.WithCommand(ctx, cmd.Name())
	logger := logging.WithContext(ctx, d.logger)

	switch c := cmd.(type) {
	case command.Empty:
		return nil
	case command.Create:
		return d.create(ctx, c)
	case command.Reply:
		return d.reply(ctx, c)
	case command.Follow:
		resp, err := d.api.FollowHole(ctx, c.PID)
		if err != nil {
			return err
		}
		if err := classifyWrite(resp); err != nil {
			return err
		}
		return d.render.Printf("followed #%s", c.PID)
	case command.Unfollow:
		resp, err := d.api.UnfollowHole(ctx, c.PID)
		if err != nil {
			return err
		}
		if err := classifyWrite(resp); err != nil {
			return err
		}
		return d.render.Printf("unfollowed #%s", c.PID)
	case command.Hole:
		return d.showHole(ctx, c.PID, c.Filter)
	case command.List:
		return d.list(ctx, logger, c)
	case command.Vote:
		resp, err := d.api.SendVote(ctx, c.PID, c.Option)
		if err != nil {
			return err
		}
		if err := classifyRead(resp); err != nil {
			return err
		}
		var vote treehollow.Vote
		if err := resp.Decode(&vote); err != nil {
			return services.Wrap(services.ErrUnexpectedResponse, "dispatch", "vote", "decode poll", err)
		}
		return d.render.Poll(&vote)
	case command.Devices:
		resp, err := d.api.Devices(ctx)
		if err != nil {
			return err
		}
		devices, err := decodeRead[treehollow.Device](resp, "devices", "data")
		if err != nil {
			return err
		}
		return d.render.Devices(devices)
	case command.Kick:
		resp, err := d.api.KickDevice(ctx, c.UUID)
		if err != nil {
			return err
		}
		if err := classifyWrite(resp); err != nil {
			return err
		}
		return d.render.Printf("device %s logged out", c.UUID)
	case command.Image:
		return d.images(ctx, logger, c.PID)
	case command.Report:
		resp, err := d.api.ReportHole(ctx, c.PID, c.Reason)
		if err != nil {
			return err
		}
		if err := classifyWrite(resp); err != nil {
			return err
		}
		return d.render.Printf("reported #%s", c.PID)
	case command.Notifications:
		resp, err := d.api.Notifications(ctx)
		if err != nil {
			return err
		}
		items, err := decodeRead[treehollow.Notification](resp, "notifications", "data")
		if err != nil {
			return err
		}
		return d.render.Notifications(items)
	case command.Messages:
		resp, err := d.api.SystemMessages(ctx)
		if err != nil {
			return err
		}
		items, err := decodeRead[treehollow.Notification](resp, "messages", "notifications", "data")
		if err != nil {
			return err
		}
		return d.render.Notifications(items)
	case command.Read:
		resp, err := d.api.ReadNotifications(ctx)
		if err != nil {
			return err
		}
		if err := classifyWrite(resp); err != nil {
			return err
		}
		return d.render.Printf("notifications marked as read")
	case command.Hollows:
		resp, err := d.api.ListHollows(ctx)
		if err != nil {
			return err
		}
		items, err := decodeRead[map[string]any](resp, "hollows", "data")
		if err != nil {
			return err
		}
		return d.render.Hollows(items)
	case command.History:
		if d.history == nil {
			return d.render.Printf("history is disabled")
		}
		entries, err := d.history.Recent(ctx, c.Limit)
		if err != nil {
			return err
		}
		return d.render.History(entries)
	case command.Debug:
		on := !d.debug
		if c.Set != nil {
			on = *c.Set
		}
		d.debug = on
		return d.render.Printf("debug mode %s", onOff(on))
	case command.Help:
		return d.render.Help(command.Grammar(), c.Topic)
	default:
		return &services.UnknownCommandError{Tokens: []string{cmd.Name()}}
	}
}

func (d *Dispatcher) create(ctx context.Context, c command.Create) error {
	resp, err := d.api.CreateHole(ctx, c.Content, c.HID, c.Tag)
	if err != nil {
		return err
	}
	if err := classifyWrite(resp); err != nil {
		return err
	}
	var created struct {
		PID treehollow.ID `json:"pid"`
	}
	if resp.Decode(&created) == nil && created.PID != 0 {
		return d.render.Printf("hole #%s created", created.PID)
	}
	return d.render.Printf("hole created")
}

func (d *Dispatcher) reply(ctx context.Context, c command.Reply) error {
	resp, err := d.api.CreateReply(ctx, c.PID, c.Content, c.CID)
	if err != nil {
		return err
	}
	if err := classifyWrite(resp); err != nil {
		return err
	}
	return d.showHole(ctx, c.PID, c.Filter)
}

func (d *Dispatcher) fetchHole(ctx context.Context, pid treehollow.ID) (*treehollow.Hole, error) {
	resp, err := d.api.GetHole(ctx, pid)
	if err != nil {
		return nil, err
	}
	if err := classifyRead(resp); err != nil {
		return nil, err
	}
	var hole treehollow.Hole
	if err := resp.Decode(&hole); err != nil {
		return nil, services.Wrap(services.ErrUnexpectedResponse, "dispatch", "hole", "decode hole", err)
	}
	return &hole, nil
}

func (d *Dispatcher) showHole(ctx context.Context, pid treehollow.ID, filter command.Filter) error {
	hole, err := d.fetchHole(ctx, pid)
	if err != nil {
		return err
	}
	ct := d.render.NewContentTable()
	ct.AddHole(hole)
	cites := CitationIndex(hole.Replies)
	replies := FilterReplies(hole.Replies, filter)
	for i := range replies {
		if err := ct.AddReply(&replies[i], cites); err != nil {
			return err
		}
	}
	return ct.Render()
}

func (d *Dispatcher) list(ctx context.Context, logger *slog.Logger, c command.List) error {
	resp, err := d.api.ListHoles(ctx, c.Options)
	if err != nil {
		return err
	}
	holes, err := decodeRead[treehollow.Hole](resp, "holes", "data")
	if err != nil {
		return err
	}
	if len(c.OnlyWhich) > 0 {
		var missing int
		holes, missing = FilterHoles(holes, c.OnlyWhich)
		if missing > 0 {
			logger.Warn("holes without a school name were excluded by onlyWhich",
				logging.Int("excluded", missing),
				logging.String("hint", "older posts predate school names"),
			)
		}
	}
	if len(holes) == 0 {
		return d.render.Printf("no holes")
	}
	ct := d.render.NewContentTable()
	for i := range holes {
		ct.AddHole(&holes[i])
	}
	return ct.Render()
}

func (d *Dispatcher) images(ctx context.Context, logger *slog.Logger, pid treehollow.ID) error {
	hole, err := d.fetchHole(ctx, pid)
	if err != nil {
		return err
	}
	var sources []string
	if hole.Image != nil && hole.Image.Src != "" {
		sources = append(sources, hole.Image.Src)
	}
	for _, r := range hole.Replies {
		if r.Image != nil && r.Image.Src != "" {
			sources = append(sources, r.Image.Src)
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("hole %s has no images", pid)
	}

	dir := filepath.Join(d.imageDir, pid.String())
	for _, src := range sources {
		resp, path, err := d.api.DownloadImage(ctx, src, dir)
		if err != nil {
			return err
		}
		if err := classifyWrite(resp); err != nil {
			return err
		}
		logger.Debug("image saved", logging.Int64(logging.FieldPID, int64(pid)), logging.String("path", path))
		if err := d.render.Printf("image saved to %s", path); err != nil {
			return err
		}
	}
	return nil
}

func decodeRead[T any](resp *treehollow.Response, keys ...string) ([]T, error) {
	if err := classifyRead(resp); err != nil {
		return nil, err
	}
	items, err := treehollow.DecodeList[T](resp, keys...)
	if err != nil {
		return nil, services.Wrap(services.ErrUnexpectedResponse, "dispatch", resp.Operation, "decode list", err)
	}
	return items, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
