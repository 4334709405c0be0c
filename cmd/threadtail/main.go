// threadtail joins a complaint's realtime room and prints its events as
// they arrive. It is an operator tool for watching a discussion live
// without opening the app.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"dwellfix/threads/internal/config"
	"dwellfix/threads/internal/identity"
	"dwellfix/threads/internal/realtime"
)

func main() {
	app := &cli.App{
		Name:  "threadtail",
		Usage: "tail a complaint's discussion room in real time",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "complaint",
				Aliases:  []string{"c"},
				Usage:    "complaint id whose room to join",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "redis-url",
				Usage: "redis URL (overrides DWELLFIX_REDIS_URL)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: tail,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("threadtail failed")
	}
}

func tail(c *cli.Context) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	redisURL := cfg.Redis.URL
	if c.String("redis-url") != "" {
		redisURL = c.String("redis-url")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil && !c.Bool("verbose") {
		zerolog.SetGlobalLevel(lvl)
	}

	broker, err := realtime.NewRedisBroker(redisURL)
	if err != nil {
		return err
	}
	defer broker.Close()

	complaintID := c.String("complaint")
	resolver := identity.NewResolver()
	viewer := identity.Actor{} // tail has no session; authors resolve to their own profiles or Unknown

	manager := realtime.NewManager(broker)
	err = manager.Subscribe(c.Context, complaintID, func(ev realtime.Event) {
		switch ev.Event {
		case realtime.EventCommentAdded:
			who := resolver.Resolve(ev.Comment.Author, viewer)
			fmt.Printf("[%s] comment %s by %s: %s\n",
				ev.Comment.CreatedAt.Format("15:04:05"), ev.Comment.ID, who.DisplayName, ev.Comment.Text)
		case realtime.EventReplyAdded:
			who := resolver.Resolve(ev.Reply.Author, viewer)
			fmt.Printf("[%s]   reply %s -> %s by %s: %s\n",
				ev.Reply.CreatedAt.Format("15:04:05"), ev.Reply.ID, ev.ParentCommentID, who.DisplayName, ev.Reply.Text)
		}
	})
	if err != nil {
		return err
	}
	defer manager.Close()

	log.Info().Str("complaint", complaintID).Msg("tailing room, ctrl-c to stop")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
