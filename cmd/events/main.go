// Command events tails the activity events forwarded to NATS.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"synthmind-be/internal/config"
	"synthmind-be/pkg/events"
	"synthmind-be/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	url := flag.String("url", cfg.Events.NatsURL, "NATS server URL")
	eventType := flag.String("type", "", "only show this event type (e.g. USER_LOGGED_IN)")
	durable := flag.String("durable", "", "durable consumer name; empty tails new events only")
	flag.Parse()

	if *url == "" {
		log.Fatal("NATS URL is required (set NATS_URL or -url)")
	}

	subject := nats.SubjectPrefix + ">"
	if *eventType != "" {
		subject = nats.Subject(*eventType)
	}

	sub, err := nats.NewSubscriber(*url)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sub.Subscribe(ctx, subject, *durable, printEvent); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	color.Cyan("Tailing %s on %s (Ctrl+C to stop)\n", subject, *url)
	<-ctx.Done()
}

func printEvent(_ context.Context, evt events.BaseEvent) error {
	keys := make([]string, 0, len(evt.Data))
	for k := range evt.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s=%v", k, evt.Data[k])
	}

	ts := evt.OccurredAt.Format("15:04:05.000")
	typeColor(evt.Type).Printf("%s %-20s", ts, evt.Type)
	fmt.Printf(" %s\n", strings.Join(fields, " "))
	return nil
}

func typeColor(eventType string) *color.Color {
	switch eventType {
	case events.GuestBlocked:
		return color.New(color.FgYellow)
	case events.UserRegistered, events.UserLoggedIn:
		return color.New(color.FgGreen)
	case events.UserLoggedOut:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}
