package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chat-session/config"
	"chat-session/eventbus"
	"chat-session/events"
)

var eventsGroupID string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail chat lifecycle events from Kafka",
	Args:  cobra.NoArgs,
	// 이벤트 감시는 채팅 서비스가 필요 없다.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		config.InitApp()
		cfg := config.GetConfig()

		brokers, err := eventbus.GetBrokers()
		if err != nil {
			return err
		}
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			return err
		}
		defer bus.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		err = bus.Subscribe(ctx, eventsGroupID, cfg.Events.Topic, func(ctx context.Context, evt eventbus.Event) error {
			return printEvent(out, evt)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsGroupID, "group", "chatctl-events", "Kafka consumer group id")
	rootCmd.AddCommand(eventsCmd)
}

// printEvent 는 payload 의 envelope 타입으로 이벤트를 디코딩한다.
// 헤더 타입이 있으면 envelope 와 일치해야 한다.
func printEvent(out io.Writer, evt eventbus.Event) error {
	base, err := eventbus.DecodeJSON[events.BaseEvent](evt)
	if err != nil {
		return err
	}
	if evt.Type != "" && evt.Type != string(base.Type) {
		return fmt.Errorf("event %s: header type %q does not match payload type %q", evt.ID, evt.Type, base.Type)
	}
	decoded, err := events.DeserializeEvent(base.Type, evt.Payload)
	if err != nil {
		return err
	}
	line, err := json.Marshal(decoded)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s %s\n", base.Type, line)
	return err
}
