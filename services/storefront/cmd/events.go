package main

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/rabbitmq"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Доменные события заказов",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Выводить события из exchange до прерывания",
	RunE: func(cmd *cobra.Command, args []string) error {
		bindingKey, _ := cmd.Flags().GetString("binding-key")
		queue, _ := cmd.Flags().GetString("queue")

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cfg.RabbitMQ.URL == "" {
			return errors.InvalidArgument("rabbitmq.url is not configured")
		}

		rabbitConfig := rabbitmq.FromAppConfig(cfg.RabbitMQ)
		conn, err := rabbitmq.Connect(cmd.Context(), rabbitConfig)
		if err != nil {
			return err
		}
		defer conn.Close()

		out := cmd.OutOrStdout()
		consumer := rabbitmq.NewConsumer(conn, rabbitConfig, log)
		err = consumer.Consume(cmd.Context(), queue, bindingKey, func(_ context.Context, msg amqp091.Delivery) error {
			_, err := fmt.Fprintf(out, "%s %s\n", msg.RoutingKey, msg.Body)
			return err
		})
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	eventsTailCmd.Flags().String("binding-key", "#", "routing key pattern")
	eventsTailCmd.Flags().String("queue", "", "durable queue name (temporary queue when empty)")

	eventsCmd.AddCommand(eventsTailCmd)
}
