package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-excavation/internal/eventbus"
)

// event-tap подключается к NATS JetStream и печатает события вокселей.
// Удобен для отладки внешних коллабораторов: видно, что именно публикует ядро.
func main() {
	url := flag.String("url", "nats://127.0.0.1:4222", "адрес NATS")
	stream := flag.String("stream", "VOXEL", "имя стрима JetStream")
	eventType := flag.String("type", "", "фильтр по типу события (пусто — все)")
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*url, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("Ошибка подключения к NATS: %v", err)
	}
	defer bus.Close()

	filter := eventbus.Filter{}
	if *eventType != "" {
		filter.Types = []string{*eventType}
	}

	sub, err := bus.Subscribe(context.Background(), filter, func(ctx context.Context, ev *eventbus.Envelope) {
		fmt.Printf("%s  %-14s  src=%s  %s\n",
			ev.Timestamp.Format(time.RFC3339), ev.EventType, ev.Source, string(ev.Payload))
	})
	if err != nil {
		log.Fatalf("Ошибка подписки: %v", err)
	}
	defer sub.Unsubscribe()

	fmt.Printf("Слушаем %s (stream=%s)… Ctrl+C для выхода\n", *url, *stream)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
