package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chatroom-service/internal/config"
	"chatroom-service/internal/models"
	"chatroom-service/internal/repositories"
)

// chat-history prints the stored log of one room using the same
// STORE_BACKEND and DB_DSN settings as the server.
func main() {
	room := flag.String("room", "", "Room id to print")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	if *room == "" {
		fmt.Fprintln(os.Stderr, "usage: chat-history -room <room_id>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	store, err := repositories.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("message store unavailable")
	}
	defer store.Close()

	msgs, err := store.List(ctx, *room)
	if err != nil {
		log.Fatal().Err(err).Str("room_id", *room).Msg("list messages")
	}
	render(os.Stdout, msgs)
}

func render(w io.Writer, msgs []models.Message) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Time", "Timestamp", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, msg := range msgs {
		sec := int64(msg.Timestamp)
		nsec := int64((msg.Timestamp - float64(sec)) * 1e9)
		table.Append([]string{
			strconv.Itoa(i + 1),
			time.Unix(sec, nsec).UTC().Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(msg.Timestamp, 'f', 6, 64),
			msg.Text,
		})
	}
	table.Render()
}
