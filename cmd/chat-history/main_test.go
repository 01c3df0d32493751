package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"chatroom-service/internal/models"
)

func TestRenderPrintsMessagesInOrder(t *testing.T) {
	var buf bytes.Buffer
	render(&buf, []models.Message{
		{Timestamp: 1700000000.25, Text: "**alice:** hi"},
		{Timestamp: 1700000001.5, Text: "**bob:** hey"},
	})

	out := buf.String()
	assert.Contains(t, out, "2023-11-14 22:13:20")
	assert.Contains(t, out, "1700000000.250000")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("alice")), bytes.Index(buf.Bytes(), []byte("bob")))
}
