package events

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/tankarena/telemetry"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	s, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go s.Start()
	if !s.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(s.Shutdown)
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishMatchEvents(t *testing.T) {
	s := runServer(t)

	sub, err := nats.Connect(s.ClientURL())
	require.NoError(t, err)
	defer sub.Close()

	msgs := make(chan *nats.Msg, 8)
	_, err = sub.ChanSubscribe("tankarena.g1.>", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p, err := Connect(s.ClientURL(), "tankarena", "g1", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "tankarena.g1", p.Subject())

	p.Emit(telemetry.NewShotEvent(5, 0, 0, 64, 32))
	p.Emit(telemetry.NewMatchEndEvent(90, 1, 1, "loss"))
	require.NoError(t, p.Close())

	want := []struct {
		subject string
		typ     telemetry.EventType
	}{
		{"tankarena.g1.shot", telemetry.EventShot},
		{"tankarena.g1.match_end", telemetry.EventMatchEnd},
	}
	for _, w := range want {
		select {
		case msg := <-msgs:
			assert.Equal(t, w.subject, msg.Subject)
			var ev telemetry.Event
			require.NoError(t, json.Unmarshal(msg.Data, &ev))
			assert.Equal(t, w.typ, ev.Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("no message for %s", w.subject)
		}
	}
}

func TestDisabledPublisher(t *testing.T) {
	p, err := Connect("", "tankarena", "g1", nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	// A nil publisher is a valid sink.
	var sink telemetry.Sink = p
	sink.Emit(telemetry.NewShotEvent(1, 0, 0, 0, 0))
	assert.NoError(t, p.Close())
	assert.Equal(t, "", p.Subject())
}

func TestConnectFailure(t *testing.T) {
	s := runServer(t)
	url := s.ClientURL()
	s.Shutdown()

	_, err := Connect(url, "tankarena", "g1", quietLogger())
	assert.Error(t, err)
}
