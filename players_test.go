package main

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/tankarena/agent"
	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/bot"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/game"
	"github.com/pthm-cable/tankarena/input"
	"github.com/pthm-cable/tankarena/sparring"
)

func init() {
	config.MustInit("")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMap(t *testing.T) *arena.Map {
	t.Helper()
	m, err := arena.Default()
	require.NoError(t, err)
	return m
}

func TestParsePlayer(t *testing.T) {
	tests := []struct {
		in      string
		want    playerSpec
		wantErr bool
	}{
		{"", playerSpec{kind: kindIdle}, false},
		{"idle", playerSpec{kind: kindIdle}, false},
		{"bot", playerSpec{kind: kindBot}, false},
		{"wasd", playerSpec{kind: kindKeyboard, layout: "wasd"}, false},
		{"arrow", playerSpec{kind: kindKeyboard, layout: "arrow"}, false},
		{"127.0.0.1:5000", playerSpec{kind: kindAgent, addr: "127.0.0.1:5000"}, false},
		{"http://bot:9000", playerSpec{kind: kindAgent, addr: "http://bot:9000"}, false},
		{"gamepad", playerSpec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePlayer(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildControllersRejectsKeyboardHeadless(t *testing.T) {
	specs := [game.Players]playerSpec{{kind: kindKeyboard, layout: "wasd"}, {kind: kindIdle}}
	_, _, err := buildControllers(context.Background(), config.Cfg(), testMap(t), specs, "g", true, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window")
}

func TestBuildControllers(t *testing.T) {
	srv := httptest.NewServer(sparring.NewServer(quietLogger()).Handler())
	defer srv.Close()

	specs := [game.Players]playerSpec{
		{kind: kindKeyboard, layout: "arrow"},
		{kind: kindAgent, addr: strings.TrimPrefix(srv.URL, "http://")},
	}
	ctrls, clients, err := buildControllers(context.Background(), config.Cfg(), testMap(t), specs, "g", false, quietLogger())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	defer clients[0].Close()

	kb, ok := ctrls[0].(*input.Keyboard)
	require.True(t, ok, "player 1 should be a keyboard")
	assert.Equal(t, "arrow", kb.Layout.Name)

	_, ok = ctrls[1].(*agent.Client)
	assert.True(t, ok, "player 2 should be an agent client")
}

func TestBuildControllersBotHeadless(t *testing.T) {
	specs := [game.Players]playerSpec{{kind: kindBot}, {kind: kindIdle}}
	ctrls, clients, err := buildControllers(context.Background(), config.Cfg(), testMap(t), specs, "g", true, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, clients)
	_, ok := ctrls[0].(*bot.Hunter)
	assert.True(t, ok, "player 1 should be a hunter bot")
}

func TestBuildControllersUnreachableAgent(t *testing.T) {
	specs := [game.Players]playerSpec{{kind: kindIdle}, {kind: kindAgent, addr: "127.0.0.1:1"}}
	_, _, err := buildControllers(context.Background(), config.Cfg(), testMap(t), specs, "g", true, quietLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrRegistration)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "idle", playerSpec{kind: kindIdle}.label())
	assert.Equal(t, "wasd", playerSpec{kind: kindKeyboard, layout: "wasd"}.label())
	assert.Equal(t, "host:1", playerSpec{kind: kindAgent, addr: "host:1"}.label())
	assert.Equal(t, "bot", playerSpec{kind: kindBot}.label())
}
