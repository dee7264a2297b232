package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speters/ut181a/pkg/config"
	"github.com/speters/ut181a/pkg/ut181a"
)

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8181", listenAddr("8181"))
	assert.Equal(t, ":8181", listenAddr(":8181"))
	assert.Equal(t, "127.0.0.1:9000", listenAddr("127.0.0.1:9000"))
}

func TestServeWithoutDevice(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Bridge.Advertise = false
	err := serve(context.Background(), cfg)
	assert.ErrorIs(t, err, ut181a.ErrDeviceNotFound)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Bridge.Advertise = false
	cfg.Bridge.Listen = "127.0.0.1:0"
	cfg.Bridge.Device = "sim://bench"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, cfg))
}
