package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunMigrations_SkipsWithoutPool(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	err := RunMigrations(context.Background(), nil, "does-not-exist", zap.New(core))
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
}

func TestPing_Unconfigured(t *testing.T) {
	var pg *Postgres
	require.Error(t, pg.Ping(context.Background()))

	var rd *Redis
	require.Error(t, rd.Ping(context.Background()))
}
