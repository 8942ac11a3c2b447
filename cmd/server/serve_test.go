package main

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrate_ConnectsBeforeMigrating(t *testing.T) {
	var steps []string
	attempts := 0
	connect := func(context.Context) (*pgxpool.Pool, error) {
		attempts++
		steps = append(steps, "connect")
		return nil, nil
	}
	up := func(context.Context, *pgxpool.Pool) error {
		steps = append(steps, "migrate")
		return nil
	}

	_, err := connectAndMigrate(context.Background(), connect, up)
	require.NoError(t, err)
	assert.Equal(t, []string{"connect", "migrate"}, steps)
	assert.Equal(t, 1, attempts)
}

func TestConnectAndMigrate_NoMigrationWithoutDatabase(t *testing.T) {
	migrated := false
	connect := func(context.Context) (*pgxpool.Pool, error) {
		return nil, errors.New("unable to connect to database after 5 attempts")
	}
	up := func(context.Context, *pgxpool.Pool) error {
		migrated = true
		return nil
	}

	_, err := connectAndMigrate(context.Background(), connect, up)
	require.Error(t, err)
	assert.False(t, migrated)
}

func TestConnectAndMigrate_MigrationError(t *testing.T) {
	connect := func(context.Context) (*pgxpool.Pool, error) { return nil, nil }
	up := func(context.Context, *pgxpool.Pool) error { return errors.New("migrate up: bad sql") }

	pool, err := connectAndMigrate(context.Background(), connect, up)
	assert.EqualError(t, err, "migrate up: bad sql")
	assert.Nil(t, pool)
}
