package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PigSoilPlus/pigsoil-notify/store"
)

func TestGetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("pigsoil_notifications").SetVal(`[{"id":"n1"}]`)

	s := New(client)
	got, err := s.Get(context.Background(), "pigsoil_notifications")

	require.NoError(t, err)
	assert.Equal(t, `[{"id":"n1"}]`, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissTranslatesToNotFound(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("pigsoil_notifications").RedisNil()

	s := New(client)
	_, err := s.Get(context.Background(), "pigsoil_notifications")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetWithoutExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectSet("pigsoil_notifications", `[]`, 0).SetVal("OK")

	s := New(client)
	err := s.Set(context.Background(), "pigsoil_notifications", `[]`)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorsAreWrapped(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("k").SetErr(assert.AnError)

	s := New(client)
	_, err := s.Get(context.Background(), "k")

	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
