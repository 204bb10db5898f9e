package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}
	s, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, config.StorageDriverMemory, s.Driver)
	assert.IsType(t, &memory.SweetRepo{}, s.Sweets)
	assert.IsType(t, &memory.UserRepo{}, s.Users)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
