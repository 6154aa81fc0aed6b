package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

func probe(connected bool) ConnectionProbe {
	return func(ctx context.Context) bool { return connected }
}

func TestIntegrationService_Status_Google(t *testing.T) {
	svc := NewIntegrationService(probe(true), probe(false), probe(true))
	ctx := context.Background()

	status, err := svc.Status(ctx, "google")

	assert.NoError(t, err)
	assert.Equal(t, "google", status.Name)
	assert.True(t, status.Connected)
}

func TestIntegrationService_Status_Unknown(t *testing.T) {
	svc := NewIntegrationService(probe(true), probe(true), probe(true))

	status, err := svc.Status(context.Background(), "salesforce")

	assert.Nil(t, status)
	assert.True(t, apperror.IsNotFound(err))
}

func TestIntegrationService_StatusAll(t *testing.T) {
	svc := NewIntegrationService(probe(true), probe(false), probe(false))

	out := svc.StatusAll(context.Background())

	assert.Equal(t, map[string]bool{
		IntegrationResend: true,
		IntegrationBrevo:  false,
		IntegrationGoogle: false,
	}, out)
}
