package utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCtxWithRqID(t *testing.T) {
	assert.Empty(t, GetRequestIDFromCtx(context.Background()))

	ctx := NewCtxWithRqID(context.Background())
	rqID := GetRequestIDFromCtx(ctx)
	_, err := uuid.Parse(rqID)
	require.NoError(t, err)

	other := GetRequestIDFromCtx(NewCtxWithRqID(context.Background()))
	assert.NotEqual(t, rqID, other)
}
