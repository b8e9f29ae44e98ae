package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	store map[string]any
}

func (c *fakeContext) Chat() *tele.Chat { return &tele.Chat{ID: 7} }
func (c *fakeContext) Get(key string) any { return c.store[key] }
func (c *fakeContext) Set(key string, val any) { c.store[key] = val }

func TestLogger(t *testing.T) {
	c := &fakeContext{store: map[string]any{}}
	wantErr := errors.New("handler failed")

	var seen string
	handler := Logger()(func(c tele.Context) error {
		seen, _ = c.Get("rqID").(string)
		return wantErr
	})

	err := handler(c)
	require.ErrorIs(t, err, wantErr)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, c.store["rqID"])
}
