package models

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/desertthunder/songfinder/internal/shared"
)

func TestLookup(t *testing.T) {
	t.Run("New Lookup Is Pending", func(t *testing.T) {
		l := NewLookup("Bodrum Akşamları", SourceHTTP)
		assert.Equal(t, "pending", l.Outcome())
		assert.False(t, l.OK())
		assert.False(t, l.CreatedAt().IsZero())
		assert.ErrorIs(t, l.Validate(), shared.ErrInvalidInput)
	})

	t.Run("Succeed", func(t *testing.T) {
		l := NewLookup("song", SourceCLI)
		l.Succeed("https://p.scdn.co/mp3-preview/abc", 1024)

		assert.True(t, l.OK())
		assert.Equal(t, "success", l.Outcome())
		assert.Equal(t, http.StatusOK, l.Status())
		assert.Equal(t, 1024, l.AudioBytes())
		assert.NoError(t, l.Validate())
	})

	t.Run("Fail With Classified Error", func(t *testing.T) {
		l := NewLookup("song", SourceHTTP)
		l.Fail(shared.NewUpstreamError(http.StatusUnauthorized, "unauthorized, credential should be renewed"))

		assert.False(t, l.OK())
		assert.Equal(t, "upstream_http", l.Outcome())
		assert.Equal(t, http.StatusUnauthorized, l.Status())
		assert.Equal(t, "unauthorized, credential should be renewed", l.ErrorMessage())
		assert.NoError(t, l.Validate())
	})

	t.Run("Fail With Transport Error Stores Gateway Status", func(t *testing.T) {
		l := NewLookup("song", SourceHTTP)
		l.Fail(shared.NewTransportError("dial failed", nil))

		assert.Equal(t, http.StatusBadGateway, l.Status())
		assert.Equal(t, "transport", l.ErrorKind())
	})

	t.Run("Fail With Plain Error", func(t *testing.T) {
		l := NewLookup("song", SourceHTTP)
		l.Fail(errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, l.Status())
		assert.Equal(t, "boom", l.ErrorMessage())
	})

	t.Run("Fail With Nil Is Ignored", func(t *testing.T) {
		l := NewLookup("song", SourceHTTP)
		l.Fail(nil)
		assert.Equal(t, "pending", l.Outcome())
	})

	t.Run("Validate", func(t *testing.T) {
		empty := NewLookup("  ", SourceHTTP)
		empty.Succeed("u", 0)
		assert.ErrorIs(t, empty.Validate(), shared.ErrInvalidInput)

		unknown := NewLookup("song", Source("cron"))
		unknown.Succeed("u", 0)
		assert.ErrorIs(t, unknown.Validate(), shared.ErrInvalidInput)
	})
}
