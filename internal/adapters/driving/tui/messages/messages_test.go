package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/finder/internal/core/domain"
)

func TestLineCopied(t *testing.T) {
	loc := domain.Location{Path: "README.md", Line: 3}

	t.Run("success", func(t *testing.T) {
		msg := LineCopied{Location: loc}
		assert.Equal(t, loc, msg.Location)
		assert.NoError(t, msg.Err)
	})

	t.Run("failure", func(t *testing.T) {
		err := errors.New("no clipboard")
		msg := LineCopied{Location: loc, Err: err}
		assert.ErrorIs(t, msg.Err, err)
	})
}

func TestEditorFinished(t *testing.T) {
	err := errors.New("exit status 1")
	msg := EditorFinished{Location: domain.Location{Path: "a.md", Line: 1}, Err: err}

	assert.Equal(t, "a.md", msg.Location.Path)
	assert.ErrorIs(t, msg.Err, err)
}

func TestErrorOccurred(t *testing.T) {
	err := errors.New("boom")
	msg := ErrorOccurred{Err: err}

	assert.Equal(t, "boom", msg.Err.Error())
}
