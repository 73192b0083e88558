package earnings

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalError(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := NewRetrievalError("AAPL", StageNavigate, cause)

	assert.Equal(t, "retrieve AAPL: navigate: net::ERR_NAME_NOT_RESOLVED", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StageNavigate, StageOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, Stage(""), StageOf(cause))

	noCause := NewRetrievalError("MSFT", StageRender, nil)
	assert.Equal(t, "retrieve MSFT: render failed", noCause.Error())

	var nilErr *RetrievalError
	assert.Equal(t, "unknown retrieval error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}
