package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		code    Code
		message string
	}{
		{
			name:    "config with cause",
			err:     NewConfigError("invalid configuration", errors.New("workers must be positive")),
			code:    CodeConfigInvalid,
			message: "[CONFIG_INVALID] invalid configuration: workers must be positive",
		},
		{
			name:    "workbook open",
			err:     NewWorkbookOpenError("in.xlsx", os.ErrNotExist),
			code:    CodeWorkbookOpenFailed,
			message: "[WORKBOOK_OPEN_FAILED] failed to open workbook: file does not exist",
		},
		{
			name:    "workbook save",
			err:     NewWorkbookSaveError("out.xlsx", os.ErrPermission),
			code:    CodeWorkbookSaveFailed,
			message: "[WORKBOOK_SAVE_FAILED] failed to save workbook: permission denied",
		},
		{
			name:    "workbook invalid without cause",
			err:     NewWorkbookInvalidError("sheet not found", nil),
			code:    CodeWorkbookInvalid,
			message: "[WORKBOOK_INVALID] sheet not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.code, CodeOf(fmt.Errorf("run: %w", tt.err)))
		})
	}
}

func TestAppError_UnwrapAndContext(t *testing.T) {
	err := NewWorkbookOpenError("in.xlsx", os.ErrNotExist)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "in.xlsx", err.Context["path"])

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &appErr))
	assert.Same(t, err, appErr)
}

func TestCodeOf_Plain(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestErrorResponseRender(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)

	require.NoError(t, render.Render(rec, req, NewErrorResponse(ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Error.ErrorCode)
	assert.Equal(t, "Resource not found", body.Error.Error())
}
