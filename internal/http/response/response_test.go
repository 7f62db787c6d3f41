package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	resp := Error("boom")
	assert.False(t, resp.Success)
	assert.Equal(t, "boom", resp.Message)

	b, err := json.Marshal(OK())
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(b))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, http.StatusConflict, "payment already refunded")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"payment already refunded"}`, rec.Body.String())
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Res   string `validate:"oneof=full partial none"`
		ID    string `validate:"uuid"`
	}
	err := validator.New().Struct(req{Res: "some", ID: "x"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "field Email is a required field")
	assert.Contains(t, resp.Message, "field Res must be one of: full partial none")
	assert.Contains(t, resp.Message, "field ID can contain only uuid")
}
