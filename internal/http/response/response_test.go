package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"role": "member"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error(MsgForbidden)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "forbidden access", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Code   string `validate:"required,alphanum"`
		Status string `validate:"oneof=checked rejected"`
		Email  string `validate:"email"`
	}

	err := validator.New().Struct(request{Code: "!!!", Status: "approved", Email: "nope"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Code can contain only numbers and letters")
	assert.Contains(t, resp.Error, "field Status must be one of [checked rejected]")
	assert.Contains(t, resp.Error, "field Email must be a valid email")
}

func TestValidationErrorRequired(t *testing.T) {
	type request struct {
		ApartmentID string `validate:"required"`
	}

	err := validator.New().Struct(request{})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field ApartmentID is a required field")
}
