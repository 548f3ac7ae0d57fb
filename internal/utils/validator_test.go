package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	Name string `json:"name" validate:"required"`
}

type sampleRequest struct {
	Title string       `json:"title" validate:"required,max=5"`
	Kind  string       `json:"kind" validate:"omitempty,oneof=a b"`
	Items []sampleItem `json:"items" validate:"dive"`
}

func TestValidationFields(t *testing.T) {
	InitValidator()

	err := Validate.Struct(sampleRequest{
		Title: "too long",
		Kind:  "c",
		Items: []sampleItem{{Name: "ok"}, {}},
	})
	require.Error(t, err)

	fields := ValidationFields(err)
	assert.Equal(t, map[string]string{
		"title":         "must be at most 5 characters",
		"kind":          "must be one of: a, b",
		"items[1].name": "this field is required",
	}, fields)

	assert.NoError(t, Validate.Struct(sampleRequest{Title: "soup"}))
	assert.Nil(t, ValidationFields(errors.New("boom")))
}
