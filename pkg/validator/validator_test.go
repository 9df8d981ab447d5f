package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type booking struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"oneof=Confirmed Cancelled"`
	Slot   string `json:"slot" validate:"required,slot"`
}

func TestValidateStruct(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterRule("slot", func(value interface{}) bool {
		return value == "09:00"
	}))

	assert.NoError(t, v.Validate(booking{Name: "a", Status: "Confirmed", Slot: "09:00"}))

	err := v.Validate(booking{Status: "Pending", Slot: "07:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "status must be one of [Confirmed Cancelled]")
	assert.Contains(t, err.Error(), "slot failed slot validation")
}

func TestValidateField(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateField("email", "jane@example.com", "required", "email"))

	err := v.ValidateField("email", "not-an-email", "required", "email")
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email", err.Error())

	err = v.ValidateField("status", "Done", "oneof=Confirmed Cancelled")
	require.Error(t, err)
	assert.Equal(t, "status must be one of [Confirmed Cancelled]", err.Error())
}
