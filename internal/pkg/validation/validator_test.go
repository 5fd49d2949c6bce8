package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	type input struct {
		Endpoint string `validate:"required,url"`
		Accounts []string `validate:"required,min=1"`
	}

	t.Run("valid struct", func(t *testing.T) {
		err := Validate(input{
			Endpoint: "https://api.mainnet-beta.solana.com",
			Accounts: []string{"BTDXiRzG1QBP7bfK4A33RcSP5mmZx8mGJ9YC5maetoD6"},
		})
		assert.NoError(t, err)
	})

	t.Run("missing required fields", func(t *testing.T) {
		err := Validate(input{})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "'Endpoint'")
		assert.Contains(t, err.Error(), "'Accounts'")
	})

	t.Run("single field violation", func(t *testing.T) {
		err := Validate(input{
			Endpoint: "not a url",
			Accounts: []string{"BTDXiRzG1QBP7bfK4A33RcSP5mmZx8mGJ9YC5maetoD6"},
		})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "'url' validation")
	})
}
