package valueobject_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

func TestNewAmortizationType(t *testing.T) {
	sac, err := valueobject.NewAmortizationType("SAC")
	require.NoError(t, err)
	assert.True(t, sac.Equal(valueobject.AmortizationSAC))

	price, err := valueobject.NewAmortizationType("PRICE")
	require.NoError(t, err)
	assert.Equal(t, "PRICE", price.String())

	_, err = valueobject.NewAmortizationType("sac")
	require.Error(t, err)

	assert.True(t, valueobject.AmortizationType{}.IsZero())
}

func TestAmortizationTypesOrder(t *testing.T) {
	types := valueobject.AmortizationTypes()
	require.Len(t, types, 2)
	assert.Equal(t, valueobject.AmortizationSAC, types[0])
	assert.Equal(t, valueobject.AmortizationPRICE, types[1])
}

func TestValidationError(t *testing.T) {
	assert.Nil(t, valueobject.NewValidationError(nil))

	verr := valueobject.NewValidationError([]valueobject.Violation{
		{Field: "value", Message: "must be greater than zero"},
		{Field: "term", Message: "must be at most 420"},
	})
	require.NotNil(t, verr)
	assert.True(t, verr.HasField("term"))
	assert.False(t, verr.HasField("page"))
	assert.Equal(t, "validation failed: value: must be greater than zero; term: must be at most 420", verr.Error())

	wrapped := fmt.Errorf("create simulation: %w", verr)
	var target *valueobject.ValidationError
	require.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Violations, 2)
}
