package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCollectionInput(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(domain.CreateCollectionInput{Name: "Groceries", Color: domain.ColorCandy}))

	tests := []struct {
		name  string
		input domain.CreateCollectionInput
		field string
	}{
		{"EmptyName", domain.CreateCollectionInput{Color: domain.ColorCandy}, "name"},
		{"EmptyColor", domain.CreateCollectionInput{Name: "Groceries"}, "color"},
		{"UnknownColor", domain.CreateCollectionInput{Name: "Groceries", Color: "mauve"}, "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			var verr *validation.Error
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestCreateTaskInput(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(domain.CreateTaskInput{CollectionID: 0, Content: "12345678"}))

	t.Run("ContentTooShort", func(t *testing.T) {
		err := v.Validate(domain.CreateTaskInput{CollectionID: 1, Content: "1234567"})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "at least 8 characters"))
	})

	t.Run("NegativeCollection", func(t *testing.T) {
		err := v.Validate(domain.CreateTaskInput{CollectionID: -1, Content: "Buy some milk"})
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "collection_id", verr.Fields[0].Field)
	})
}
