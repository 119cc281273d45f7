package management

import (
	"context"
	"testing"

	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/phone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNormalizesInput(t *testing.T) {
	ctx := context.Background()
	stores := repository.NewMemoryStore().Stores()
	svc := New(stores.Leads, phone.NewNormalizer("US"))

	lead, err := svc.Create(ctx, transport.CreateLeadRequest{
		FirstName:   "  <b>Ada</b> ",
		LastName:    "Lovelace",
		Email:       " ada@example.com ",
		Phone:       "(650) 253-0000",
		Description: "<p>Met at the expo.</p>",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "Ada", lead.FirstName)
	assert.Equal(t, "ada@example.com", lead.Email)
	assert.Equal(t, "+16502530000", lead.Phone)
	assert.Equal(t, "Met at the expo.", lead.Description)
	assert.False(t, lead.IsConverted)

	stored, err := svc.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, stored.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := New(repository.NewMemoryStore().Stores().Leads, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
