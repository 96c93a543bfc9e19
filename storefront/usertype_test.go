package storefront

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/api"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

func TestCanonicalUserType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Modular Kitchen", TypeModularKitchen},
		{"modular-kitchen", TypeModularKitchen},
		{"MODULAR+KITCHEN", TypeModularKitchen},
		{"modular", TypeModularKitchen},
		{"modular_kitchen", TypeModularKitchen},
		{"  modular   kitchen  ", TypeModularKitchen},
		{"residential", TypeResidential},
		{"Commercial", TypeCommercial},
		{"COMMERCIAL", TypeCommercial},
		{"others", TypeOthers},
		{"Other", TypeOthers},
		{"", TypeResidential},
		{"garbage-value", TypeResidential},
		{"kitchen", TypeResidential},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalUserType(tc.in), "input %q", tc.in)
	}
}

func TestSelectSyncsToServer(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ut := NewUserType(f.api, f.sess, zerolog.Nop())

	require.NoError(t, ut.Select(context.Background(), "modular+kitchen"))

	assert.Equal(t, TypeModularKitchen, ut.Value())
	assert.True(t, ut.Synced())
	assert.Equal(t, "ut-3", f.sess.Data().UserTypeID)
	assert.True(t, f.sess.Data().UserTypeConfirmed)
}

func TestSelectOfflineRetainsLocalValue(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ut := NewUserType(f.api, f.sess, zerolog.Nop())

	f.srv.FailNext(500, 3)
	require.NoError(t, ut.Select(context.Background(), "commercial"),
		"degraded sync must not surface an error")

	assert.Equal(t, TypeCommercial, ut.Value())
	assert.False(t, ut.Synced())
	assert.Equal(t, TypeCommercial, f.sess.Data().UserTypeName)
	assert.False(t, f.sess.Data().UserTypeConfirmed)
}

func TestSelectRejectedByVocabularyRestoresPreviousValue(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ut := NewUserType(f.api, f.sess, zerolog.Nop())

	f.srv.SetUserTypes([]api.UserType{{ID: "ut-1", Name: "Residential"}})

	err := ut.Select(context.Background(), "commercial")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))

	assert.Equal(t, TypeResidential, ut.Value(), "rejected selection must be rolled back")
	assert.Equal(t, TypeResidential, f.sess.Data().UserTypeName)
	assert.Equal(t, "ut-1", f.sess.Data().UserTypeID)
}

func TestSelectUnauthorizedRestoresLocalValueOnly(t *testing.T) {
	f := newFixture(t)
	f.sess.SetAuthenticated(session.Data{Token: "bogus", UserID: "u-x"})
	ut := NewUserType(f.api, f.sess, zerolog.Nop())

	err := ut.Select(context.Background(), "commercial")
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))

	assert.Equal(t, DefaultUserType, ut.Value())
	assert.Equal(t, session.Anonymous, f.sess.State(), "401 teardown must stand")
	assert.Empty(t, f.sess.Data().UserTypeName)
}

func TestUnrecognizedStoredValueFallsBackToDefault(t *testing.T) {
	sess := session.New(session.NewMemoryStore())
	sess.SetUserType("", "weird-legacy-value", true)

	f := newFixture(t)
	ut := NewUserType(f.api, sess, zerolog.Nop())

	assert.Equal(t, TypeResidential, ut.Value())
}

func TestEnsureSelectedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ut := NewUserType(f.api, f.sess, zerolog.Nop())

	first := ut.EnsureSelected(context.Background())
	second := ut.EnsureSelected(context.Background())

	assert.Equal(t, DefaultUserType, first)
	assert.Equal(t, first, second)
	assert.Equal(t, DefaultUserType, f.sess.Data().UserTypeName)
}

func TestValueNeverEmpty(t *testing.T) {
	f := newFixture(t)
	ut := NewUserType(f.api, f.sess, zerolog.Nop())
	assert.Equal(t, DefaultUserType, ut.Value())
}
