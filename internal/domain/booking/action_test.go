package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanapBahay/service-booking/internal/pkg/auth"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

func TestAuthorize_RoleIsolation(t *testing.T) {
	bk := newTestBooking(t)

	roles := []auth.Role{auth.RoleTenant, auth.RoleOwner, ActorSystem}
	allowed := map[Action]map[auth.Role]bool{
		ActionApprove:        {auth.RoleOwner: true},
		ActionReject:         {auth.RoleOwner: true},
		ActionCancel:         {auth.RoleTenant: true, auth.RoleOwner: true},
		ActionCreateCheckout: {auth.RoleTenant: true},
		ActionPaymentResult:  {ActorSystem: true},
		ActionVerifyPayment:  {auth.RoleOwner: true},
	}

	actorFor := map[auth.Role]uuid.UUID{
		auth.RoleTenant: bk.TenantID(),
		auth.RoleOwner:  bk.OwnerID(),
		ActorSystem:     uuid.Nil,
	}

	for action, roleSet := range allowed {
		for _, role := range roles {
			err := bk.Authorize(role, actorFor[role], action)
			if roleSet[role] {
				assert.NoError(t, err, "%s as %s", action, role)
			} else {
				require.Error(t, err, "%s as %s", action, role)
				assert.True(t, domain.IsCode(err, domain.CodeForbidden))
			}
		}
	}
}

func TestAuthorize_ActorMustMatchBooking(t *testing.T) {
	bk := newTestBooking(t)

	// Right role, somebody else's booking.
	err := bk.Authorize(auth.RoleTenant, uuid.New(), ActionCancel)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))

	err = bk.Authorize(auth.RoleOwner, uuid.New(), ActionApprove)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
}

func TestAuthorize_ForbiddenBeforePreconditions(t *testing.T) {
	// Booking is already terminal; the wrong role must still see Forbidden,
	// not the transition failure.
	bk := newTestBooking(t)
	require.NoError(t, bk.Reject("no vacancy"))

	err := bk.Authorize(auth.RoleTenant, bk.TenantID(), ActionApprove)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
}

func TestAuthorize_UnknownRole(t *testing.T) {
	bk := newTestBooking(t)

	err := bk.Authorize(auth.Role("superuser"), bk.TenantID(), ActionCancel)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
}

func TestAuthorize_AdminIsNotALifecycleActor(t *testing.T) {
	bk := newTestBooking(t)

	for _, action := range []Action{ActionApprove, ActionReject, ActionCancel, ActionCreateCheckout, ActionVerifyPayment} {
		err := bk.Authorize(auth.RoleAdmin, uuid.New(), action)
		require.Error(t, err, "admin invoking %s", action)
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	}
}
