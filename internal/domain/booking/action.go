package booking

import (
	"github.com/google/uuid"

	"github.com/HanapBahay/service-booking/internal/pkg/auth"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// Action is a lifecycle operation requested against a booking.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionCancel         Action = "cancel"
	ActionCreateCheckout Action = "create_checkout"
	ActionPaymentResult  Action = "payment_result"
	ActionVerifyPayment  Action = "verify_payment"
)

// ActorSystem marks transitions initiated by the gateway callback path
// rather than an authenticated user.
const ActorSystem auth.Role = "system"

// actionRoles maps each action to the roles allowed to invoke it. Like
// validTransitions, this table is the single authority; anything not
// listed here is denied before preconditions are even looked at.
var actionRoles = map[Action][]auth.Role{
	ActionApprove:        {auth.RoleOwner},
	ActionReject:         {auth.RoleOwner},
	ActionCancel:         {auth.RoleTenant, auth.RoleOwner},
	ActionCreateCheckout: {auth.RoleTenant},
	ActionPaymentResult:  {ActorSystem},
	ActionVerifyPayment:  {auth.RoleOwner},
}

// Authorize checks whether the acting role/id pair may invoke the action on
// this booking. A tenant may act only on their own booking; an owner only on
// bookings against their boarding house. Authorization failure is distinct
// from (and checked before) any transition precondition.
func (b *Booking) Authorize(role auth.Role, actorID uuid.UUID, action Action) error {
	allowed, exists := actionRoles[action]
	if !exists {
		return domain.NewForbiddenError("unknown action")
	}

	permitted := false
	for _, r := range allowed {
		if r == role {
			permitted = true
			break
		}
	}
	if !permitted {
		return domain.NewForbiddenError("you cannot perform this action")
	}

	switch role {
	case auth.RoleTenant:
		if actorID != b.tenantID {
			return domain.NewForbiddenError("you cannot perform this action")
		}
	case auth.RoleOwner:
		if actorID != b.ownerID {
			return domain.NewForbiddenError("you cannot perform this action")
		}
	case ActorSystem:
		// Gateway-initiated; session matching is enforced by the transition itself.
	default:
		return domain.NewForbiddenError("you cannot perform this action")
	}
	return nil
}
