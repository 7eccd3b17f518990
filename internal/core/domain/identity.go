package domain

// Identity is either the guest or exactly one authenticated user.
type Identity struct {
	UserID string
}

// Guest is the identity with no authenticated user.
var Guest = Identity{}

// UserIdentity returns the identity for userID.
func UserIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

// IsGuest reports whether no user is authenticated.
func (i Identity) IsGuest() bool {
	return i.UserID == ""
}

// CartKey returns the local persistence key holding this identity's cart.
func (i Identity) CartKey() string {
	if i.IsGuest() {
		return GuestCartKey
	}
	return UserCartKey(i.UserID)
}

func (i Identity) String() string {
	if i.IsGuest() {
		return "guest"
	}
	return "user:" + i.UserID
}

// ChangeReason names the session action behind an identity transition.
type ChangeReason string

const (
	ReasonLogin    ChangeReason = "login"
	ReasonRegister ChangeReason = "register"
	ReasonLogout   ChangeReason = "logout"
)

// IdentityChange is emitted by the session once per login, register or
// logout, after the new identity has been persisted.
type IdentityChange struct {
	From   Identity
	To     Identity
	Reason ChangeReason
}

// IsSignIn reports whether the change moved into a user scope via login or register.
func (c IdentityChange) IsSignIn() bool {
	return !c.To.IsGuest() && (c.Reason == ReasonLogin || c.Reason == ReasonRegister)
}
