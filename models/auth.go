package models

// AuthState is the identity a cart is currently bound to.
// The zero value is the anonymous state.
type AuthState struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (a AuthState) Authenticated() bool {
	return a.UserID != ""
}

// Anonymous returns the signed-out state.
func Anonymous() AuthState {
	return AuthState{}
}
