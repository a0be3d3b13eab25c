package enum

// CartBackend identifies which store owns the cart.
type CartBackend string

const (
	CartBackendLocal  CartBackend = "local"
	CartBackendRemote CartBackend = "remote"
)
