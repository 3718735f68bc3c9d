package whatsapp

// Account holds the credentials resolved for one WhatsApp Business number.
// It is bound to a Client for the duration of one outbound operation and is
// never persisted by this package.
type Account struct {
	Token     string
	NumberID  string
	CatalogID string
}

// AccountResolver maps a provider-assigned phone number ID to an account.
// Implementations return ErrAccountNotFound when no account matches.
type AccountResolver interface {
	Resolve(numberID string) (*Account, error)
}

// ResolverFunc adapts a plain function to the AccountResolver interface.
type ResolverFunc func(numberID string) (*Account, error)

func (f ResolverFunc) Resolve(numberID string) (*Account, error) {
	return f(numberID)
}
