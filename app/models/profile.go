package models

// Address types accepted by the address book.
const (
	AddressTypeHome  = "Home"
	AddressTypeWork  = "Work"
	AddressTypeOther = "Other"
)

// Address is one delivery address in a profile's address book.
//
// Invariant: while the address set is non-empty, exactly one entry has
// IsDefault=true. The profile service maintains this on every mutation.
type Address struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"isDefault"`
}

// UserProfile is the whole-document profile keyed by phone number
// ("+91" + 10 digits). Orders is a denormalised copy kept for the profile
// screen; order history remains the source of truth.
type UserProfile struct {
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Addresses   []Address `json:"addresses"`
	Orders      []Order   `json:"orders"`
	CreatedAt   string    `json:"createdAt"`
	LastLoginAt string    `json:"lastLoginAt"`
	IsVerified  bool      `json:"isVerified"`
}

// DefaultAddress returns the default address, or nil when the book is empty.
func (p *UserProfile) DefaultAddress() *Address {
	for i := range p.Addresses {
		if p.Addresses[i].IsDefault {
			return &p.Addresses[i]
		}
	}
	return nil
}
