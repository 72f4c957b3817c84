package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/auth"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/metrics"
)

// PhonePrefix is prepended to the 10-digit mobile for every stored phone.
const PhonePrefix = "+91"

// OTPTTL bounds how long a sign-in code stays valid.
const OTPTTL = 5 * time.Minute

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrInvalidOTP      = errors.New("invalid or expired code")
	ErrInvalidMobile   = errors.New("mobile must be 10 digits")
	ErrInvalidName     = errors.New("enter first and last name, 4+ letters each")
	ErrInvalidAddress  = errors.New("address must be at least 10 characters")
	ErrInvalidPincode  = errors.New("pincode is outside the delivery area")
	ErrInvalidAddrType = errors.New("address type must be Home, Work or Other")
)

// ProfileService manages whole-document user profiles keyed by phone, plus
// the OTP sign-in flow.
type ProfileService struct {
	store kv.Store
}

func NewProfileService(store kv.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Get loads a profile by phone.
func (s *ProfileService) Get(phone string) (*models.UserProfile, bool) {
	var p models.UserProfile
	if !s.store.Get(profileKey(phone), &p) {
		metrics.KVMisses.WithLabelValues("profile").Inc()
		return nil, false
	}
	metrics.KVHits.WithLabelValues("profile").Inc()
	return &p, true
}

// RequestOTP generates a 6-digit sign-in code for the mobile and stores its
// bcrypt hash with a short TTL. Delivery (SMS) is the gateway's job; the
// code is returned so dev builds can echo it.
func (s *ProfileService) RequestOTP(mobile string) (string, error) {
	if !ValidMobile(mobile) {
		return "", ErrInvalidMobile
	}

	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("profile: generate otp: %w", err)
	}

	hash, err := auth.HashOTP(code)
	if err != nil {
		return "", fmt.Errorf("profile: hash otp: %w", err)
	}

	phone := PhonePrefix + mobile
	if err := s.store.Set(otpKey(phone), hash, OTPTTL); err != nil {
		return "", fmt.Errorf("profile: store otp: %w", err)
	}

	logger.Info("profile: otp issued", "phone", phone)
	return code, nil
}

// VerifyOTP checks the code against the stored hash. On success the code is
// consumed, the login flag is set, and a session token is returned. isNew is
// true when no profile exists yet and the client should collect one.
func (s *ProfileService) VerifyOTP(mobile, code string) (token string, isNew bool, err error) {
	if !ValidMobile(mobile) {
		return "", false, ErrInvalidMobile
	}
	phone := PhonePrefix + mobile

	var hash string
	if !s.store.Get(otpKey(phone), &hash) || !auth.CheckOTP(hash, code) {
		return "", false, ErrInvalidOTP
	}
	s.store.Del(otpKey(phone))

	if p, ok := s.Get(phone); ok {
		p.LastLoginAt = time.Now().UTC().Format(time.RFC3339)
		if err := s.save(p); err != nil {
			return "", false, err
		}
	} else {
		isNew = true
	}

	if err := s.store.Set(loginKey(phone), "true", 0); err != nil {
		return "", false, fmt.Errorf("profile: set login flag: %w", err)
	}

	token, err = auth.GenerateToken(phone)
	if err != nil {
		return "", false, fmt.Errorf("profile: issue token: %w", err)
	}
	return token, isNew, nil
}

// CompleteProfile creates a verified profile with one default Home address.
// It runs after the first successful OTP verification.
func (s *ProfileService) CompleteProfile(phone, name, email, address, pincode string) (*models.UserProfile, error) {
	switch {
	case !ValidFullName(name):
		return nil, ErrInvalidName
	case len(address) < 10:
		return nil, ErrInvalidAddress
	case !ValidDeliveryPincode(pincode):
		return nil, ErrInvalidPincode
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p := &models.UserProfile{
		Phone:       phone,
		Name:        name,
		Email:       email,
		CreatedAt:   now,
		LastLoginAt: now,
		IsVerified:  true,
		Addresses: []models.Address{{
			ID:        newAddressID(),
			Type:      models.AddressTypeHome,
			Name:      name,
			Phone:     phone,
			Address:   address,
			Pincode:   pincode,
			IsDefault: true,
		}},
	}

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePersonalInfo changes name and email in place.
func (s *ProfileService) UpdatePersonalInfo(phone, name, email string) (*models.UserProfile, error) {
	if !ValidFullName(name) {
		return nil, ErrInvalidName
	}

	p, ok := s.Get(phone)
	if !ok {
		return nil, ErrProfileNotFound
	}
	p.Name = name
	p.Email = email

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddAddress appends a new address. The first address in an empty book, or
// one explicitly flagged default, becomes the single default.
func (s *ProfileService) AddAddress(phone string, addr models.Address) (*models.UserProfile, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	p, ok := s.Get(phone)
	if !ok {
		return nil, ErrProfileNotFound
	}

	addr.ID = newAddressID()
	if len(p.Addresses) == 0 {
		addr.IsDefault = true
	} else if addr.IsDefault {
		clearDefault(p)
	}
	p.Addresses = append(p.Addresses, addr)

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateAddress replaces an existing address's fields, keeping its id.
func (s *ProfileService) UpdateAddress(phone string, addr models.Address) (*models.UserProfile, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	p, ok := s.Get(phone)
	if !ok {
		return nil, ErrProfileNotFound
	}

	idx := indexOfAddress(p, addr.ID)
	if idx < 0 {
		return nil, ErrAddressNotFound
	}

	if addr.IsDefault && !p.Addresses[idx].IsDefault {
		clearDefault(p)
	} else if !addr.IsDefault && p.Addresses[idx].IsDefault {
		// Unsetting the only default is not allowed; keep it.
		addr.IsDefault = true
	}
	p.Addresses[idx] = addr

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteAddress removes an address. Deleting the default promotes the first
// remaining address so the book never ends up default-less.
func (s *ProfileService) DeleteAddress(phone, addressID string) (*models.UserProfile, error) {
	p, ok := s.Get(phone)
	if !ok {
		return nil, ErrProfileNotFound
	}

	idx := indexOfAddress(p, addressID)
	if idx < 0 {
		return nil, ErrAddressNotFound
	}

	wasDefault := p.Addresses[idx].IsDefault
	p.Addresses = append(p.Addresses[:idx], p.Addresses[idx+1:]...)
	if wasDefault && len(p.Addresses) > 0 {
		p.Addresses[0].IsDefault = true
	}

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetDefaultAddress moves the default flag to the given address.
func (s *ProfileService) SetDefaultAddress(phone, addressID string) (*models.UserProfile, error) {
	p, ok := s.Get(phone)
	if !ok {
		return nil, ErrProfileNotFound
	}

	idx := indexOfAddress(p, addressID)
	if idx < 0 {
		return nil, ErrAddressNotFound
	}

	clearDefault(p)
	p.Addresses[idx].IsDefault = true

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteAccount removes the profile and every per-subject document that
// belongs to it.
func (s *ProfileService) DeleteAccount(phone string) error {
	err := s.store.Del(
		profileKey(phone),
		loginKey(phone),
		cartKey(phone),
		orderHistoryKey(phone),
		feedbackKey(phone),
		feedbackGivenKey(phone),
	)
	if err != nil {
		return fmt.Errorf("profile: delete account %s: %w", phone, err)
	}
	logger.Info("profile: account deleted", "phone", phone)
	return nil
}

// AppendOrder prepends an abbreviated order snapshot to the profile's
// embedded list. Missing profiles are fine; guests have none.
func (s *ProfileService) AppendOrder(phone string, order models.Order) error {
	p, ok := s.Get(phone)
	if !ok {
		return nil
	}
	p.Orders = append([]models.Order{order}, p.Orders...)
	return s.save(p)
}

func (s *ProfileService) save(p *models.UserProfile) error {
	if err := s.store.Set(profileKey(p.Phone), p, 0); err != nil {
		return fmt.Errorf("profile: save %s: %w", p.Phone, err)
	}
	return nil
}

func validateAddress(addr models.Address) error {
	switch addr.Type {
	case models.AddressTypeHome, models.AddressTypeWork, models.AddressTypeOther:
	default:
		return ErrInvalidAddrType
	}
	if len(addr.Address) < 10 {
		return ErrInvalidAddress
	}
	if !ValidDeliveryPincode(addr.Pincode) {
		return ErrInvalidPincode
	}
	return nil
}

func indexOfAddress(p *models.UserProfile, id string) int {
	for i := range p.Addresses {
		if p.Addresses[i].ID == id {
			return i
		}
	}
	return -1
}

func clearDefault(p *models.UserProfile) {
	for i := range p.Addresses {
		p.Addresses[i].IsDefault = false
	}
}

func newAddressID() string {
	return "addr_" + uuid.NewString()
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
