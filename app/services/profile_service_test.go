package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/kv"
)

const testMobile = "9876543210"

var testPhone = PhonePrefix + testMobile

func signedUpProfile(t *testing.T, s *ProfileService) *models.UserProfile {
	t.Helper()
	p, err := s.CompleteProfile(testPhone, "Asha Verma", "asha@example.com", "12 Boring Road, Patna", "800001")
	require.NoError(t, err)
	return p
}

func TestOTPFlow(t *testing.T) {
	s := NewProfileService(kv.NewMemory())

	code, err := s.RequestOTP(testMobile)
	require.NoError(t, err)
	require.Len(t, code, 6)

	_, _, err = s.VerifyOTP(testMobile, "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	token, isNew, err := s.VerifyOTP(testMobile, code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, isNew)

	// The code is consumed on success.
	_, _, err = s.VerifyOTP(testMobile, code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestRequestOTPRejectsBadMobile(t *testing.T) {
	s := NewProfileService(kv.NewMemory())

	_, err := s.RequestOTP("12345")
	assert.ErrorIs(t, err, ErrInvalidMobile)
}

func TestCompleteProfileCreatesDefaultHomeAddress(t *testing.T) {
	s := NewProfileService(kv.NewMemory())
	p := signedUpProfile(t, s)

	assert.True(t, p.IsVerified)
	require.Len(t, p.Addresses, 1)
	addr := p.Addresses[0]
	assert.Equal(t, models.AddressTypeHome, addr.Type)
	assert.True(t, addr.IsDefault)
	assert.Contains(t, addr.ID, "addr_")
}

func TestCompleteProfileValidation(t *testing.T) {
	s := NewProfileService(kv.NewMemory())

	_, err := s.CompleteProfile(testPhone, "Asha", "a@b.c", "12 Boring Road, Patna", "800001")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.CompleteProfile(testPhone, "Asha Verma", "a@b.c", "short", "800001")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = s.CompleteProfile(testPhone, "Asha Verma", "a@b.c", "12 Boring Road, Patna", "110001")
	assert.ErrorIs(t, err, ErrInvalidPincode)
}

func TestAddAddressKeepsSingleDefault(t *testing.T) {
	s := NewProfileService(kv.NewMemory())
	signedUpProfile(t, s)

	p, err := s.AddAddress(testPhone, models.Address{
		Type:    models.AddressTypeWork,
		Name:    "Asha Verma",
		Phone:   testPhone,
		Address: "IT Park, Bailey Road, Patna",
		Pincode: "800014",
	})
	require.NoError(t, err)
	require.Len(t, p.Addresses, 2)
	assert.True(t, p.Addresses[0].IsDefault)
	assert.False(t, p.Addresses[1].IsDefault)

	// Adding one flagged default moves the flag.
	p, err = s.AddAddress(testPhone, models.Address{
		Type:      models.AddressTypeOther,
		Name:      "Asha Verma",
		Phone:     testPhone,
		Address:   "Gandhi Maidan Marg, Patna",
		Pincode:   "800004",
		IsDefault: true,
	})
	require.NoError(t, err)

	defaults := 0
	for _, a := range p.Addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, models.AddressTypeOther, a.Type)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestDeleteDefaultAddressPromotesFirstRemaining(t *testing.T) {
	s := NewProfileService(kv.NewMemory())
	p := signedUpProfile(t, s)
	defaultID := p.Addresses[0].ID

	p, err := s.AddAddress(testPhone, models.Address{
		Type:    models.AddressTypeWork,
		Name:    "Asha Verma",
		Phone:   testPhone,
		Address: "IT Park, Bailey Road, Patna",
		Pincode: "800014",
	})
	require.NoError(t, err)

	p, err = s.DeleteAddress(testPhone, defaultID)
	require.NoError(t, err)
	require.Len(t, p.Addresses, 1)
	assert.True(t, p.Addresses[0].IsDefault)
}

func TestSetDefaultAddress(t *testing.T) {
	s := NewProfileService(kv.NewMemory())
	signedUpProfile(t, s)

	p, err := s.AddAddress(testPhone, models.Address{
		Type:    models.AddressTypeWork,
		Name:    "Asha Verma",
		Phone:   testPhone,
		Address: "IT Park, Bailey Road, Patna",
		Pincode: "800014",
	})
	require.NoError(t, err)
	workID := p.Addresses[1].ID

	p, err = s.SetDefaultAddress(testPhone, workID)
	require.NoError(t, err)
	assert.False(t, p.Addresses[0].IsDefault)
	assert.True(t, p.Addresses[1].IsDefault)

	_, err = s.SetDefaultAddress(testPhone, "addr_missing")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDeleteAccountRemovesAllDocuments(t *testing.T) {
	store := kv.NewMemory()
	s := NewProfileService(store)
	signedUpProfile(t, s)
	store.Set(cartKey(testPhone), []models.CartItem{testItem("p1", 40, 1)}, 0)

	require.NoError(t, s.DeleteAccount(testPhone))

	_, ok := s.Get(testPhone)
	assert.False(t, ok)
	var items []models.CartItem
	assert.False(t, store.Get(cartKey(testPhone), &items))
}
