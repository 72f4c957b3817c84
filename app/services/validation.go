package services

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/bind"
)

// Form rules carried over from the storefront client: a full name is at
// least two words of 4+ letters, mobiles are the bare 10 digits (the +91
// prefix is added on storage), and delivery pincodes are 6 digits starting
// with the delivery-area prefix.
var (
	fullNameRe = regexp.MustCompile(`^[A-Za-z]{4,}\s[A-Za-z]{4,}(?:\s[A-Za-z]{4,})*$`)
	mobileRe   = regexp.MustCompile(`^\d{10}$`)

	pincodeOnce sync.Once
	pincodeRe   *regexp.Regexp
)

func deliveryPincodeRe() *regexp.Regexp {
	pincodeOnce.Do(func() {
		prefix := config.DeliveryPincodePrefix()
		rest := 6 - len(prefix)
		if rest < 0 {
			rest = 0
		}
		pincodeRe = regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\d{` + strconv.Itoa(rest) + `}$`)
	})
	return pincodeRe
}

// ValidFullName reports whether name passes the full-name rule.
func ValidFullName(name string) bool { return fullNameRe.MatchString(name) }

// ValidMobile reports whether mobile is exactly 10 digits.
func ValidMobile(mobile string) bool { return mobileRe.MatchString(mobile) }

// ValidDeliveryPincode reports whether pincode is 6 digits inside the
// delivery area.
func ValidDeliveryPincode(pincode string) bool {
	return deliveryPincodeRe().MatchString(pincode)
}

func init() {
	// Custom rules for the checkout and profile forms.
	bind.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return ValidFullName(fl.Field().String())
	})
	bind.RegisterValidation("mobile10", func(fl validator.FieldLevel) bool {
		return ValidMobile(fl.Field().String())
	})
	bind.RegisterValidation("delivery_pincode", func(fl validator.FieldLevel) bool {
		return ValidDeliveryPincode(fl.Field().String())
	})
}
