package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// letters, spaces and the punctuation found in real names: . ' - /
	nameRegex = regexp.MustCompile(`^[\p{L} .'/-]+$`)

	// E.164-like: optional +, 7-15 digits
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	otpRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// RegisterValidators adds the custom tags used in request DTOs and makes
// validator report JSON field names instead of Go field names.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonTagName)
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("timezone", ValidTimezone)
	_ = v.RegisterValidation("otp_code", ValidOTPCode)
}

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// NoEmoji rejects supplementary-plane runes and Unicode symbol categories.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// ValidTimezone accepts IANA names known to the runtime tz database.
func ValidTimezone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.LoadLocation(val)
	return err == nil
}

func ValidOTPCode(fl validator.FieldLevel) bool {
	return otpRegex.MatchString(fl.Field().String())
}
