package validation

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// RegisterCustom installs the canonical date/time validators on gin's binding
// engine. Safe to call once at startup.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("dateymd", validDateYMD); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", validHHMM)
}

// validDateYMD accepts canonical YYYY-MM-DD calendar dates.
func validDateYMD(fl validator.FieldLevel) bool {
	return IsCanonicalDate(fl.Field().String())
}

// validHHMM accepts canonical 24-hour HH:MM times.
func validHHMM(fl validator.FieldLevel) bool {
	return IsCanonicalTime(fl.Field().String())
}

// IsCanonicalDate reports whether s is a valid YYYY-MM-DD date.
func IsCanonicalDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsCanonicalTime reports whether s is a valid 24-hour HH:MM time.
func IsCanonicalTime(s string) bool {
	return hhmmPattern.MatchString(s)
}
