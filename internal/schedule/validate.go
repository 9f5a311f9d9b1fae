package schedule

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := ParseTime(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return Day(fl.Field().String()).Valid()
		})
	})
	return validate
}

// ValidateCourse checks field formats and the time range of a course.
func ValidateCourse(c Course) error {
	if err := structErr(validatorInstance().Struct(c)); err != nil {
		return err
	}
	return checkRange(c.ItemBase)
}

// ValidateEvent checks field formats and the time range of an event.
func ValidateEvent(e Event) error {
	if err := structErr(validatorInstance().Struct(e)); err != nil {
		return err
	}
	return checkRange(e.ItemBase)
}

func checkRange(b ItemBase) error {
	if b.StartTime == "" && b.EndTime == "" {
		return nil
	}
	if !b.Timed() {
		return fmt.Errorf("%w: both start and end time are required", ErrFormat)
	}
	_, _, err := b.Range()
	return err
}

// structErr flattens validator errors into one readable error, keeping
// ErrFormat in the chain for time fields.
func structErr(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	timeField := false
	for _, fe := range verrs {
		switch fe.Tag() {
		case "hhmm":
			timeField = true
			msgs = append(msgs, fmt.Sprintf("%s: %q is not HH:MM", fe.Field(), fe.Value()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "weekday":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not a weekday", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	msg := strings.Join(msgs, "; ")
	if timeField {
		return fmt.Errorf("%w: %s", ErrFormat, msg)
	}
	return errors.New(msg)
}
