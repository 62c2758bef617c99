// Package validation checks accessor configuration structs using
// go-playground/validator struct tags.
//
//	type Config struct {
//	    Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
//
// Failures are reported as a single errors.ErrCodeInvalidInput AppError
// whose "fields" detail lists each failing config key.
package validation
