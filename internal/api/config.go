// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pwd-strength/internal/ingest"
	"pwd-strength/internal/util"
	"pwd-strength/pkg/strength"
)

type Config struct {
	Port           uint16   `mapstructure:"PORT" validate:"required"`
	DenylistSource string   `mapstructure:"DENYLIST_SOURCE" validate:"required"`
	Locale         string   `mapstructure:"LOCALE" validate:"required,locale"`
	SelfTLS        bool     `mapstructure:"SELF_TLS"`
	TLSCert        string   `mapstructure:"TLS_CERT" validate:"required_with=TLSKey,omitempty,file"`
	TLSKey         string   `mapstructure:"TLS_KEY" validate:"required_with=TLSCert,omitempty,file"`
	MaxConnections int      `mapstructure:"MAX_CONNECTIONS" validate:"gte=0"`
	CorsOrigins    []string `mapstructure:"CORS_ORIGINS"`
	SentryDsn      string   `mapstructure:"SENTRY_DSN" validate:"omitempty,url"`
	CacheSize      int64    `mapstructure:"CACHE_SIZE" validate:"gte=0"`
	S3Endpoint     string   `mapstructure:"S3_ENDPOINT"`
	S3AccessKey    string   `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey    string   `mapstructure:"S3_SECRET_KEY"`
	S3Secure       bool     `mapstructure:"S3_SECURE"`
	Debug          bool     `mapstructure:"DEBUG"`
}

// DefaultLocale resolves the configured locale. The config must have been validated.
func (c Config) DefaultLocale() *strength.Locale {
	l, ok := strength.LookupLocale(c.Locale)
	if !ok {
		return strength.Locales[0]
	}
	return l
}

func (c Config) S3() ingest.S3Config {
	return ingest.S3Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Secure:    c.S3Secure,
	}
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "locale":
		return fmt.Sprintf("Unsupported locale %q", fe.Value())
	case "file":
		return "This field must point to an existing file"
	case "url":
		return "This field must be a valid URL"
	case "gte":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	}
	return fe.Error()
}

func newValidator() *validator.Validate {
	validate := validator.New()
	// report env var names instead of Go field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	_ = validate.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		_, ok := strength.LookupLocale(fl.Field().String())
		return ok
	})
	return validate
}

// LoadDotEnv loads variables from a .env file into the environment. A missing file is
// not an error.
func LoadDotEnv(fileName string) error {
	if err := godotenv.Load(fileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// LoadConfig reads the configuration from the environment and any flags bound to v,
// then validates it.
func LoadConfig(v *viper.Viper) (config Config, err error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	bindEnvs(v, config)

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error reading configuration: %w", err)
	}

	if err = newValidator().Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), msgForTag(fe)))
			}
			return config, errors.New(strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("error validating configuration: %w", err)
	}

	return config, nil
}
