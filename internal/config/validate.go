package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateDocs checks the settings needed by commands that only touch the
// local docs tree.
func (c Config) ValidateDocs() error {
	return wrap(validation.ValidateStruct(&c,
		validation.Field(&c.DocsDir,
			validation.Required.Error("D2CMS_DOCS_DIR is required"),
			validation.By(isDir),
		),
	))
}

// ValidateRemote checks everything needed to talk to WordPress, including
// the docs directory.
func (c Config) ValidateRemote() error {
	if err := c.ValidateDocs(); err != nil {
		return err
	}
	return wrap(validation.ValidateStruct(&c,
		validation.Field(&c.APIRoot,
			validation.Required.Error("D2CMS_WP_API_ROOT is required"),
			validation.By(isHTTPURL),
		),
		validation.Field(&c.APIKey, validation.Required.Error("D2CMS_WP_API_KEY is required")),
		validation.Field(&c.APIUser, validation.Required.Error("D2CMS_WP_API_USER is required")),
		validation.Field(&c.AuthMode,
			validation.In("token", "basic").Error(`D2CMS_AUTH_MODE must be either "token" or "basic"`),
		),
	))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

func isDir(value any) error {
	dir, _ := value.(string)
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("D2CMS_DOCS_DIR does not exist: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("D2CMS_DOCS_DIR is not a directory: %s", dir)
	}
	return nil
}

func isHTTPURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("API root URL must start with http:// or https://")
	}
	return nil
}
