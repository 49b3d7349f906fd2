package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config identifies the content store project and how to reach it.
type Config struct {
	ProjectID   string `validate:"required"`
	Dataset     string `validate:"required"`
	APIVersion  string // date-based API version, e.g. "2021-10-21"
	UseCDN      bool   // read through the API CDN; ignored for authenticated reads
	Token       string // write-access token, required by CreateComment
	HTTPTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Dataset == "" {
		c.Dataset = "production"
	}
	c.APIVersion = strings.TrimPrefix(c.APIVersion, "v")
	if c.APIVersion == "" {
		c.APIVersion = "2021-10-21"
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 10 * time.Second
	}
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("content: invalid config: %w", err)
	}
	return nil
}
