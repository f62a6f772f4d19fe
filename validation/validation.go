package validation

import (
	"net/url"

	"github.com/sargiotti/BackEndServer/errors"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs URL validation
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	// Protocol validation
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	if parsedURL.Hostname() == "" {
		return errors.InvalidInput(op, nil, "URL must include a host")
	}

	return nil
}

// ValidateText checks a synthesis/translation input
func (v *Validator) ValidateText(text string) error {
	const op = "Validator.ValidateText"

	if text == "" {
		return errors.InvalidInput(op, nil, "Text is required")
	}

	return nil
}
