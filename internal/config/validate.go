package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"gitlab.com/gitlab-org/serve-static/internal/manifest"
	"gitlab.com/gitlab-org/serve-static/internal/servestatic"
)

var (
	ErrNoListener             = errors.New("at least one -listen-http address must be defined")
	ErrNoAssetSource          = errors.New("either -archive or -assets-dir must be defined")
	ErrMultipleAssetSources   = errors.New("-archive and -assets-dir are mutually exclusive")
	ErrInvalidRoot            = errors.New("invalid -root")
	ErrInvalidExclude         = errors.New("invalid -exclude")
	ErrInvalidHeader          = errors.New("invalid -header")
	ErrInvalidMaxURILength    = errors.New("-max-uri-length must be greater than or equal to 0")
	ErrUnsupportedLogFormat   = errors.New("-log-format must be either text or json")
	ErrInvalidShutdownTimeout = errors.New("-server-shutdown-timeout must be greater than 0")
	ErrStatusPathWithoutSlash = errors.New("-status-path must start with /")
	ErrEmptyLookupName        = errors.New("-index-file and -auto-extension values cannot be empty")
	ErrInvalidRateLimit       = errors.New("-rate-limit-source-ip must be greater than or equal to 0")
	ErrInvalidRateLimitBurst  = errors.New("-rate-limit-source-ip-burst must be greater than 0 when rate limiting")
)

// Validate reports every problem found in config at once
func Validate(config *Config) error {
	var result *multierror.Error

	for _, validate := range []func(*Config) error{
		validateListeners,
		validateAssets,
		validateGeneral,
	} {
		if err := validate(config); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func validateListeners(config *Config) error {
	if config.ListenHTTPStrings.Len() == 0 {
		return ErrNoListener
	}

	return nil
}

func validateAssets(config *Config) error {
	var result *multierror.Error

	switch {
	case config.Assets.Archive == "" && config.Assets.Dir == "":
		result = multierror.Append(result, ErrNoAssetSource)
	case config.Assets.Archive != "" && config.Assets.Dir != "":
		result = multierror.Append(result, ErrMultipleAssetSources)
	}

	if _, err := servestatic.NewResolver(config.Assets.Root, config.Assets.Path); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalidRoot, err))
	}

	if err := manifest.ValidatePatterns(config.Assets.Exclude); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalidExclude, err))
	}

	for _, name := range append(append([]string{}, config.Assets.IndexFiles...), config.Assets.AutoExtensions...) {
		if name == "" {
			result = multierror.Append(result, ErrEmptyLookupName)
			break
		}
	}

	return result.ErrorOrNil()
}

func validateGeneral(config *Config) error {
	var result *multierror.Error

	if _, err := config.Headers(); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalidHeader, err))
	}

	if config.General.MaxURILength < 0 {
		result = multierror.Append(result, ErrInvalidMaxURILength)
	}

	if config.General.StatusPath != "" && config.General.StatusPath[0] != '/' {
		result = multierror.Append(result, ErrStatusPathWithoutSlash)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		result = multierror.Append(result, ErrUnsupportedLogFormat)
	}

	if config.RateLimit.SourceIPLimitPerSecond < 0 {
		result = multierror.Append(result, ErrInvalidRateLimit)
	}

	if config.RateLimit.SourceIPLimitPerSecond > 0 && config.RateLimit.SourceIPBurst <= 0 {
		result = multierror.Append(result, ErrInvalidRateLimitBurst)
	}

	if config.Server.ShutdownTimeout <= 0 {
		result = multierror.Append(result, ErrInvalidShutdownTimeout)
	}

	return result.ErrorOrNil()
}
