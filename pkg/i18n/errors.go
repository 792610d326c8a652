package i18n

import "errors"

var (
	ErrFailedToParseJSON = errors.New("i18n: failed to parse JSON messages")
	ErrFailedToParseYAML = errors.New("i18n: failed to parse YAML messages")

	// ErrInvalidMessages is returned for documents that are not a mapping of
	// language codes to messages.
	ErrInvalidMessages = errors.New("i18n: invalid messages document")

	ErrFailedToReadDirectory = errors.New("i18n: failed to read messages directory")
	ErrFailedToReadFile      = errors.New("i18n: failed to read messages file")
	ErrLoadingCancelled      = errors.New("i18n: loading messages cancelled")

	// ErrNilSource is returned by NewTranslator when no source is given.
	ErrNilSource = errors.New("i18n: nil messages source")
)
