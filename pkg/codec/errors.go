package codec

import "errors"

var (
	// ErrShortRead is returned when the stream holds fewer bytes than the
	// requested value needs.
	ErrShortRead = errors.New("codec: insufficient bytes for value")
	// ErrInvalidText is returned when a length-prefixed text is not valid
	// UTF-8 or declares an implausible length. Header decoding treats it as
	// a hint that the byte order was guessed wrong.
	ErrInvalidText      = errors.New("codec: invalid text")
	ErrUnknownFormat    = errors.New("codec: unknown format")
	ErrFormatMismatch   = errors.New("codec: value does not fit format")
	ErrValueOutOfRange  = errors.New("codec: value out of range for format")
	ErrTextTooLong      = errors.New("codec: text too long for length prefix")
	errUnsupportedWidth = errors.New("codec: unsupported width")
)
