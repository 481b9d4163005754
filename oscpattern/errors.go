package oscpattern

import "errors"

var (
	errShortSignature = errors.New("oscpattern: buffer too small for signature")
	errBadPrefix      = errors.New("oscpattern: invalid signature length prefix")
)
