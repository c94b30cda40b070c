package poseprep

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace groups every error registered by this module.
const Codespace = "poseprep"

// Sentinel errors. Callers match them with errors.Is; call sites wrap them
// with errorsmod.Wrapf to add the offending value.
var (
	ErrConfig          = errorsmod.Register(Codespace, 2, "invalid configuration")
	ErrParse           = errorsmod.Register(Codespace, 3, "malformed recording name")
	ErrLookup          = errorsmod.Register(Codespace, 4, "trim interval not found")
	ErrDataConsistency = errorsmod.Register(Codespace, 5, "inconsistent recording data")
	ErrMalformedTable  = errorsmod.Register(Codespace, 6, "malformed trim interval table")
	ErrShape           = errorsmod.Register(Codespace, 7, "unexpected sequence shape")
	ErrIndex           = errorsmod.Register(Codespace, 8, "index out of range")
)
