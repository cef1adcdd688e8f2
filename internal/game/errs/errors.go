package errs

import "Automancy/modules/kit/errx"

type Code = errx.Code

const (
	CodeInvalidID       Code = "INVALID_ID"
	CodeResourceInvalid Code = "RESOURCE_INVALID"
	CodeMissingRef      Code = "RESOURCE_MISSING_REFERENCE"
	CodeMapLoadFailed   Code = "MAP_LOAD_FAILED"
	CodeMapSaveFailed   Code = "MAP_SAVE_FAILED"
	CodeTileAbsent      Code = "TILE_ABSENT"
	CodeGameStopped     Code = "GAME_STOPPED"
)

// Configuration errors are system errors: they abort startup.
var (
	ErrInvalidID       = errx.NewSys(CodeInvalidID, "malformed identifier")
	ErrResourceInvalid = errx.NewSys(CodeResourceInvalid, "resource definition rejected")
	ErrMissingRef      = errx.NewSys(CodeMissingRef, "resource references an unknown identifier")
)

// Persistence and runtime failures are surfaced to the caller, never fatal.
var (
	ErrMapLoadFailed = errx.NewBiz(CodeMapLoadFailed, "map could not be loaded")
	ErrMapSaveFailed = errx.NewBiz(CodeMapSaveFailed, "map could not be saved")
	ErrTileAbsent    = errx.NewBiz(CodeTileAbsent, "no tile at coordinate")
	ErrGameStopped   = errx.NewBiz(CodeGameStopped, "game is not running")
)
