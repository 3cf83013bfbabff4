// Package errors provides structured error handling with machine codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument represents a malformed caller argument.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Dex errors
	CodeDexNotFound            Code = "DEX_NOT_FOUND"
	CodeDexUpstreamUnavailable Code = "DEX_UPSTREAM_UNAVAILABLE"

	// Battle errors
	CodeBattleInvalidState Code = "BATTLE_INVALID_STATE"
	CodeBattleFinished     Code = "BATTLE_FINISHED"
)
