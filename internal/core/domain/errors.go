package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidTargetID is returned when a target identity cannot be parsed.
	ErrInvalidTargetID = zerr.New("invalid target identity")

	// ErrTargetAlreadyExists is returned when a target graph is built with two nodes sharing an identity.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrDanglingDependency is returned when a node references an identity absent from the target graph.
	ErrDanglingDependency = zerr.New("dangling dependency")

	// ErrCycleDetected is returned when a cycle is detected in the target graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not part of the target graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrRuleNotFound is returned by a non-creating index lookup for an absent rule.
	ErrRuleNotFound = zerr.New("rule not found")

	// ErrIndexRetired is returned on any access to a rule index superseded by a newer generation.
	ErrIndexRetired = zerr.New("rule index retired")

	// ErrRuleCycle is returned when rule construction requires itself, directly or transitively.
	ErrRuleCycle = zerr.New("rule construction cycle")

	// ErrRuleConflict is returned when a different rule instance is already registered under an identity.
	ErrRuleConflict = zerr.New("conflicting rule for identity")

	// ErrUnknownKind is returned when no rule factory is registered for a description kind.
	ErrUnknownKind = zerr.New("no factory for description kind")

	// ErrNoTargetsSpecified is returned when no targets are specified for the plan command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrConfigNotFound is returned when no target declaration file can be found.
	ErrConfigNotFound = zerr.New("could not find " + TargetFileName)

	// ErrConfigReadFailed is returned when the target declaration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read target declarations")

	// ErrConfigParseFailed is returned when the target declaration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse target declarations")
)
