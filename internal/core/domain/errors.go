package domain

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedTarget is returned for an unknown platform or arch, or a combination with no configuration.
	ErrUnsupportedTarget = zerr.New("unsupported target")

	// ErrPatchApply is returned when a vendor patch does not apply. Callers log it and continue.
	ErrPatchApply = zerr.New("patch failed to apply")

	// ErrPatchRevert is returned when a patch cannot be reverted.
	ErrPatchRevert = zerr.New("patch failed to revert")

	// ErrSubcommandFailed is returned when a sub-command exits with a non-zero status.
	ErrSubcommandFailed = zerr.New("sub-command failed")

	// ErrArtifactMerge is returned when per-arch binaries are missing or cannot be merged.
	ErrArtifactMerge = zerr.New("artifact merge failed")

	// ErrPrepare is returned when a target's isolated source tree or prefix cannot be set up.
	ErrPrepare = zerr.New("failed to prepare target workspace")

	// ErrIllegalTransition is returned when a target state change skips the lifecycle.
	ErrIllegalTransition = zerr.New("illegal state transition")

	// ErrTimeout is returned when a sub-command exceeds its time limit.
	ErrTimeout = zerr.New("sub-command timed out")

	// ErrStepAlreadyExists is returned when attempting to add a step with a name that already exists.
	ErrStepAlreadyExists = zerr.New("step already exists")

	// ErrMissingDependency is returned when a step references a prerequisite that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the step dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrNoFinalStep is returned when no step is marked as producing the shipped binary.
	ErrNoFinalStep = zerr.New("no final step declared")

	// ErrBuildFailed is returned when at least one target failed.
	ErrBuildFailed = zerr.New("build failed")

	// ErrConfigInvalid is returned when the manifest contains invalid values.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrNothingToPublish is returned when the artifacts directory holds no files.
	ErrNothingToPublish = zerr.New("no artifacts to publish")

	// ErrMissingChecksum is returned when an artifact has no checksum sidecar.
	ErrMissingChecksum = zerr.New("artifact has no checksum")
)
