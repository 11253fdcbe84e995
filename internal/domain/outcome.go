package domain

import "fmt"

// Tier classifies how a step ended.
type Tier int

const (
	// TierInfo is an expected result, including idempotent no-ops.
	TierInfo Tier = iota
	// TierWarning is a failure the workflow recovers from.
	TierWarning
	// TierFatal aborts the run.
	TierFatal
)

func (t Tier) String() string {
	switch t {
	case TierInfo:
		return "info"
	case TierWarning:
		return "warning"
	case TierFatal:
		return "fatal"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Step names the part of the workflow an Outcome belongs to.
type Step string

const (
	StepRepository   Step = "repository"
	StepCollaborator Step = "collaborator"
	StepInstallation Step = "installation"
	StepWorkspace    Step = "workspace"
	StepScaffold     Step = "scaffold"
	StepCommit       Step = "commit"
	StepPush         Step = "push"
)

// Outcome is the reported result of a single step.
type Outcome struct {
	Step        Step
	Tier        Tier
	Message     string
	Remediation []string
}

// Info builds an informational outcome.
func Info(step Step, format string, args ...any) Outcome {
	return Outcome{Step: step, Tier: TierInfo, Message: fmt.Sprintf(format, args...)}
}

// Warning builds a non-fatal outcome with remediation lines.
func Warning(step Step, message string, remediation ...string) Outcome {
	return Outcome{Step: step, Tier: TierWarning, Message: message, Remediation: remediation}
}

// Fatal builds the outcome recorded when err aborts the run.
func Fatal(step Step, err error) Outcome {
	return Outcome{Step: step, Tier: TierFatal, Message: err.Error()}
}

// SetupResult is what a run reports back.
type SetupResult struct {
	Repository *Repository
	Path       string
	// Workspace is set once the origin remote is configured.
	Workspace  *Workspace
	Committed  bool
	Pushed     bool
	Outcomes   []Outcome
}

// Warnings returns the non-fatal failures recorded during the run.
func (r *SetupResult) Warnings() []Outcome {
	var warnings []Outcome
	for _, o := range r.Outcomes {
		if o.Tier == TierWarning {
			warnings = append(warnings, o)
		}
	}
	return warnings
}

// Abort records err as a fatal outcome for step and returns the partial result with err.
func (r *SetupResult) Abort(step Step, err error) (*SetupResult, error) {
	r.Outcomes = append(r.Outcomes, Fatal(step, err))
	return r, err
}
