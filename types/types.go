package types

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

// Issue describes a structural problem found in a configuration tree.
type Issue struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`

	err error
}

func (i Issue) Err() error {
	return i.err
}
