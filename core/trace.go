package core

// Step is a single transition of an episode along with the table that was updated.
type Step struct {
	State     State
	Action    Action
	Reward    float64
	NextState State

	// Target is the bootstrapped value the update moved towards (before discounting)
	Target float64
	// Updated is the index of the table that received the update
	Updated int
}

type Trace struct {
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0, 2),
	}
}

func (t *Trace) AddStep(s *Step) {
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	return t.steps[i]
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	return t.steps[len(t.steps)-1]
}
