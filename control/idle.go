package control

// Idle never issues instructions.
type Idle struct{}

func (Idle) Poll() []Instruction { return nil }
func (Idle) Observe(Observation) {}
func (Idle) Finish(Outcome)      {}
