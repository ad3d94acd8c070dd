package stages

// Registry is the static stage-number → Executor map spec.md §4.1 step 1
// describes ("Resolve an Executor from a static registry 1..6 →
// Executor"). Grounded on the teacher's compile-time stage wiring in
// tracking_pipeline.go, generalized from a fixed L3-L6 chain to an
// explicit six-entry map so run_single/run_range can address any stage
// by number without the controller knowing its concrete type.
type Registry struct {
	executors map[int]Executor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[int]Executor)}
}

// Register binds a stage number to its Executor. Registering the same
// stage number twice overwrites the prior binding.
func (r *Registry) Register(ex Executor) {
	r.executors[ex.StageNumber()] = ex
}

// Executor returns the registered executor for a stage number.
func (r *Registry) Executor(stage int) (Executor, bool) {
	ex, ok := r.executors[stage]
	return ex, ok
}

// Stages returns every registered stage number between lo and hi
// inclusive, in ascending order — used by RunAll (stages 2..4).
func (r *Registry) Stages(lo, hi int) []int {
	var out []int
	for n := lo; n <= hi; n++ {
		if _, ok := r.executors[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
