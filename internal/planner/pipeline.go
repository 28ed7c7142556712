package planner

// Stage is one step of a pipeline.
type Stage func(State) State

type namedStage struct {
	name string
	fn   Stage
}

// Pipeline is a fixed, ordered sequence of stages.
type Pipeline struct {
	name   string
	stages []namedStage
}

func newPipeline(name string) *Pipeline {
	return &Pipeline{name: name}
}

func (p *Pipeline) then(name string, fn Stage) *Pipeline {
	p.stages = append(p.stages, namedStage{name: name, fn: fn})
	return p
}

// Name returns the pipeline name ("morning" or "evening").
func (p *Pipeline) Name() string { return p.name }

// Names lists the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Run copies the input once and threads it through every stage in order.
// The caller's State is never modified.
func (p *Pipeline) Run(s State) State {
	out := s.Clone()
	for _, st := range p.stages {
		out = st.fn(out)
	}
	return out
}

var (
	morning = newPipeline("morning").
		then("score_tasks", ScoreTasks).
		then("limit_to_3_tasks", LimitToThree).
		then("generate_plan", GeneratePlan)

	evening = newPipeline("evening").
		then("analyze_performance", AnalyzePerformance).
		then("suggest_improvement", SuggestImprovement)
)

// MorningPipeline returns the morning stage chain.
func MorningPipeline() *Pipeline { return morning }

// EveningPipeline returns the evening stage chain.
func EveningPipeline() *Pipeline { return evening }

// Morning selects the day's tasks and sets the focus suggestion.
func Morning(s State) State { return morning.Run(s) }

// Evening scores the day against the morning plan and sets a corrective suggestion.
func Evening(s State) State { return evening.Run(s) }
