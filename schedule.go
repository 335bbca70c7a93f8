package impactfx

type Stage struct {
	Name string
}

// The tick is split into three stages: PreUpdate ingests host state, Update
// drains pending impact events, PostUpdate runs deferred housekeeping such
// as timed emitter release.
var (
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
)

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{system: system, inStage: Update}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

func (app *App) UseSystem(sched systemScheduleBuilder) *App {
	app.systems[sched.inStage.Name] = append(app.systems[sched.inStage.Name], sched.system)
	return app
}
