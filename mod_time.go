package impactfx

import (
	"time"
)

type Time struct {
	Now time.Time
	Dt  time.Duration
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Now: time.Now(),
		Dt:  0,
	})
	app.UseSystem(System(timeSystem).InStage(PreUpdate))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Now)
	timeResource.Now = now
}
