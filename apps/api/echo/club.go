package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/user"
)

type clubApi struct {
	opts *Options
}

func registerClubAPI(g *echo.Group, opts *Options) {
	api := clubApi{opts: opts}

	sg := g.Group("/seasons")
	sg.POST("", api.createSeason)
	sg.GET("", api.querySeasons)
	sg.GET("/active", api.activeSeason)
	sg.GET("/:id", api.retrieveSeason)
	sg.PUT("/:id", api.updateSeason)
	sg.DELETE("/:id", api.destroySeason)

	ag := g.Group("/activities")
	ag.POST("", api.createActivity)
	ag.GET("", api.queryActivities)
	ag.DELETE("/:id", api.destroyActivity)

	gg := g.Group("/gyms")
	gg.POST("", api.createGym)
	gg.GET("", api.queryGyms)
	gg.DELETE("/:id", api.destroyGym)

	tg := g.Group("/teams")
	tg.POST("", api.createTeam)
	tg.GET("", api.queryTeams)
	tg.GET("/:id", api.retrieveTeam)
	tg.PUT("/:id", api.updateTeam)
	tg.DELETE("/:id", api.destroyTeam)
	tg.GET("/:id/members", api.queryTeamMembers)
	tg.GET("/:id/coaches", api.queryTeamCoaches)
	tg.POST("/:id/coaches", api.addTeamCoach)
	tg.DELETE("/:id/coaches", api.removeTeamCoaches)
}

func pathID(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "identificativo non valido")
	}
	return id, nil
}

// Seasons

func (api *clubApi) createSeason(ctx echo.Context) error {
	var data club.NewSeason
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSeason")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}
	season, err := api.opts.ClubSvc.CreateSeason(data)
	if err != nil {
		return errors.Wrap(err, "creating season")
	}
	return ctx.JSON(http.StatusCreated, season)
}

func (api *clubApi) querySeasons(ctx echo.Context) error {
	seasons, err := api.opts.ClubSvc.QuerySeasons()
	if err != nil {
		return errors.Wrap(err, "querying seasons")
	}
	if seasons == nil {
		seasons = []club.Season{}
	}
	return ctx.JSON(http.StatusOK, seasons)
}

func (api *clubApi) activeSeason(ctx echo.Context) error {
	season, err := api.opts.ClubSvc.ActiveSeason()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, season)
}

func (api *clubApi) retrieveSeason(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	season, err := api.opts.ClubSvc.GetSeason(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, season)
}

func (api *clubApi) updateSeason(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	season, err := api.opts.ClubSvc.GetSeason(id)
	if err != nil {
		return err
	}

	var data club.NewSeason
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSeason")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	season.Name = data.Name
	season.StartDate = data.StartDate
	season.EndDate = data.EndDate
	season.IsActive = data.IsActive
	season, err = api.opts.ClubSvc.UpdateSeason(season)
	if err != nil {
		return errors.Wrap(err, "updating season")
	}
	return ctx.JSON(http.StatusOK, season)
}

func (api *clubApi) destroySeason(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.opts.ClubSvc.DeleteSeasons(id); err != nil {
		return errors.Wrap(err, "deleting season")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Activities

func (api *clubApi) createActivity(ctx echo.Context) error {
	var data club.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}
	activity, err := api.opts.ClubSvc.CreateActivity(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, activity)
}

func (api *clubApi) queryActivities(ctx echo.Context) error {
	var seasonID uuid.UUID
	if raw := ctx.QueryParam("season_id"); raw != "" {
		var err error
		if seasonID, err = uuid.Parse(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "identificativo non valido")
		}
	}
	activities, err := api.opts.ClubSvc.QueryActivities(seasonID)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	if activities == nil {
		activities = []club.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

func (api *clubApi) destroyActivity(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.opts.ClubSvc.DeleteActivities(id); err != nil {
		return errors.Wrap(err, "deleting activity")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Gyms

func (api *clubApi) createGym(ctx echo.Context) error {
	var data club.NewGym
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGym")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}
	gym, err := api.opts.ClubSvc.CreateGym(data)
	if err != nil {
		return errors.Wrap(err, "creating gym")
	}
	return ctx.JSON(http.StatusCreated, gym)
}

func (api *clubApi) queryGyms(ctx echo.Context) error {
	gyms, err := api.opts.ClubSvc.QueryGyms()
	if err != nil {
		return errors.Wrap(err, "querying gyms")
	}
	if gyms == nil {
		gyms = []club.Gym{}
	}
	return ctx.JSON(http.StatusOK, gyms)
}

func (api *clubApi) destroyGym(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.opts.ClubSvc.DeleteGyms(id); err != nil {
		return errors.Wrap(err, "deleting gym")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Teams

func (api *clubApi) createTeam(ctx echo.Context) error {
	var data club.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}
	team, err := api.opts.ClubSvc.CreateTeam(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, team)
}

func (api *clubApi) queryTeams(ctx echo.Context) error {
	filter := new(club.TeamFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []club.Team{})
	}
	teams, err := api.opts.ClubSvc.QueryTeams(*filter)
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	if teams == nil {
		teams = []club.Team{}
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api *clubApi) retrieveTeam(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	team, err := api.opts.ClubSvc.GetTeam(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, team)
}

func (api *clubApi) updateTeam(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	team, err := api.opts.ClubSvc.GetTeam(id)
	if err != nil {
		return err
	}

	var data club.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	team.ActivityID = data.ActivityID
	team.GymID = data.GymID
	team.Name = data.Name
	if data.Category != "" {
		team.Category.SetValid(data.Category)
	}
	team, err = api.opts.ClubSvc.UpdateTeam(team)
	if err != nil {
		return errors.Wrap(err, "updating team")
	}
	return ctx.JSON(http.StatusOK, team)
}

func (api *clubApi) destroyTeam(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.opts.ClubSvc.DeleteTeams(id); err != nil {
		return errors.Wrap(err, "deleting team")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *clubApi) queryTeamMembers(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	profiles, err := api.opts.ClubSvc.TeamMemberProfiles(id)
	if err != nil {
		return errors.Wrap(err, "querying team members")
	}
	if profiles == nil {
		profiles = []user.User{}
	}
	return ctx.JSON(http.StatusOK, profiles)
}

func (api *clubApi) queryTeamCoaches(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	coaches, err := api.opts.ClubSvc.TeamCoaches(id)
	if err != nil {
		return errors.Wrap(err, "querying team coaches")
	}
	if coaches == nil {
		coaches = []club.TeamCoach{}
	}
	return ctx.JSON(http.StatusOK, coaches)
}

func (api *clubApi) addTeamCoach(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data TeamCoachRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeamCoachRequest")
	}
	if data.CoachID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "campo obbligatorio: coach_id")
	}
	if err := api.opts.ClubSvc.AddCoach(id, data.CoachID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: true})
}

func (api *clubApi) removeTeamCoaches(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if err := api.opts.ClubSvc.RemoveCoaches(id, query.IDs...); err != nil {
		return errors.Wrap(err, "removing team coaches")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type TeamCoachRequest struct {
	CoachID uuid.UUID `json:"coach_id"`
}
