package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/ortiurbani/orti-api/docs"
	v1 "github.com/ortiurbani/orti-api/internal/api/handler/v1"
	"github.com/ortiurbani/orti-api/internal/api/middleware"
	"github.com/ortiurbani/orti-api/internal/authz"
	"github.com/ortiurbani/orti-api/internal/config"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/i18n"
	"github.com/ortiurbani/orti-api/internal/repository"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
	"github.com/ortiurbani/orti-api/internal/service"
)

const (
	citizen      = domain.KindCitizen
	association  = domain.KindAssociationMember
	municipality = domain.KindMunicipalityMember
)

var (
	anyone            = middleware.Authorize(authz.Any())
	citizens          = middleware.Authorize(authz.Allow(citizen))
	municipalities    = middleware.Authorize(authz.Allow(municipality))
	municipalityAdmin = middleware.Authorize(authz.AllowAdmin(municipality))
	members           = middleware.Authorize(authz.Allow(association, municipality))
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Feed   *v1.FeedHub
}

type repositories struct {
	tx             *dao.Transactor
	users          *repository.UserRepository
	municipalities *repository.MunicipalityRepository
	associations   *repository.AssociationRepository
	gardens        *repository.GardenRepository
	assignments    *repository.AssignmentRepository
	bulletin       *repository.BulletinRepository
	telemetry      *repository.TelemetryRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		tx:             dao.NewTransactor(db),
		users:          repository.NewUserRepository(dao.NewUserDAO(db)),
		municipalities: repository.NewMunicipalityRepository(dao.NewMunicipalityDAO(db)),
		associations:   repository.NewAssociationRepository(dao.NewAssociationDAO(db)),
		gardens:        repository.NewGardenRepository(dao.NewGardenDAO(db)),
		assignments:    repository.NewAssignmentRepository(dao.NewAssignmentDAO(db)),
		bulletin:       repository.NewBulletinRepository(dao.NewBulletinDAO(db)),
		telemetry:      repository.NewTelemetryRepository(dao.NewTelemetryDAO(db)),
	}
}

// NewServer wires every handler. The caller owns the feed hub and must run
// it with s.Feed.Run.
func NewServer(conf *config.AppConfig, db *gorm.DB, cache service.Cache) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	repos := newRepositories(db)
	s.Feed = v1.NewFeedHub(repos.telemetry, conf.API.AllowedCORSDomains)
	s.MountHandlers(
		repos,
		s.initAuthHandler(repos),
		s.initUserHandler(repos),
		s.initMunicipalityHandler(repos),
		s.initAssociationHandler(repos),
		s.initGardenHandler(repos, cache),
		s.initGardenAssignmentHandler(repos),
		s.initPlotAssignmentHandler(repos),
		s.initNoticeHandler(repos),
		s.initTenderHandler(repos),
		s.initWeatherHandler(repos, cache),
		s.initSensorHandler(repos),
	)

	return s
}

func (s *Server) initAuthHandler(r *repositories) *v1.AuthHandler {
	svc := service.NewAuthService(r.users)
	return v1.NewAuthHandler(s.Config.API, svc)
}

func (s *Server) initUserHandler(r *repositories) *v1.UserHandler {
	svc := service.NewUserService(r.tx, r.users, r.assignments, r.associations, r.municipalities)
	return v1.NewUserHandler(svc)
}

func (s *Server) initMunicipalityHandler(r *repositories) *v1.MunicipalityHandler {
	svc := service.NewMunicipalityService(r.tx, r.municipalities, r.associations, r.gardens, r.users)
	return v1.NewMunicipalityHandler(svc)
}

func (s *Server) initAssociationHandler(r *repositories) *v1.AssociationHandler {
	svc := service.NewAssociationService(r.tx, r.associations, r.users, r.gardens, r.assignments, r.municipalities)
	return v1.NewAssociationHandler(svc)
}

func (s *Server) initGardenHandler(r *repositories, cache service.Cache) *v1.GardenHandler {
	svc := service.NewGardenService(r.tx, r.gardens, r.municipalities, r.assignments, r.bulletin, r.telemetry, cache)
	return v1.NewGardenHandler(svc)
}

func (s *Server) initGardenAssignmentHandler(r *repositories) *v1.GardenAssignmentHandler {
	svc := service.NewGardenAssignmentService(r.assignments, r.gardens, r.associations)
	return v1.NewGardenAssignmentHandler(svc)
}

func (s *Server) initPlotAssignmentHandler(r *repositories) *v1.PlotAssignmentHandler {
	svc := service.NewPlotAssignmentService(r.tx, r.assignments, r.gardens)
	return v1.NewPlotAssignmentHandler(svc)
}

func (s *Server) initNoticeHandler(r *repositories) *v1.NoticeHandler {
	svc := service.NewNoticeService(r.bulletin, r.gardens)
	return v1.NewNoticeHandler(svc)
}

func (s *Server) initTenderHandler(r *repositories) *v1.TenderHandler {
	svc := service.NewTenderService(r.bulletin, r.municipalities)
	return v1.NewTenderHandler(svc)
}

func (s *Server) initWeatherHandler(r *repositories, cache service.Cache) *v1.WeatherHandler {
	svc := service.NewWeatherService(r.telemetry, r.gardens, cache)
	return v1.NewWeatherHandler(svc)
}

func (s *Server) initSensorHandler(r *repositories) *v1.SensorHandler {
	svc := service.NewSensorService(r.telemetry, r.gardens, s.Feed)
	return v1.NewSensorHandler(svc)
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.Metrics())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(i18n.Localize())
}

func (s *Server) MountHandlers(
	repos *repositories,
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	municipalityHandler *v1.MunicipalityHandler,
	associationHandler *v1.AssociationHandler,
	gardenHandler *v1.GardenHandler,
	gardenAssignmentHandler *v1.GardenAssignmentHandler,
	plotAssignmentHandler *v1.PlotAssignmentHandler,
	noticeHandler *v1.NoticeHandler,
	tenderHandler *v1.TenderHandler,
	weatherHandler *v1.WeatherHandler,
	sensorHandler *v1.SensorHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	api := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey, repos.users).VerifyJWT())
	{
		api.GET("/utenti/me", anyone, userHandler.HandleGetMe)
		api.GET("/utenti", municipalityAdmin, userHandler.HandleListUsers)
		api.GET("/utenti/:id", municipalities, userHandler.HandleGetUser)
		api.PUT("/utenti/:id/affiliazione", municipalityAdmin, userHandler.HandleSetAffiliation)
		api.DELETE("/utenti/:id", municipalityAdmin, userHandler.HandleDeleteUser)

		api.POST("/comuni", municipalityAdmin, municipalityHandler.HandleCreateMunicipality)
		api.GET("/comuni", anyone, municipalityHandler.HandleListMunicipalities)
		api.GET("/comuni/:id", anyone, municipalityHandler.HandleGetMunicipality)
		api.PUT("/comuni/:id", municipalityAdmin, municipalityHandler.HandleUpdateMunicipality)
		api.DELETE("/comuni/:id", municipalityAdmin, municipalityHandler.HandleDeleteMunicipality)

		// The association admin check for updates and members is done by the service.
		api.POST("/associazioni", municipalities, associationHandler.HandleCreateAssociation)
		api.GET("/associazioni", anyone, associationHandler.HandleListAssociations)
		api.GET("/associazioni/:id", anyone, associationHandler.HandleGetAssociation)
		api.PUT("/associazioni/:id", members, associationHandler.HandleUpdateAssociation)
		api.DELETE("/associazioni/:id", municipalities, associationHandler.HandleDeleteAssociation)
		api.POST("/associazioni/:id/membri", members, associationHandler.HandleAddMember)
		api.GET("/associazioni/:id/membri", members, associationHandler.HandleListMembers)

		api.POST("/orti", municipalities, gardenHandler.HandleCreateGarden)
		api.GET("/orti", anyone, gardenHandler.HandleListGardens)
		api.GET("/orti/:id", anyone, gardenHandler.HandleGetGarden)
		api.PUT("/orti/:id", municipalities, gardenHandler.HandleUpdateGarden)
		api.DELETE("/orti/:id", municipalities, gardenHandler.HandleDeleteGarden)
		api.POST("/orti/:id/lotti", municipalities, gardenHandler.HandleCreatePlot)
		api.GET("/orti/:id/lotti", anyone, gardenHandler.HandleListPlots)
		api.GET("/lotti/:id", anyone, gardenHandler.HandleGetPlot)
		api.PUT("/lotti/:id", municipalities, gardenHandler.HandleUpdatePlot)
		api.DELETE("/lotti/:id", municipalities, gardenHandler.HandleDeletePlot)

		api.POST("/affidaOrti", municipalities, gardenAssignmentHandler.HandleCreateGardenAssignment)
		api.GET("/affidaOrti", anyone, gardenAssignmentHandler.HandleListGardenAssignments)
		api.GET("/affidaOrti/:id", anyone, gardenAssignmentHandler.HandleGetGardenAssignment)
		api.DELETE("/affidaOrti/:id", municipalities, gardenAssignmentHandler.HandleDeleteGardenAssignment)

		api.POST("/affidaLotti", citizens, plotAssignmentHandler.HandleRequestPlot)
		api.GET("/affidaLotti", members, plotAssignmentHandler.HandleListPlotAssignments)
		api.GET("/affidaLotti/miei", anyone, plotAssignmentHandler.HandleListMyPlotAssignments)
		api.GET("/affidaLotti/export", municipalityAdmin, plotAssignmentHandler.HandleExportPlotAssignments)
		api.GET("/affidaLotti/:id", anyone, plotAssignmentHandler.HandleGetPlotAssignment)
		api.PUT("/affidaLotti/:id/gestisci", members, plotAssignmentHandler.HandleManagePlotAssignment)
		api.PUT("/affidaLotti/:id", members, plotAssignmentHandler.HandleUpdatePlotAssignment)
		api.DELETE("/affidaLotti/:id", members, plotAssignmentHandler.HandleDeletePlotAssignment)

		api.POST("/avvisi", members, noticeHandler.HandlePublishNotice)
		api.GET("/avvisi", anyone, noticeHandler.HandleListNotices)
		api.GET("/avvisi/:id", anyone, noticeHandler.HandleGetNotice)
		api.DELETE("/avvisi/:id", members, noticeHandler.HandleDeleteNotice)

		api.POST("/bandi", municipalityAdmin, tenderHandler.HandleCreateTender)
		api.GET("/bandi", anyone, tenderHandler.HandleListTenders)
		api.GET("/bandi/:id", anyone, tenderHandler.HandleGetTender)
		api.PUT("/bandi/:id", municipalityAdmin, tenderHandler.HandleUpdateTender)
		api.DELETE("/bandi/:id", municipalityAdmin, tenderHandler.HandleDeleteTender)

		api.POST("/orti/:id/meteo", municipalities, weatherHandler.HandleRecordWeather)
		api.GET("/orti/:id/meteo", anyone, weatherHandler.HandleListWeather)
		api.GET("/orti/:id/meteo/ultimo", anyone, weatherHandler.HandleLatestWeather)

		api.POST("/orti/:id/sensori", municipalities, sensorHandler.HandleRegisterSensor)
		api.GET("/orti/:id/sensori", anyone, sensorHandler.HandleListSensors)
		api.DELETE("/sensori/:id", municipalities, sensorHandler.HandleDeleteSensor)
		api.POST("/sensori/:id/letture", members, sensorHandler.HandleRecordReading)
		api.GET("/sensori/:id/letture", anyone, sensorHandler.HandleListReadings)
		api.GET("/sensori/:id/live", anyone, s.Feed.HandleLive)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Orti Urbani API"
	docs.SwaggerInfo.Description = "Gestione di orti urbani, lotti, associazioni e affidamenti."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
