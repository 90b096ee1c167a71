package pomodoro_client

const (
	// Default server
	DefaultBaseURL = "http://localhost:5001"

	// Accounts
	RegisterEndpoint = "/api/register"
	LoginEndpoint    = "/api/login"
	LogoutEndpoint   = "/api/logout"

	// Plant
	PlantStateEndpoint = "/api/plant/state"
	PlantGrowEndpoint  = "/api/plant/grow"
	PlantNewEndpoint   = "/api/plant/new"
	CollectionEndpoint = "/api/user/collection"

	// Sessions and stats
	SettingsEndpoint        = "/api/pomodoro/settings"
	StartSessionEndpoint    = "/api/pomodoro/start"
	CompleteSessionEndpoint = "/api/pomodoro/complete"
	StatsEndpoint           = "/api/user/stats"
	TimerStateEndpoint      = "/api/timer/state"

	// Sync relay
	SocketEndpoint = "/ws"

	// Headers
	AuthorizationHeader = "Authorization"
)
