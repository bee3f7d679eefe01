package config

// Environment variables that feed the environment tier of Settings.
const (
	EnvMongoURI         = "MONGO_URI"
	EnvPostgresHost     = "POSTGRES_HOST"
	EnvPostgresDB       = "POSTGRES_DB"
	EnvPostgresUser     = "POSTGRES_USER"
	EnvPostgresPassword = "POSTGRES_PASSWORD"
)

// Settings are the five connection settings one invocation runs with.
type Settings struct {
	MongoURI         string
	PostgresHost     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
}

// Overrides is the invocation payload. Every field is optional; an empty
// value means "not supplied".
type Overrides struct {
	MongoURI         string `json:"mongoUri,omitempty"`
	PostgresHost     string `json:"postgresHost,omitempty"`
	PostgresDB       string `json:"postgresDb,omitempty"`
	PostgresUser     string `json:"postgresUser,omitempty"`
	PostgresPassword string `json:"postgresPassword,omitempty"`
}

// Defaults returns the hardcoded connection settings used when neither the
// environment nor the invocation supplies a value.
func Defaults() Settings {
	return Settings{
		MongoURI:         "mongodb://localhost:27017",
		PostgresHost:     "localhost",
		PostgresDB:       "fruitdb",
		PostgresUser:     "postgres",
		PostgresPassword: "password",
	}
}

// FromEnvironment layers non-empty environment values on top of base.
func FromEnvironment(lookup func(string) string, base Settings) Settings {
	return Settings{
		MongoURI:         firstNonEmpty(lookup(EnvMongoURI), base.MongoURI),
		PostgresHost:     firstNonEmpty(lookup(EnvPostgresHost), base.PostgresHost),
		PostgresDB:       firstNonEmpty(lookup(EnvPostgresDB), base.PostgresDB),
		PostgresUser:     firstNonEmpty(lookup(EnvPostgresUser), base.PostgresUser),
		PostgresPassword: firstNonEmpty(lookup(EnvPostgresPassword), base.PostgresPassword),
	}
}

// Apply returns a copy of s with every non-empty override applied.
func (s Settings) Apply(o Overrides) Settings {
	return Settings{
		MongoURI:         firstNonEmpty(o.MongoURI, s.MongoURI),
		PostgresHost:     firstNonEmpty(o.PostgresHost, s.PostgresHost),
		PostgresDB:       firstNonEmpty(o.PostgresDB, s.PostgresDB),
		PostgresUser:     firstNonEmpty(o.PostgresUser, s.PostgresUser),
		PostgresPassword: firstNonEmpty(o.PostgresPassword, s.PostgresPassword),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
