package config

type App struct {
	Port         string `env:"APP_PORT" default:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	ImageHostURL string `env:"IMAGE_HOST_URL"`
	ImageHostKey string `env:"IMAGE_HOST_KEY"`
	Env          string `env:"APP_ENV" default:"dev"`
}
