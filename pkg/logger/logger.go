package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init это логгер logrus по умолчанию, чтобы тесты и утилиты
// могли логировать без инициализации.
var Log = logrus.New()

// Init инициализирует глобальный логгер из окружения и пишет в stdout.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput то же, что Init, но с произвольным выводом
// (weatherctl пишет логи в stderr, чтобы не смешивать с JSON в stdout).
func InitWithOutput(w io.Writer) {
	Log = logrus.New()

	// LOG_LEVEL: по умолчанию "info", для отладки "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// LOG_FORMAT: "json" для продакшена, иначе цветной текст.
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(w)
}

// Component возвращает логгер с полем component, чтобы в JSON-логах
// было видно, какая часть сервиса пишет.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
