package httpapi

import (
	"net/http"

	"github.com/mssola/useragent"
	"go.uber.org/zap"
)

func deviceFields(r *http.Request) []zap.Field {
	raw := r.UserAgent()
	ua := useragent.New(raw)
	browser, version := ua.Browser()

	return []zap.Field{
		zap.String("user_agent", raw),
		zap.String("browser", browser),
		zap.String("browser_version", version),
		zap.String("os", ua.OS()),
		zap.String("platform", ua.Platform()),
		zap.Bool("mobile", ua.Mobile()),
		zap.Bool("bot", ua.Bot()),
	}
}
