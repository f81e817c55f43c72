// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and renders the error
// page in one call.
type ErrorLogger struct {
	Log    *zap.Logger
	Render viewdata.RenderFunc
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger, Render: templates.Render}
}

// LogServerError logs at error level and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	e.render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	e.render(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if u := viewdata.NewBaseVM(r, ""); u.IsLoggedIn {
		f = append(f, zap.String("identity_id", u.UserID))
	}
	return f
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	e.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, title),
		Message: userMsg,
		BackURL: backURL,
	})
}
