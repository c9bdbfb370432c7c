package logsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
)

func TestNewLogger_selectsByEnvironment(t *testing.T) {
	tests := []struct {
		name string
		conf *core.Config
		want interface{}
	}{
		{name: "dev", conf: &core.Config{Debug: true}, want: &StdLogger{}},
		{
			name: "deployed without token",
			conf: &core.Config{Env: "PROD"},
			want: &StdLogger{},
		},
		{
			name: "deployed with token",
			conf: &core.Config{Env: "PROD", Rollbar: core.RollbarConfig{Token: "tok"}},
			want: &RollbarLogger{},
		},
		{
			name: "test mode never reports remotely",
			conf: &core.Config{TestMode: true, Rollbar: core.RollbarConfig{Token: "tok"}},
			want: &StdLogger{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, NewLogger(tt.conf))
		})
	}
}

func TestStdLogger_mapsArgsToFields(t *testing.T) {
	// loose args must not panic regardless of shape
	l := NewStdLogger(&core.Config{Debug: true})
	l.Debug("checking", map[string]interface{}{"k": "v"})
	l.Info("checking", assert.AnError)
	l.Warn("checking", "extra", 42)
	l.Error("checking")
}
