package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress      string
		orderAPIAddress string
		sessionSecret   string
		wantErr         bool
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "no API address",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				wantErr: true,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":       "localhost:9999",
				"ORDER_API_ADDRESS": "https://backend.example.com",
				"SESSION_SECRET":    "env-secret",
			},
			flags: []string{},
			want: want{
				runAddress:      "localhost:9999",
				orderAPIAddress: "https://backend.example.com",
				sessionSecret:   "env-secret",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-r", "http://localhost:5000",
				"-s", "flag-secret",
			},
			want: want{
				runAddress:      "localhost:7777",
				orderAPIAddress: "http://localhost:5000",
				sessionSecret:   "flag-secret",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":       "env:9000",
				"ORDER_API_ADDRESS": "http://env-api:5000",
				"SESSION_SECRET":    "env-secret",
			},
			flags: []string{
				"-a", "flag:8000",
				"-r", "http://flag-api:5000",
				"-s", "flag-secret",
			},
			want: want{
				runAddress:      "env:9000",
				orderAPIAddress: "http://env-api:5000",
				sessionSecret:   "env-secret",
			},
		},
		{
			name: "default run address",
			env: map[string]string{
				"ORDER_API_ADDRESS": "http://localhost:5000",
			},
			flags: []string{},
			want: want{
				runAddress:      "localhost:8080",
				orderAPIAddress: "http://localhost:5000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			if tt.want.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.orderAPIAddress, cfg.OrderAPIAddress)
			assert.Equal(t, tt.want.sessionSecret, cfg.SessionSecret)
		})
	}
}
