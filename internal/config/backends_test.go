package config

import (
	"testing"
	"time"
)

func TestLoadRedisConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    RedisConfig
		wantErr bool
	}{
		{
			name:    "missing address",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "defaults",
			env:  map[string]string{"REDIS_ADDR": "localhost:6379"},
			want: RedisConfig{Addr: "localhost:6379", KeyPrefix: "ghostshopper"},
		},
		{
			name: "all fields",
			env: map[string]string{
				"REDIS_ADDR":       "redis:6379",
				"REDIS_PASSWORD":   "secret",
				"REDIS_DB":         "2",
				"REDIS_KEY_PREFIX": "qa",
			},
			want: RedisConfig{Addr: "redis:6379", Password: "secret", DB: 2, KeyPrefix: "qa"},
		},
		{
			name:    "invalid db",
			env:     map[string]string{"REDIS_ADDR": "redis:6379", "REDIS_DB": "two"},
			wantErr: true,
		},
		{
			name:    "negative db",
			env:     map[string]string{"REDIS_ADDR": "redis:6379", "REDIS_DB": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadRedisConfig(envMap(tt.env))

			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadRedisConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *cfg != tt.want {
				t.Errorf("LoadRedisConfig() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestRedisEnabled(t *testing.T) {
	if RedisEnabled(envMap(map[string]string{})) {
		t.Error("expected redis disabled without REDIS_ADDR")
	}
	if !RedisEnabled(envMap(map[string]string{"REDIS_ADDR": "redis:6379"})) {
		t.Error("expected redis enabled with REDIS_ADDR")
	}
}

func TestLoadNATSConfig(t *testing.T) {
	if cfg := LoadNATSConfig(envMap(map[string]string{})); cfg != nil {
		t.Errorf("expected nil config without NATS_URL, got %+v", cfg)
	}

	cfg := LoadNATSConfig(envMap(map[string]string{"NATS_URL": "nats://localhost:4222"}))
	if cfg == nil {
		t.Fatal("expected config with NATS_URL")
	}
	if cfg.Subject != "ghostshopper.runs" {
		t.Errorf("expected default subject, got %s", cfg.Subject)
	}
	if cfg.ConnectTimeout != 5*time.Second {
		t.Errorf("expected 5s connect timeout, got %s", cfg.ConnectTimeout)
	}

	cfg = LoadNATSConfig(envMap(map[string]string{"NATS_URL": "nats://nats:4222", "NATS_SUBJECT": "qa.events"}))
	if cfg.Subject != "qa.events" {
		t.Errorf("expected subject qa.events, got %s", cfg.Subject)
	}
}

func TestLoadPostgresConfig(t *testing.T) {
	required := map[string]string{
		"POSTGRES_USER":     "ghost",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "runs",
		"POSTGRES_HOSTNAME": "db",
	}
	with := func(extra map[string]string) map[string]string {
		env := map[string]string{}
		for k, v := range required {
			env[k] = v
		}
		for k, v := range extra {
			env[k] = v
		}
		return env
	}

	tests := []struct {
		name     string
		env      map[string]string
		wantConn string
		wantMax  int
		wantErr  bool
	}{
		{
			name:     "defaults",
			env:      with(nil),
			wantConn: "host=db port=5432 user=ghost password=secret dbname=runs sslmode=disable",
			wantMax:  10,
		},
		{
			name: "overrides",
			env: with(map[string]string{
				"POSTGRES_PORT":      "6543",
				"POSTGRES_SSLMODE":   "require",
				"POSTGRES_MAX_CONNS": "4",
			}),
			wantConn: "host=db port=6543 user=ghost password=secret dbname=runs sslmode=require",
			wantMax:  4,
		},
		{
			name:    "missing user",
			env:     map[string]string{"POSTGRES_PASSWORD": "x", "POSTGRES_DB": "x", "POSTGRES_HOSTNAME": "x"},
			wantErr: true,
		},
		{
			name:    "invalid port",
			env:     with(map[string]string{"POSTGRES_PORT": "99999"}),
			wantErr: true,
		},
		{
			name:    "invalid pool size",
			env:     with(map[string]string{"POSTGRES_MAX_CONNS": "0"}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadPostgresConfig(envMap(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadPostgresConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := cfg.ConnectionString(); got != tt.wantConn {
				t.Errorf("ConnectionString() = %q, want %q", got, tt.wantConn)
			}
			if cfg.MaxOpenConns != tt.wantMax {
				t.Errorf("MaxOpenConns = %d, want %d", cfg.MaxOpenConns, tt.wantMax)
			}
		})
	}
}
