package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Policy.AccomplishmentDays)
	assert.Equal(t, 5, cfg.Policy.LiquidationDays)
	assert.True(t, cfg.Policy.RearmOnAppealRejection)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, "15 0 * * *", cfg.Sweep.Schedule)

	m := cfg.Hierarchy.ReviewerMap()
	assert.Equal(t, "USG", m["LSG-Engineering"])
	assert.Equal(t, "OSAS", m["USG"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORGCOMPLY_SERVER_PORT", ":9090")
	t.Setenv("ORGCOMPLY_POLICY_LIQUIDATION_DAYS", "10")
	t.Setenv("ORGCOMPLY_HIERARCHY_PAIRS", "ClubA:Council, Council:Dean")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Policy.LiquidationDays)
	assert.Equal(t, map[string]string{"ClubA": "Council", "Council": "Dean"}, cfg.Hierarchy.ReviewerMap())
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7777")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Port)
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "db", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", d.DSN())
}

func TestReviewerMap_SkipsMalformedPairs(t *testing.T) {
	h := HierarchyConfig{Pairs: []string{"a:b", "nocolon", ":c", "d:", " e : f "}}
	assert.Equal(t, map[string]string{"a": "b", "e": "f"}, h.ReviewerMap())
}
