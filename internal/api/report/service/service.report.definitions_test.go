// Package reportsvc - test load + validate bộ định nghĩa báo cáo.
package reportsvc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownTestModels() map[string]bool {
	return map[string]bool{
		"machines":        true,
		"failures":        true,
		"maintenances":    true,
		"technicians":     true,
		"sensor_readings": true,
	}
}

func TestLoadDefinitions_EmbeddedSetIsValid(t *testing.T) {
	defs, err := LoadDefinitions("", knownTestModels())
	require.NoError(t, err, "bộ định nghĩa embedded phải load được")
	require.NotEmpty(t, defs)

	ids := map[string]bool{}
	for _, def := range defs {
		ids[def.ID] = true
	}
	for _, want := range []string{
		"MACHINE_STATUS_SUMMARY",
		"TOP_FAILURES_BY_MACHINE",
		"MAINTENANCE_COST_BY_TYPE",
		"SENSOR_AVG_BY_METRIC",
		"ACTIVE_FAILURES_KPI",
	} {
		assert.True(t, ids[want], "thiếu định nghĩa %s", want)
	}
}

func TestLoadDefinitions_UnknownModelBlocksStartup(t *testing.T) {
	// Bỏ machines khỏi tập model đã đăng ký → MACHINE_STATUS_SUMMARY phải fail
	known := knownTestModels()
	delete(known, "machines")

	_, err := LoadDefinitions("", known)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "machines")
}

func TestLoadDefinitions_MissingOverrideFile(t *testing.T) {
	_, err := LoadDefinitions("/no/existe/definitions.json", knownTestModels())
	require.Error(t, err)
}

func TestLoadDefinitions_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "definitions.json")
	content := `[
		{
			"id": "SOLO_KPI",
			"name": "Solo KPI",
			"model": "machines",
			"visualizationType": "KPI",
			"requiredRoles": ["LECTOR"]
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	defs, err := LoadDefinitions(path, knownTestModels())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "SOLO_KPI", defs[0].ID)
}

func TestLoadDefinitions_RejectsBadSets(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"json hỏng", `[{`},
		{"mảng rỗng", `[]`},
		{
			"id trùng",
			`[
				{"id": "A", "name": "a", "model": "machines", "visualizationType": "KPI", "requiredRoles": ["ADMIN"]},
				{"id": "A", "name": "a2", "model": "machines", "visualizationType": "KPI", "requiredRoles": ["ADMIN"]}
			]`,
		},
		{
			"PIE với hai aggregation",
			`[{"id": "P", "name": "p", "model": "machines", "visualizationType": "PIE", "groupByField": "status",
			   "aggregations": {"_id": "count", "cost": "sum"}, "requiredRoles": ["ADMIN"]}]`,
		},
		{
			"toán tử lạ",
			`[{"id": "B", "name": "b", "model": "machines", "visualizationType": "BAR", "groupByField": "status",
			   "aggregations": {"cost": "median"}, "requiredRoles": ["ADMIN"]}]`,
		},
		{
			"requiredRoles rỗng",
			`[{"id": "C", "name": "c", "model": "machines", "visualizationType": "KPI", "requiredRoles": []}]`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "definitions.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			_, err := LoadDefinitions(path, knownTestModels())
			assert.Error(t, err, "bộ định nghĩa %s phải bị từ chối", tc.name)
		})
	}
}
