package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/simforge/sim/model"
)

// repositories returns one fresh instance of every implementation.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	disk, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = disk.Close() })
	mem, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })
	return map[string]Repository{
		"memory":           NewMemoryRepository(),
		"badger":           disk,
		"badger-in-memory": mem,
	}
}

func TestRepository_Get_Missing_ReturnsNotOK(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			p, ok, err := repo.Get("absent")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, p)
		})
	}
}

func TestRepository_SetThenGet_ReturnsPayload(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			// GIVEN a payload with nested values
			payload := Payload{
				"name":     "Triage",
				"capacity": 3,
				"operation_steps": []interface{}{
					map[string]interface{}{"name": "check", "duration": map[string]interface{}{"length": 2.5}},
				},
				"output_buffer_capacity": "unbounded",
			}

			// WHEN stored and read back
			require.NoError(t, repo.Set("a1", payload, model.KindActivity))
			got, ok, err := repo.Get("a1")

			// THEN the values survive (numbers may come back as float64)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Triage", got["name"])
			assert.EqualValues(t, 3, toFloat(got["capacity"]))
			assert.Equal(t, "unbounded", got["output_buffer_capacity"])
			steps, isList := got["operation_steps"].([]interface{})
			require.True(t, isList)
			assert.Len(t, steps, 1)
		})
	}
}

func TestRepository_Set_OverwritesAndRecordsKind(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Set("r1", Payload{"capacity": 1}, model.KindResource))
			require.NoError(t, repo.Set("r1", Payload{"capacity": 4}, model.KindResource))
			require.NoError(t, repo.Set("a1", Payload{}, model.KindActivity))

			records, err := repo.List()
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "a1", records[0].ID)
			assert.Equal(t, model.KindActivity, records[0].Kind)
			assert.Equal(t, "r1", records[1].ID)
			assert.Equal(t, model.KindResource, records[1].Kind)
			assert.EqualValues(t, 4, toFloat(records[1].Payload["capacity"]))
		})
	}
}

func TestRepository_Delete_RemovesAndIsIdempotent(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Set("g1", Payload{"name": "Arrivals"}, model.KindGenerator))
			require.NoError(t, repo.Delete("g1"))
			require.NoError(t, repo.Delete("g1"))

			_, ok, err := repo.Get("g1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMemoryRepository_Get_ReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Set("e1", Payload{"priority": 1}, model.KindEntity))

	got, _, _ := repo.Get("e1")
	got["priority"] = 99

	again, _, _ := repo.Get("e1")
	assert.Equal(t, 1, again["priority"])
}

func TestBadgerRepository_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	repo, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Set("r1", Payload{"capacity": 2}, model.KindResource))
	require.NoError(t, repo.Close())

	reopened, err := OpenBadger(dir)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck // test cleanup

	got, ok, err := reopened.Get("r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, toFloat(got["capacity"]))
}

func TestDecodeRecord_Garbage_ReturnsError(t *testing.T) {
	_, err := decodeRecord("x", []byte{0xff, 0x01, 0x02})
	assert.Error(t, err)
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return -1
	}
}
