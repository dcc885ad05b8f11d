package legislature

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/beaconpay/beaconpay/pkg/errors"
)

func writeRoster(t *testing.T, roster *Roster) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, roster.Save(path))
	return path
}

func TestLoadRosterSortsByID(t *testing.T) {
	path := writeRoster(t, &Roster{
		Session: 194,
		Members: []Member{
			{ID: "M2", Name: "Beta", Chamber: ChamberSenate, District: "Worcester and Hampden"},
			{ID: "M1", Name: "Alpha", Chamber: ChamberHouse, District: "1st Test"},
		},
	})

	roster, err := LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, roster.Members, 2)
	assert.Equal(t, "M1", roster.Members[0].ID)
	assert.Equal(t, "M2", roster.Members[1].ID)
}

func TestLoadRosterInvalidMember(t *testing.T) {
	path := writeRoster(t, &Roster{
		Session: 194,
		Members: []Member{
			{ID: "M1", Name: "", Chamber: ChamberHouse, District: "1st Test"},
		},
	})

	_, err := LoadRoster(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput), "half-formed member must surface as invalid input")
}

func TestLoadRosterEmpty(t *testing.T) {
	path := writeRoster(t, &Roster{Session: 194})

	_, err := LoadRoster(path)
	assert.True(t, pkgerrors.IsConfig(err))
}
