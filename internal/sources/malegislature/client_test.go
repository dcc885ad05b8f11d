package malegislature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconpay/beaconpay/pkg/legislature"
	"github.com/beaconpay/beaconpay/pkg/logging"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/GeneralCourts/194/LegislativeMembers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"MemberCode":"A1"},{"MemberCode":"B2"}]`)) //nolint:errcheck
	})
	mux.HandleFunc("/GeneralCourts/194/LegislativeMembers/A1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MemberCode":"A1","Name":"Alpha Member","Branch":"House","District":"1st Test","Party":"Democrat","City":"Boston","LeadershipPosition":"Speaker of the House"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/GeneralCourts/194/LegislativeMembers/B2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MemberCode":"B2","Name":"Beta Member","Branch":"Senate","District":"Test and Example","Party":"Republican","City":"Worcester"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/GeneralCourts/194/Committees", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"CommitteeCode":"J10","FullName":"Joint Committee on Testing"}]`)) //nolint:errcheck
	})
	mux.HandleFunc("/GeneralCourts/194/Committees/J10", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"CommitteeCode":"J10","FullName":"Joint Committee on Testing","Members":[{"MemberCode":"B2","Title":"Chair"},{"MemberCode":"A1","Title":"Member"}]}`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRoster(t *testing.T) {
	srv := fakeAPI(t)
	c := New(WithBaseURL(srv.URL), WithLogger(logging.Nop))

	roster, err := c.FetchRoster(context.Background(), 194)
	require.NoError(t, err)
	require.Len(t, roster.Members, 2)

	a := roster.Members[0]
	assert.Equal(t, "A1", a.ID)
	assert.Equal(t, legislature.ChamberHouse, a.Chamber)
	assert.Equal(t, "Boston", a.Locality)
	require.Len(t, a.Roles, 1)
	assert.Equal(t, legislature.RoleSpeaker, a.Roles[0].Role)

	b := roster.Members[1]
	assert.Equal(t, legislature.ChamberSenate, b.Chamber)
	require.Len(t, b.Roles, 1)
	assert.Equal(t, legislature.RoleCommitteeChair, b.Roles[0].Role)
	assert.Equal(t, "Joint Committee on Testing", b.Roles[0].Committee)
}

func TestFetchRosterUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := New(WithBaseURL(srv.URL), WithLogger(logging.Nop))
	_, err := c.FetchRoster(context.Background(), 194)
	require.Error(t, err)
}
